package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"jotter/internal/config"
	"jotter/internal/storage"
	"jotter/internal/ui"
)

// App carries the persistent flag values shared by every command.
type App struct {
	ConfigPath string
	Dev        bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "jotter",
		Short:        "Keyboard-driven tasks, notes and journals for the terminal",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  jotter

  # Capture without opening the TUI
  jotter add task "call the landlord" --due 2026-09-01 --tags home
  jotter add note "standup notes" --tags work --body "key points..."
  jotter add journal "slept badly, shipped anyway"
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cfg, err := openStore(app)
			if err != nil {
				return err
			}
			defer store.Close()
			return ui.Run(store, cfg)
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "path to the config file (default: the user config dir)")
	cmd.PersistentFlags().BoolVar(&app.Dev, "dev", false, "use the dev profile: separate config and database")

	cmd.AddCommand(newAddCmd(app))

	return cmd
}

// openStore resolves the config path, loads or creates the config file,
// and opens the database it points at.
func openStore(app *App) (*storage.Store, config.Config, error) {
	path := app.ConfigPath
	if path == "" {
		p, err := config.DefaultPath(app.Dev)
		if err != nil {
			return nil, config.Config{}, err
		}
		path = p
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, config.Config{}, err
	}
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, config.Config{}, err
	}
	return store, cfg, nil
}
