package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"jotter/internal/record"
)

func newAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a record without opening the TUI",
	}
	cmd.AddCommand(newAddTaskCmd(app))
	cmd.AddCommand(newAddNoteCmd(app))
	cmd.AddCommand(newAddJournalCmd(app))
	return cmd
}

func newAddTaskCmd(app *App) *cobra.Command {
	var due, tags, body string
	cmd := &cobra.Command{
		Use:   "task <title>",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(args[0])
			if title == "" {
				return errors.New("title is required")
			}
			rec := record.Record{
				Kind:   record.KindTask,
				Title:  title,
				Body:   body,
				Tags:   record.ParseTags(tags),
				Status: record.StatusOpen,
			}
			if due != "" {
				d, err := time.Parse(record.DateLayout, due)
				if err != nil {
					return fmt.Errorf("invalid --due %q, want YYYY-MM-DD", due)
				}
				rec.Due = &d
			}
			return createAndReport(cmd, app, rec)
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&tags, "tags", "", "comma separated tags")
	cmd.Flags().StringVar(&body, "body", "", "body text")
	return cmd
}

func newAddNoteCmd(app *App) *cobra.Command {
	var tags, body string
	cmd := &cobra.Command{
		Use:   "note <title>",
		Short: "Add a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(args[0])
			if title == "" {
				return errors.New("title is required")
			}
			rec := record.Record{
				Kind:  record.KindNote,
				Title: title,
				Body:  body,
				Tags:  record.ParseTags(tags),
			}
			return createAndReport(cmd, app, rec)
		},
	}
	cmd.Flags().StringVar(&tags, "tags", "", "comma separated tags")
	cmd.Flags().StringVar(&body, "body", "", "body text")
	return cmd
}

func newAddJournalCmd(app *App) *cobra.Command {
	var title, tags, date string
	cmd := &cobra.Command{
		Use:   "journal <body>",
		Short: "Add a journal entry for today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec := record.Record{
				Kind:  record.KindJournal,
				Title: strings.TrimSpace(title),
				Body:  args[0],
				Tags:  record.ParseTags(tags),
			}
			if date != "" {
				d, err := time.Parse(record.DateLayout, date)
				if err != nil {
					return fmt.Errorf("invalid --date %q, want YYYY-MM-DD", date)
				}
				rec.Date = d
			}
			return createAndReport(cmd, app, rec)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "optional entry title")
	cmd.Flags().StringVar(&tags, "tags", "", "comma separated tags")
	cmd.Flags().StringVar(&date, "date", "", "entry date (YYYY-MM-DD, default today)")
	return cmd
}

func createAndReport(cmd *cobra.Command, app *App, rec record.Record) error {
	store, _, err := openStore(app)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Create(&rec); err != nil {
		return err
	}
	label := rec.Title
	if label == "" {
		label = rec.Date.Format(record.DateLayout)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s #%d: %s\n", rec.Kind, rec.ID, label)
	return nil
}
