// Package config loads the TOML configuration file: key bindings, themes,
// and application settings. The file is created with defaults on first run
// and treated as immutable for the rest of the session.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "jotter.db"

	appDirName = "jotter"
	devDirName = "jotter-dev"
)

// Keymap holds the configurable key bindings. Values use bubbletea key
// syntax after normalization ("Ctrl+S" and "Space" are accepted in the
// file).
type Keymap struct {
	Quit           string `toml:"quit"`
	New            string `toml:"new"`
	Edit           string `toml:"edit"`
	Save           string `toml:"save"`
	Delete         string `toml:"delete"`
	Search         string `toml:"search"`
	Select         string `toml:"select"`
	ListUp         string `toml:"list_up"`
	ListDown       string `toml:"list_down"`
	TabLeft        string `toml:"tab_left"`
	TabRight       string `toml:"tab_right"`
	Tab1           string `toml:"tab_1"`
	Tab2           string `toml:"tab_2"`
	Tab3           string `toml:"tab_3"`
	Help           string `toml:"help"`
	Settings       string `toml:"settings"`
	Filter         string `toml:"filter"`
	ToggleStatus   string `toml:"toggle_status"`
	ToggleListView string `toml:"toggle_list_view"`
	ToggleSidebar  string `toml:"toggle_sidebar"`
	Notebooks      string `toml:"notebooks"`
	Undo           string `toml:"undo"`
	Redo           string `toml:"redo"`
	WordLeft       string `toml:"word_left"`
	WordRight      string `toml:"word_right"`
}

// Theme is one named color set. Colors are ANSI palette numbers or hex
// strings, empty meaning the terminal default.
type Theme struct {
	Fg          string `toml:"fg"`
	Bg          string `toml:"bg"`
	HighlightFg string `toml:"highlight_fg"`
	HighlightBg string `toml:"highlight_bg"`
	TabBg       string `toml:"tab_bg"`
	Accent      string `toml:"accent"`
}

type Config struct {
	DBPath        string           `toml:"db_path"`
	Theme         string           `toml:"theme"`
	ListViewMode  string           `toml:"list_view_mode"`
	SidebarWidth  int              `toml:"sidebar_width"`
	Notifications bool             `toml:"notifications"`
	Keys          Keymap           `toml:"keys"`
	Themes        map[string]Theme `toml:"themes"`
}

// Dir returns the configuration directory, a separate one under the dev
// profile so experiments never touch real data.
func Dir(dev bool) (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	name := appDirName
	if dev {
		name = devDirName
	}
	return filepath.Join(base, name), nil
}

// DefaultPath returns the default config file location for the profile.
func DefaultPath(dev bool) (string, error) {
	dir, err := Dir(dev)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFileName), nil
}

// LoadOrCreate reads the config at path, writing a default file first when
// none exists. Missing fields fall back to defaults; an empty db_path
// resolves next to the config file.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	cfg.Keys.normalize()
	if cfg.SidebarWidth <= 0 {
		cfg.SidebarWidth = 30
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(filepath.Dir(path), DefaultDBName)
	} else {
		cfg.DBPath = ExpandPath(cfg.DBPath)
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ActiveTheme resolves the configured theme name, falling back to the
// built-in default when the name is unknown.
func (c Config) ActiveTheme() Theme {
	if t, ok := c.Themes[c.Theme]; ok {
		return t
	}
	if t, ok := presetThemes()[c.Theme]; ok {
		return t
	}
	return presetThemes()["default"]
}

// ThemeNames lists the selectable themes, presets first, then user themes.
func (c Config) ThemeNames() []string {
	names := []string{"default", "dark", "light"}
	seen := map[string]bool{"default": true, "dark": true, "light": true}
	var extra []string
	for name := range c.Themes {
		if !seen[name] {
			extra = append(extra, name)
			seen[name] = true
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

// ExpandPath resolves a leading "~/" against the home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

// NormalizeKey lowers a key binding into bubbletea's key syntax: "Ctrl+S"
// becomes "ctrl+s", "Space" the literal space, "Escape" "esc".
func NormalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "space":
		return " "
	case "escape":
		return "esc"
	case "return":
		return "enter"
	default:
		return s
	}
}

func (k *Keymap) normalize() {
	def := defaultKeymap()
	bindings := []struct {
		field *string
		def   string
	}{
		{&k.Quit, def.Quit}, {&k.New, def.New}, {&k.Edit, def.Edit},
		{&k.Save, def.Save}, {&k.Delete, def.Delete}, {&k.Search, def.Search},
		{&k.Select, def.Select}, {&k.ListUp, def.ListUp},
		{&k.ListDown, def.ListDown}, {&k.TabLeft, def.TabLeft},
		{&k.TabRight, def.TabRight}, {&k.Tab1, def.Tab1}, {&k.Tab2, def.Tab2},
		{&k.Tab3, def.Tab3}, {&k.Help, def.Help},
		{&k.Settings, def.Settings}, {&k.Filter, def.Filter},
		{&k.ToggleStatus, def.ToggleStatus},
		{&k.ToggleListView, def.ToggleListView},
		{&k.ToggleSidebar, def.ToggleSidebar},
		{&k.Notebooks, def.Notebooks}, {&k.Undo, def.Undo}, {&k.Redo, def.Redo},
		{&k.WordLeft, def.WordLeft}, {&k.WordRight, def.WordRight},
	}
	for _, b := range bindings {
		*b.field = NormalizeKey(*b.field)
		if *b.field == "" {
			*b.field = b.def
		}
	}
}

func defaultKeymap() Keymap {
	return Keymap{
		Quit:           "q",
		New:            "n",
		Edit:           "e",
		Save:           "ctrl+s",
		Delete:         "d",
		Search:         "/",
		Select:         "enter",
		ListUp:         "k",
		ListDown:       "j",
		TabLeft:        "left",
		TabRight:       "right",
		Tab1:           "1",
		Tab2:           "2",
		Tab3:           "3",
		Help:           "f1",
		Settings:       "f2",
		Filter:         "f",
		ToggleStatus:   " ",
		ToggleListView: "t",
		ToggleSidebar:  "b",
		Notebooks:      "ctrl+n",
		Undo:           "ctrl+z",
		Redo:           "ctrl+y",
		WordLeft:       "ctrl+left",
		WordRight:      "ctrl+right",
	}
}

func presetThemes() map[string]Theme {
	return map[string]Theme{
		"default": {
			Fg:          "15",
			Bg:          "",
			HighlightFg: "15",
			HighlightBg: "4",
			TabBg:       "8",
			Accent:      "12",
		},
		"dark": {
			Fg:          "15",
			Bg:          "",
			HighlightFg: "0",
			HighlightBg: "6",
			TabBg:       "8",
			Accent:      "14",
		},
		"light": {
			Fg:          "0",
			Bg:          "",
			HighlightFg: "0",
			HighlightBg: "6",
			TabBg:       "7",
			Accent:      "4",
		},
	}
}

func defaultConfig() Config {
	return Config{
		DBPath:        "",
		Theme:         "default",
		ListViewMode:  "simple",
		SidebarWidth:  30,
		Notifications: true,
		Keys:          defaultKeymap(),
		Themes:        map[string]Theme{},
	}
}
