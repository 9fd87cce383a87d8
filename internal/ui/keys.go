package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"jotter/internal/config"
)

// keyMap wraps the configured bindings as bubbles key.Binding values so
// handlers can use key.Matches and the help view can list them.
type keyMap struct {
	Quit           key.Binding
	New            key.Binding
	Edit           key.Binding
	Save           key.Binding
	Delete         key.Binding
	Search         key.Binding
	Select         key.Binding
	Up             key.Binding
	Down           key.Binding
	TabLeft        key.Binding
	TabRight       key.Binding
	Tab1           key.Binding
	Tab2           key.Binding
	Tab3           key.Binding
	Help           key.Binding
	Settings       key.Binding
	Filter         key.Binding
	ToggleStatus   key.Binding
	ToggleListView key.Binding
	ToggleSidebar  key.Binding
	Notebooks      key.Binding
	Undo           key.Binding
	Redo           key.Binding
	WordLeft       key.Binding
	WordRight      key.Binding
	MoveUp         key.Binding
	MoveDown       key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Quit:           key.NewBinding(key.WithKeys(k.Quit, "ctrl+c"), key.WithHelp(k.Quit, "quit")),
		New:            key.NewBinding(key.WithKeys(k.New), key.WithHelp(k.New, "new")),
		Edit:           key.NewBinding(key.WithKeys(k.Edit), key.WithHelp(k.Edit, "edit")),
		Save:           key.NewBinding(key.WithKeys(k.Save), key.WithHelp(k.Save, "save")),
		Delete:         key.NewBinding(key.WithKeys(k.Delete), key.WithHelp(k.Delete, "delete/archive")),
		Search:         key.NewBinding(key.WithKeys(k.Search), key.WithHelp(k.Search, "search")),
		Select:         key.NewBinding(key.WithKeys(k.Select), key.WithHelp(k.Select, "select")),
		Up:             key.NewBinding(key.WithKeys(k.ListUp, "up"), key.WithHelp(k.ListUp, "up")),
		Down:           key.NewBinding(key.WithKeys(k.ListDown, "down"), key.WithHelp(k.ListDown, "down")),
		TabLeft:        key.NewBinding(key.WithKeys(k.TabLeft), key.WithHelp(k.TabLeft, "prev tab")),
		TabRight:       key.NewBinding(key.WithKeys(k.TabRight), key.WithHelp(k.TabRight, "next tab")),
		Tab1:           key.NewBinding(key.WithKeys(k.Tab1), key.WithHelp(k.Tab1, "tasks")),
		Tab2:           key.NewBinding(key.WithKeys(k.Tab2), key.WithHelp(k.Tab2, "notes")),
		Tab3:           key.NewBinding(key.WithKeys(k.Tab3), key.WithHelp(k.Tab3, "journal")),
		Help:           key.NewBinding(key.WithKeys(k.Help), key.WithHelp(k.Help, "help")),
		Settings:       key.NewBinding(key.WithKeys(k.Settings), key.WithHelp(k.Settings, "settings")),
		Filter:         key.NewBinding(key.WithKeys(k.Filter), key.WithHelp(k.Filter, "filter")),
		ToggleStatus:   key.NewBinding(key.WithKeys(k.ToggleStatus), key.WithHelp(helpLabel(k.ToggleStatus), "cycle status")),
		ToggleListView: key.NewBinding(key.WithKeys(k.ToggleListView), key.WithHelp(k.ToggleListView, "list view")),
		ToggleSidebar:  key.NewBinding(key.WithKeys(k.ToggleSidebar), key.WithHelp(k.ToggleSidebar, "sidebar")),
		Notebooks:      key.NewBinding(key.WithKeys(k.Notebooks), key.WithHelp(k.Notebooks, "notebooks")),
		Undo:           key.NewBinding(key.WithKeys(k.Undo), key.WithHelp(k.Undo, "undo")),
		Redo:           key.NewBinding(key.WithKeys(k.Redo), key.WithHelp(k.Redo, "redo")),
		WordLeft:       key.NewBinding(key.WithKeys(k.WordLeft), key.WithHelp(k.WordLeft, "word left")),
		WordRight:      key.NewBinding(key.WithKeys(k.WordRight), key.WithHelp(k.WordRight, "word right")),
		MoveUp:         key.NewBinding(key.WithKeys("ctrl+up"), key.WithHelp("ctrl+up", "move item up")),
		MoveDown:       key.NewBinding(key.WithKeys("ctrl+down"), key.WithHelp("ctrl+down", "move item down")),
	}
}

func helpLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}
