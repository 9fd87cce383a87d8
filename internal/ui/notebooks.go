package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"jotter/internal/filter"
	"jotter/internal/storage"
)

// notebookState drives the notebook manager. The browse stage lists
// notebooks and acts on the record selected in the main list; the name
// stages reuse a single text input for create and rename.
type notebookState struct {
	entry    textinput.Model
	cursor   int
	stage    int
	renameID int64
	errText  string
}

const (
	bookBrowse = iota
	bookName
	bookRename
	bookConfirm
)

func (m Model) openNotebooks() Model {
	m.mode = modeNotebooks
	m.books.stage = bookBrowse
	m.books.errText = ""
	if m.books.cursor >= len(m.notebooks) {
		m.books.cursor = len(m.notebooks) - 1
	}
	if m.books.cursor < 0 {
		m.books.cursor = 0
	}
	return m
}

func (m Model) updateNotebooks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.books.stage {
	case bookName, bookRename:
		return m.updateNotebookEntry(msg)
	case bookConfirm:
		return m.updateNotebookConfirm(msg)
	}
	return m.updateNotebookBrowse(msg)
}

func (m Model) updateNotebookBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeNormal
		return m, nil
	case "up", "k":
		if m.books.cursor > 0 {
			m.books.cursor--
		}
		return m, nil
	case "down", "j":
		if m.books.cursor < len(m.notebooks)-1 {
			m.books.cursor++
		}
		return m, nil
	case "n":
		m.books.stage = bookName
		m.books.errText = ""
		m.books.entry.SetValue("")
		m.books.entry.Focus()
		return m, nil
	case "r":
		if len(m.notebooks) == 0 {
			return m, nil
		}
		nb := m.notebooks[m.books.cursor]
		m.books.stage = bookRename
		m.books.renameID = nb.ID
		m.books.errText = ""
		m.books.entry.SetValue(nb.Name)
		m.books.entry.Focus()
		return m, nil
	case "d":
		if len(m.notebooks) == 0 {
			return m, nil
		}
		m.books.stage = bookConfirm
		return m, nil
	case "enter":
		return m.assignSelected(false)
	case "u":
		return m.assignSelected(true)
	}
	return m, nil
}

// assignSelected files the record highlighted in the main list under the
// notebook under the cursor, or clears the assignment when unfile is set.
func (m Model) assignSelected(unfile bool) (tea.Model, tea.Cmd) {
	rec, ok := m.selectedRecord()
	if !ok {
		return m, m.setStatus("No record selected")
	}
	var target *int64
	label := filter.UnfiledLabel
	if !unfile {
		if len(m.notebooks) == 0 {
			return m, m.setStatus("No notebooks yet, press n to create one")
		}
		nb := m.notebooks[m.books.cursor]
		target = &nb.ID
		label = nb.Name
	}
	if err := m.store.AssignNotebook(rec.Kind, rec.ID, target); err != nil {
		return m, m.setStatus("assign failed: %v", err)
	}
	m.mode = modeNormal
	if err := m.reloadKind(m.tab); err != nil {
		return m, m.setStatus("reload failed: %v", err)
	}
	m.rebuild()
	m.reselectID(rec.ID)
	return m, m.setStatus("Moved %q to %s", displayTitle(rec), label)
}

func (m Model) updateNotebookEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.books.stage = bookBrowse
		m.books.errText = ""
		m.books.entry.Blur()
		return m, nil
	case "enter":
		return m.commitNotebookName()
	}
	var cmd tea.Cmd
	m.books.entry, cmd = m.books.entry.Update(msg)
	m.books.errText = ""
	return m, cmd
}

func (m Model) commitNotebookName() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(m.books.entry.Value())
	if name == "" {
		m.books.errText = "name is required"
		return m, nil
	}
	var err error
	if m.books.stage == bookRename {
		err = m.store.RenameNotebook(m.books.renameID, name)
	} else {
		_, err = m.store.CreateNotebook(name)
	}
	if errors.Is(err, storage.ErrDuplicateName) {
		m.books.errText = "a notebook with that name already exists"
		return m, nil
	}
	if err != nil {
		m.books.errText = err.Error()
		return m, nil
	}
	renamed := m.books.stage == bookRename
	m.books.stage = bookBrowse
	m.books.errText = ""
	m.books.entry.Blur()
	if err := m.reloadNotebooks(); err != nil {
		return m, m.setStatus("reload failed: %v", err)
	}
	for i, nb := range m.notebooks {
		if nb.Name == name {
			m.books.cursor = i
		}
	}
	m.rebuildPreserve()
	if renamed {
		return m, m.setStatus("Renamed notebook to %q", name)
	}
	return m, m.setStatus("Created notebook %q", name)
}

func (m Model) updateNotebookConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		nb := m.notebooks[m.books.cursor]
		if err := m.store.DeleteNotebook(nb.ID); err != nil {
			m.books.stage = bookBrowse
			return m, m.setStatus("delete failed: %v", err)
		}
		m.books.stage = bookBrowse
		if err := m.reloadAll(); err != nil {
			return m, m.setStatus("reload failed: %v", err)
		}
		if m.books.cursor >= len(m.notebooks) && m.books.cursor > 0 {
			m.books.cursor--
		}
		m.rebuildPreserve()
		return m, m.setStatus("Deleted notebook %q, records kept", nb.Name)
	case "n", "N", "esc":
		m.books.stage = bookBrowse
		return m, nil
	}
	return m, nil
}
