package ui

import (
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"jotter/internal/editor"
	"jotter/internal/record"
)

// formState is the transient draft for creating or editing one record.
// Discarding it never touches storage.
type formState struct {
	id       int64
	kind     record.Kind
	editing  bool
	status   record.Status
	archived bool
	orderKey int64
	notebook int

	title textinput.Model
	tags  textinput.Model
	date  textinput.Model
	body  *editor.Editor

	focus   int
	errText string
}

const (
	fieldTitle = iota
	fieldTags
	fieldDate
	fieldNotebook
	fieldBody
	fieldCount
)

func (f *formState) hasDate() bool { return f.kind != record.KindNote }

func (f *formState) moveFocus(dir int) {
	for {
		f.focus = (f.focus + dir + fieldCount) % fieldCount
		if f.focus == fieldDate && !f.hasDate() {
			continue
		}
		break
	}
	f.syncFocus()
}

func (f *formState) syncFocus() {
	f.title.Blur()
	f.tags.Blur()
	f.date.Blur()
	switch f.focus {
	case fieldTitle:
		f.title.Focus()
	case fieldTags:
		f.tags.Focus()
	case fieldDate:
		f.date.Focus()
	}
}

func (f *formState) resize(width int) {
	w := max(20, width-16)
	f.title.Width = w
	f.tags.Width = w
	f.date.Width = w
}

func (m Model) openForm(existing *record.Record) (tea.Model, tea.Cmd) {
	f := &formState{kind: m.tab, body: editor.New()}

	f.title = textinput.New()
	f.title.Prompt = ""
	f.title.Placeholder = "title"
	f.title.CharLimit = 256

	f.tags = textinput.New()
	f.tags.Prompt = ""
	f.tags.Placeholder = "tags, comma separated"
	f.tags.CharLimit = 128

	f.date = textinput.New()
	f.date.Prompt = ""
	f.date.CharLimit = 10
	if f.kind == record.KindTask {
		f.date.Placeholder = "due YYYY-MM-DD (optional)"
	} else {
		f.date.Placeholder = "YYYY-MM-DD"
	}

	if existing != nil {
		f.editing = true
		f.id = existing.ID
		f.status = existing.Status
		f.archived = existing.Archived
		f.orderKey = existing.OrderKey
		f.title.SetValue(existing.Title)
		f.tags.SetValue(record.JoinTags(existing.Tags))
		f.body.SetValue(existing.Body)
		switch existing.Kind {
		case record.KindTask:
			if existing.Due != nil {
				f.date.SetValue(existing.Due.Format(record.DateLayout))
			}
		case record.KindJournal:
			f.date.SetValue(existing.Date.Format(record.DateLayout))
		}
		if existing.NotebookID != nil {
			for i, nb := range m.notebooks {
				if nb.ID == *existing.NotebookID {
					f.notebook = i + 1
					break
				}
			}
		}
	} else if f.kind == record.KindJournal {
		f.date.SetValue(time.Now().Format(record.DateLayout))
	}

	f.resize(m.width)
	f.title.Focus()
	m.form = f
	m.mode = modeForm
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	switch {
	case msg.String() == "esc":
		m.form = nil
		m.mode = modeNormal
		return m, m.setStatus("Discarded draft")
	case key.Matches(msg, m.keys.Save):
		return m.saveForm()
	case msg.String() == "tab":
		f.errText = ""
		f.moveFocus(1)
		return m, nil
	case msg.String() == "shift+tab":
		f.errText = ""
		f.moveFocus(-1)
		return m, nil
	}

	switch f.focus {
	case fieldBody:
		return m.updateFormBody(msg)
	case fieldNotebook:
		n := len(m.notebooks) + 1
		switch msg.String() {
		case "left", "h":
			f.notebook = (f.notebook + n - 1) % n
		case "right", "l", " ":
			f.notebook = (f.notebook + 1) % n
		case "enter":
			f.moveFocus(1)
		}
		return m, nil
	}

	if msg.String() == "enter" {
		f.errText = ""
		f.moveFocus(1)
		return m, nil
	}
	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldTags:
		f.tags, cmd = f.tags.Update(msg)
	case fieldDate:
		f.date, cmd = f.date.Update(msg)
	}
	return m, cmd
}

// updateFormBody routes keys to the body editor: motion, selection,
// history, and clipboard.
func (m Model) updateFormBody(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ed := m.form.body
	switch {
	case key.Matches(msg, m.keys.Undo):
		if !ed.Undo() {
			return m, m.setStatus("Nothing to undo")
		}
		return m, nil
	case key.Matches(msg, m.keys.Redo):
		if !ed.Redo() {
			return m, m.setStatus("Nothing to redo")
		}
		return m, nil
	case key.Matches(msg, m.keys.WordLeft):
		ed.MoveWordLeft(false)
		return m, nil
	case key.Matches(msg, m.keys.WordRight):
		ed.MoveWordRight(false)
		return m, nil
	case key.Matches(msg, m.keys.Help):
		return m.openMarkdownHelp(), nil
	}

	switch msg.String() {
	case "left":
		ed.MoveLeft(false)
	case "right":
		ed.MoveRight(false)
	case "up":
		ed.MoveUp(false)
	case "down":
		ed.MoveDown(false)
	case "shift+left":
		ed.MoveLeft(true)
	case "shift+right":
		ed.MoveRight(true)
	case "shift+up":
		ed.MoveUp(true)
	case "shift+down":
		ed.MoveDown(true)
	case "home":
		ed.MoveLineStart(false)
	case "end":
		ed.MoveLineEnd(false)
	case "shift+home":
		ed.MoveLineStart(true)
	case "shift+end":
		ed.MoveLineEnd(true)
	case "ctrl+home":
		ed.MoveStart(false)
	case "ctrl+end":
		ed.MoveEnd(false)
	case "ctrl+shift+left":
		ed.MoveWordLeft(true)
	case "ctrl+shift+right":
		ed.MoveWordRight(true)
	case "ctrl+a":
		ed.SelectAll()
	case "ctrl+c":
		return m.copySelection(false)
	case "ctrl+x":
		return m.copySelection(true)
	case "ctrl+v":
		return m.pasteClipboard()
	case "backspace":
		ed.DeleteBackward()
	case "delete":
		ed.DeleteForward()
	case "enter":
		ed.Insert("\n")
	case " ":
		ed.Insert(" ")
	default:
		if msg.Type == tea.KeyRunes && !msg.Alt {
			ed.Insert(string(msg.Runes))
		}
	}
	return m, nil
}

func (m Model) copySelection(cut bool) (tea.Model, tea.Cmd) {
	ed := m.form.body
	text := ed.SelectedText()
	if text == "" {
		return m, m.setStatus("No selection")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return m, m.setStatus("clipboard unavailable: %v", err)
	}
	if cut {
		ed.DeleteSelection()
		return m, m.setStatus("Cut selection")
	}
	return m, m.setStatus("Copied selection")
}

func (m Model) pasteClipboard() (tea.Model, tea.Cmd) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return m, m.setStatus("clipboard unavailable: %v", err)
	}
	if text != "" {
		m.form.body.Insert(text)
	}
	return m, nil
}

// saveForm validates the draft and commits it. Validation failures keep the
// form open with an inline message; storage failures keep the draft so the
// user can retry.
func (m Model) saveForm() (tea.Model, tea.Cmd) {
	f := m.form
	title := strings.TrimSpace(f.title.Value())
	if title == "" && f.kind != record.KindJournal {
		f.errText = "title is required"
		return m, nil
	}

	rec := record.Record{
		ID:    f.id,
		Kind:  f.kind,
		Title: title,
		Body:  f.body.Value(),
		Tags:  record.ParseTags(f.tags.Value()),
	}
	switch f.kind {
	case record.KindTask:
		due := strings.TrimSpace(f.date.Value())
		if due != "" {
			t, err := time.Parse(record.DateLayout, due)
			if err != nil {
				f.errText = "due date must be YYYY-MM-DD"
				return m, nil
			}
			rec.Due = &t
		}
		rec.Status = f.status
		if !f.editing {
			rec.Status = record.StatusOpen
		}
	case record.KindJournal:
		t, err := time.Parse(record.DateLayout, strings.TrimSpace(f.date.Value()))
		if err != nil {
			f.errText = "date must be YYYY-MM-DD"
			return m, nil
		}
		rec.Date = t
	}
	if f.notebook > 0 && f.notebook <= len(m.notebooks) {
		id := m.notebooks[f.notebook-1].ID
		rec.NotebookID = &id
	}

	var err error
	if f.editing {
		rec.OrderKey = f.orderKey
		rec.Archived = f.archived
		err = m.store.Update(rec)
	} else {
		err = m.store.Create(&rec)
	}
	if err != nil {
		return m, m.setStatus("save failed: %v", err)
	}

	m.form = nil
	m.mode = modeNormal
	if err := m.reloadKind(rec.Kind); err != nil {
		return m, m.setStatus("reload failed: %v", err)
	}
	m.rebuild()
	m.reselectID(rec.ID)
	return m, m.setStatus("Saved %s", rec.Kind)
}
