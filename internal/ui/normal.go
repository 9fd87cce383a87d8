package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"jotter/internal/filter"
	"jotter/internal/record"
)

const (
	viewSimple  = "simple"
	viewTwoLine = "two_line"
	viewGrouped = "grouped"
)

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.selected = filter.PrevItem(m.rows, m.selected)
		m.syncDetail()
	case key.Matches(msg, m.keys.Down):
		m.selected = filter.NextItem(m.rows, m.selected)
		m.syncDetail()
	case key.Matches(msg, m.keys.TabLeft):
		return m.switchTab(-1), nil
	case key.Matches(msg, m.keys.TabRight):
		return m.switchTab(1), nil
	case key.Matches(msg, m.keys.Tab1):
		return m.switchTo(record.KindTask), nil
	case key.Matches(msg, m.keys.Tab2):
		return m.switchTo(record.KindNote), nil
	case key.Matches(msg, m.keys.Tab3):
		return m.switchTo(record.KindJournal), nil
	case key.Matches(msg, m.keys.New):
		return m.openForm(nil)
	case key.Matches(msg, m.keys.Edit), key.Matches(msg, m.keys.Select):
		if rec, ok := m.selectedRecord(); ok {
			return m.openForm(&rec)
		}
	case key.Matches(msg, m.keys.Delete):
		if rec, ok := m.selectedRecord(); ok {
			m.confirm = confirmState{rec: rec}
			m.mode = modeConfirmDelete
		}
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		m.rebuildPreserve()
	case key.Matches(msg, m.keys.Filter):
		return m.openFilterForm(), nil
	case key.Matches(msg, m.keys.ToggleStatus):
		return m.cycleStatus()
	case key.Matches(msg, m.keys.ToggleListView):
		m.viewMode = nextViewMode(m.viewMode)
		m.rebuildPreserve()
	case key.Matches(msg, m.keys.ToggleSidebar):
		m.sidebar = !m.sidebar
		_, detailW, bodyH := m.layout()
		m.detail.Width = detailW
		m.detail.Height = bodyH
		m.syncDetail()
	case key.Matches(msg, m.keys.Notebooks):
		return m.openNotebooks(), nil
	case key.Matches(msg, m.keys.Settings):
		m.mode = modeSettings
		m.settings = settingsState{}
	case key.Matches(msg, m.keys.Help):
		return m.openHelp(), nil
	case key.Matches(msg, m.keys.MoveUp):
		return m.reorder(-1)
	case key.Matches(msg, m.keys.MoveDown):
		return m.reorder(1)
	}
	return m, nil
}

func nextViewMode(v string) string {
	switch v {
	case viewSimple:
		return viewTwoLine
	case viewTwoLine:
		return viewGrouped
	default:
		return viewSimple
	}
}

func (m Model) switchTab(dir int) Model {
	order := tabOrder()
	cur := 0
	for i, kind := range order {
		if kind == m.tab {
			cur = i
			break
		}
	}
	next := (cur + dir + len(order)) % len(order)
	return m.switchTo(order[next])
}

// switchTo activates a tab and resets the selection to the first item row.
func (m Model) switchTo(kind record.Kind) Model {
	if m.tab == kind {
		return m
	}
	m.tab = kind
	m.rows = filter.Build(m.recs[m.tab], m.notebooks, m.query())
	m.selected = filter.FirstItem(m.rows)
	m.syncDetail()
	return m
}

// cycleStatus advances the selected task open -> in progress -> done.
// Outside the task tab the key does nothing.
func (m Model) cycleStatus() (tea.Model, tea.Cmd) {
	if m.tab != record.KindTask {
		return m, nil
	}
	rec, ok := m.selectedRecord()
	if !ok {
		return m, nil
	}
	next := rec.Status.Next()
	if err := m.store.SetTaskStatus(rec.ID, next); err != nil {
		return m, m.setStatus("status change failed: %v", err)
	}
	if err := m.reloadKind(m.tab); err != nil {
		return m, m.setStatus("reload failed: %v", err)
	}
	m.rebuild()
	m.reselectID(rec.ID)
	return m, m.setStatus("%s: %s", displayTitle(rec), next.Display())
}

// reorder swaps the selected record with the adjacent item row. Disabled in
// grouped view, where display order does not map to one order key sequence.
func (m Model) reorder(dir int) (tea.Model, tea.Cmd) {
	if m.viewMode == viewGrouped {
		return m, m.setStatus("reorder is disabled in grouped view")
	}
	rec, ok := m.selectedRecord()
	if !ok {
		return m, nil
	}
	var adj int
	if dir < 0 {
		adj = filter.PrevItem(m.rows, m.selected)
	} else {
		adj = filter.NextItem(m.rows, m.selected)
	}
	if adj == m.selected || adj < 0 {
		return m, nil
	}
	idx, ok := m.rows[adj].RecordIndex()
	if !ok {
		return m, nil
	}
	other := m.recs[m.tab][idx]
	if err := m.store.SwapOrder(m.tab, rec.ID, other.ID); err != nil {
		return m, m.setStatus("reorder failed: %v", err)
	}
	if err := m.reloadKind(m.tab); err != nil {
		return m, m.setStatus("reload failed: %v", err)
	}
	m.rebuild()
	m.reselectID(rec.ID)
	return m, nil
}

// confirmState backs the archive/delete modal.
type confirmState struct {
	rec    record.Record
	choice int
}

const (
	choiceArchive = iota
	choiceDelete
	choiceCancel
	choiceCount
)

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.confirm = confirmState{}
		return m, nil
	case "left", "up", "h", "k", "shift+tab":
		m.confirm.choice = (m.confirm.choice + choiceCount - 1) % choiceCount
		return m, nil
	case "right", "down", "l", "j", "tab":
		m.confirm.choice = (m.confirm.choice + 1) % choiceCount
		return m, nil
	case "enter":
		return m.runConfirmChoice()
	}
	return m, nil
}

func (m Model) runConfirmChoice() (tea.Model, tea.Cmd) {
	rec := m.confirm.rec
	choice := m.confirm.choice
	m.mode = modeNormal
	m.confirm = confirmState{}

	switch choice {
	case choiceArchive:
		if err := m.store.SetArchived(rec.Kind, rec.ID, !rec.Archived); err != nil {
			return m, m.setStatus("archive failed: %v", err)
		}
		if err := m.reloadKind(m.tab); err != nil {
			return m, m.setStatus("reload failed: %v", err)
		}
		m.rebuild()
		m.reselectID(rec.ID)
		if rec.Archived {
			return m, m.setStatus("Unarchived %q", displayTitle(rec))
		}
		return m, m.setStatus("Archived %q", displayTitle(rec))
	case choiceDelete:
		if err := m.store.Delete(rec.Kind, rec.ID); err != nil {
			return m, m.setStatus("delete failed: %v", err)
		}
		if err := m.reloadKind(m.tab); err != nil {
			return m, m.setStatus("reload failed: %v", err)
		}
		m.rebuild()
		return m, m.setStatus("Deleted %q", displayTitle(rec))
	default:
		return m, nil
	}
}
