package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"jotter/internal/filter"
)

// updateSearch drives the live search: every keystroke reruns the filter
// pipeline against the current query.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		return m.exitSearch(), nil
	case "up":
		m.selected = filter.PrevItem(m.rows, m.selected)
		m.syncDetail()
		return m, nil
	case "down":
		m.selected = filter.NextItem(m.rows, m.selected)
		m.syncDetail()
		return m, nil
	default:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		m.rebuildPreserve()
		return m, cmd
	}
}

// exitSearch clears the query and restores the selection to the same record
// in the unfiltered rows.
func (m Model) exitSearch() Model {
	recIdx := -1
	if m.selected >= 0 && m.selected < len(m.rows) {
		if idx, ok := m.rows[m.selected].RecordIndex(); ok {
			recIdx = idx
		}
	}
	m.mode = modeNormal
	m.searchInput.Blur()
	m.searchInput.SetValue("")
	m.rows = filter.Build(m.recs[m.tab], m.notebooks, m.query())
	if recIdx >= 0 {
		if at := filter.FindRecord(m.rows, recIdx); at >= 0 {
			m.selected = at
			m.syncDetail()
			return m
		}
	}
	m.selected = filter.ClampSelection(m.rows, m.selected)
	m.syncDetail()
	return m
}
