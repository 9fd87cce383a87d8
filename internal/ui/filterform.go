package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"jotter/internal/filter"
	"jotter/internal/record"
)

// filterFormState holds pending filter edits; nothing is installed until
// the user applies them.
type filterFormState struct {
	input   textinput.Model
	logic   record.Logic
	archive filter.Archive
	status  record.Status
	focus   int
}

const (
	filterFieldTags = iota
	filterFieldLogic
	filterFieldArchive
	filterFieldStatus
)

func (m Model) filterFieldCount() int {
	if m.tab == record.KindTask {
		return 4
	}
	return 3
}

func (m Model) openFilterForm() Model {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = "tags, comma separated (try [untagged])"
	input.CharLimit = 128
	input.Width = max(20, m.width-20)
	input.SetValue(record.JoinTags(m.installed.tags.Tags))
	input.Focus()

	m.filterForm = filterFormState{
		input:   input,
		logic:   m.installed.tags.Logic,
		archive: m.installed.archive,
		status:  m.installed.status,
	}
	m.mode = modeFilter
	return m
}

func (m Model) updateFilterForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.filterForm
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		return m, nil
	case "enter":
		return m.applyFilter(), nil
	case "ctrl+r":
		f.input.SetValue("")
		f.logic = record.LogicAll
		f.archive = filter.ArchiveActive
		f.status = filter.StatusAny
		return m, nil
	case "tab", "down":
		f.focus = (f.focus + 1) % m.filterFieldCount()
		m.syncFilterFocus()
		return m, nil
	case "shift+tab", "up":
		f.focus = (f.focus + m.filterFieldCount() - 1) % m.filterFieldCount()
		m.syncFilterFocus()
		return m, nil
	}

	if f.focus == filterFieldTags {
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "left", "h":
		m.cycleFilterField(f.focus, -1)
	case "right", "l", " ":
		m.cycleFilterField(f.focus, 1)
	}
	return m, nil
}

func (m *Model) syncFilterFocus() {
	if m.filterForm.focus == filterFieldTags {
		m.filterForm.input.Focus()
	} else {
		m.filterForm.input.Blur()
	}
}

func (m *Model) cycleFilterField(field, dir int) {
	f := &m.filterForm
	switch field {
	case filterFieldLogic:
		if f.logic == record.LogicAll {
			f.logic = record.LogicAny
		} else {
			f.logic = record.LogicAll
		}
	case filterFieldArchive:
		states := []filter.Archive{filter.ArchiveActive, filter.ArchiveOnly, filter.ArchiveAll}
		cur := 0
		for i, s := range states {
			if s == f.archive {
				cur = i
			}
		}
		f.archive = states[(cur+dir+len(states))%len(states)]
	case filterFieldStatus:
		states := []record.Status{filter.StatusAny, record.StatusOpen, record.StatusInProgress, record.StatusDone}
		cur := 0
		for i, s := range states {
			if s == f.status {
				cur = i
			}
		}
		f.status = states[(cur+dir+len(states))%len(states)]
	}
}

// applyFilter installs the pending edits and returns to normal mode.
func (m Model) applyFilter() Model {
	tags := record.ParseTags(m.filterForm.input.Value())
	m.installed = filterState{
		tags:    record.TagFilter{Tags: tags, Logic: m.filterForm.logic},
		archive: m.filterForm.archive,
		status:  m.filterForm.status,
	}
	m.mode = modeNormal
	m.rebuildPreserve()
	return m
}

// filterSummary describes the installed filter for the header line.
func (m Model) filterSummary() string {
	if !m.installed.active() {
		return ""
	}
	var parts []string
	if !m.installed.tags.IsZero() {
		parts = append(parts, "tags "+record.JoinTags(m.installed.tags.Tags)+" ("+m.installed.tags.Logic.String()+")")
	}
	if m.installed.archive != filter.ArchiveActive {
		parts = append(parts, "archive "+m.installed.archive.String())
	}
	if m.installed.status != filter.StatusAny {
		parts = append(parts, "status "+m.installed.status.Display())
	}
	return "filter: " + strings.Join(parts, " | ")
}
