package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// settingsState tracks the highlighted row in the settings panel. Changes
// apply to the running session only; the config file is never rewritten.
type settingsState struct {
	cursor int
}

const (
	settingListView = iota
	settingTheme
	settingSidebar
	settingNotify
	settingCount
)

var sidebarWidths = []int{24, 30, 36, 42}

func (m Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q":
		m.mode = modeNormal
		return m, nil
	case "up", "k", "shift+tab":
		m.settings.cursor = (m.settings.cursor + settingCount - 1) % settingCount
		return m, nil
	case "down", "j", "tab":
		m.settings.cursor = (m.settings.cursor + 1) % settingCount
		return m, nil
	case "left", "h":
		return m.cycleSetting(-1)
	case "right", "l", " ":
		return m.cycleSetting(1)
	}
	return m, nil
}

func (m Model) cycleSetting(dir int) (tea.Model, tea.Cmd) {
	switch m.settings.cursor {
	case settingListView:
		modes := []string{viewSimple, viewTwoLine, viewGrouped}
		cur := 0
		for i, v := range modes {
			if v == m.viewMode {
				cur = i
			}
		}
		m.viewMode = modes[(cur+dir+len(modes))%len(modes)]
		m.rebuildPreserve()
	case settingTheme:
		names := m.cfg.ThemeNames()
		cur := 0
		for i, n := range names {
			if n == m.themeName {
				cur = i
			}
		}
		m.themeName = names[(cur+dir+len(names))%len(names)]
		cfg := m.cfg
		cfg.Theme = m.themeName
		m.st = newStyles(cfg.ActiveTheme())
	case settingSidebar:
		cur := 0
		for i, w := range sidebarWidths {
			if w == m.sidebarW {
				cur = i
			}
		}
		m.sidebarW = sidebarWidths[(cur+dir+len(sidebarWidths))%len(sidebarWidths)]
		_, detailW, bodyH := m.layout()
		m.detail.Width = detailW
		m.detail.Height = bodyH
		m.syncDetail()
	case settingNotify:
		m.notifyOn = !m.notifyOn
		if m.notifyOn {
			// Kick the reminder loop; it stops itself when disabled.
			return m, func() tea.Msg { return dueCheckMsg(time.Now()) }
		}
	}
	return m, nil
}
