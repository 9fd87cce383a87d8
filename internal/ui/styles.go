package ui

import (
	"github.com/charmbracelet/lipgloss"

	"jotter/internal/config"
)

// styleSet holds the lipgloss styles derived from the active theme. It is
// rebuilt when the theme changes in settings.
type styleSet struct {
	app         lipgloss.Style
	tabActive   lipgloss.Style
	tabInactive lipgloss.Style
	heading     lipgloss.Style
	item        lipgloss.Style
	selected    lipgloss.Style
	done        lipgloss.Style
	dim         lipgloss.Style
	accent      lipgloss.Style
	label       lipgloss.Style
	errText     lipgloss.Style
	statusBar   lipgloss.Style
	hint        lipgloss.Style
	pane        lipgloss.Style
	paneTitle   lipgloss.Style
	modal       lipgloss.Style
	cursor      lipgloss.Style
	selText     lipgloss.Style
}

func newStyles(t config.Theme) styleSet {
	fg := lipgloss.Color(t.Fg)
	highlightFg := lipgloss.Color(t.HighlightFg)
	highlightBg := lipgloss.Color(t.HighlightBg)
	tabBg := lipgloss.Color(t.TabBg)
	accent := lipgloss.Color(t.Accent)

	app := lipgloss.NewStyle().Foreground(fg)
	if t.Bg != "" {
		app = app.Background(lipgloss.Color(t.Bg))
	}

	return styleSet{
		app:         app,
		tabActive:   lipgloss.NewStyle().Bold(true).Foreground(highlightFg).Background(highlightBg).Padding(0, 1),
		tabInactive: lipgloss.NewStyle().Foreground(fg).Background(tabBg).Padding(0, 1),
		heading:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		item:        lipgloss.NewStyle().Foreground(fg),
		selected:    lipgloss.NewStyle().Foreground(highlightFg).Background(highlightBg),
		done:        lipgloss.NewStyle().Foreground(tabBg).Strikethrough(true),
		dim:         lipgloss.NewStyle().Foreground(tabBg),
		accent:      lipgloss.NewStyle().Foreground(accent),
		label:       lipgloss.NewStyle().Bold(true).Foreground(accent),
		errText:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		statusBar:   lipgloss.NewStyle().Foreground(fg),
		hint:        lipgloss.NewStyle().Foreground(tabBg),
		pane:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(tabBg).Padding(0, 1),
		paneTitle:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		modal:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(1, 2),
		cursor:      lipgloss.NewStyle().Reverse(true),
		selText:     lipgloss.NewStyle().Foreground(highlightFg).Background(highlightBg),
	}
}
