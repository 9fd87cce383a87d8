package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// renderMarkdown renders src for the terminal. On any renderer error the
// raw markdown is shown instead so the content is never lost.
func renderMarkdown(src string, width int) string {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return src
	}
	out, err := r.Render(src)
	if err != nil {
		return src
	}
	return strings.TrimRight(out, "\n")
}

const markdownGuide = `# Markdown Guide

Bodies are stored as plain text and rendered as markdown in the
detail pane. The basics:

## Headings

    # Heading 1
    ## Heading 2
    ### Heading 3

## Emphasis

    *italic*   **bold**   ~~strikethrough~~   ` + "`code`" + `

## Lists

    - unordered item
    - another item

    1. ordered item
    2. another item

    - [ ] open checkbox
    - [x] done checkbox

## Links and images

    [link text](https://example.com)
    ![alt text](https://example.com/image.png)

## Code blocks

Indent with four spaces or fence with backticks:

` + "```go\nfunc main() {}\n```" + `

## Quotes and rules

    > quoted text

    ---
`

func (m Model) openHelp() Model {
	m.helpVP.SetContent(m.helpContent())
	m.helpVP.GotoTop()
	m.mode = modeHelp
	return m
}

func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "f1":
		m.mode = modeNormal
		return m, nil
	}
	var cmd tea.Cmd
	m.helpVP, cmd = m.helpVP.Update(msg)
	return m, cmd
}

func (m Model) openMarkdownHelp() Model {
	m.helpVP.SetContent(renderMarkdown(markdownGuide, m.helpVP.Width))
	m.helpVP.GotoTop()
	m.mode = modeMarkdownHelp
	return m
}

func (m Model) updateMarkdownHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "f1":
		m.mode = modeForm
		return m, nil
	}
	var cmd tea.Cmd
	m.helpVP, cmd = m.helpVP.Update(msg)
	return m, cmd
}

// helpContent lists every binding with its configured key, grouped the
// way the app is used: list first, then the editor.
func (m Model) helpContent() string {
	var b strings.Builder
	section := func(title string, binds ...key.Binding) {
		b.WriteString(m.st.heading.Render(title))
		b.WriteString("\n")
		for _, bind := range binds {
			h := bind.Help()
			fmt.Fprintf(&b, "  %-14s %s\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}
	k := m.keys
	section("Lists",
		k.Up, k.Down, k.TabLeft, k.TabRight, k.Tab1, k.Tab2, k.Tab3,
		k.New, k.Edit, k.Select, k.ToggleStatus, k.MoveUp, k.MoveDown,
		k.Delete, k.Search, k.Filter, k.ToggleListView, k.ToggleSidebar,
		k.Notebooks, k.Settings, k.Quit)
	section("Editor",
		k.Save, k.Undo, k.Redo, k.WordLeft, k.WordRight,
		key.NewBinding(key.WithKeys("shift+arrows"), key.WithHelp("shift+arrows", "extend selection")),
		key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "select all")),
		key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "copy")),
		key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "cut")),
		key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "paste")),
		key.NewBinding(key.WithKeys(k.Help.Help().Key), key.WithHelp(k.Help.Help().Key, "markdown guide")))
	section("Anywhere",
		k.Help,
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back / discard")))
	return strings.TrimRight(b.String(), "\n")
}
