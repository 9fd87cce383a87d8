package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"jotter/internal/filter"
	"jotter/internal/record"
)

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.tooSmall() {
		notice := fmt.Sprintf("Terminal too small\nneed at least %dx%d", minWidth, minHeight)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, notice)
	}
	switch m.mode {
	case modeForm:
		return m.viewForm()
	case modeHelp, modeMarkdownHelp:
		return m.viewHelp()
	case modeSettings:
		return m.viewSettings()
	case modeNotebooks:
		return m.viewNotebooks()
	case modeFilter:
		return m.viewFilterForm()
	}
	return m.viewMain()
}

// viewMain renders the tab bar, context line, list and detail panes, and
// the status bar. Search and delete confirmation draw into this layout.
func (m Model) viewMain() string {
	listW, detailW, bodyH := m.layout()

	context := ""
	if m.mode == modeSearch {
		context = clamp(m.searchInput.View(), m.width)
	} else if s := m.filterSummary(); s != "" {
		context = m.st.dim.Render(truncate(s, m.width))
	}

	var body string
	if m.mode == modeConfirmDelete {
		body = lipgloss.Place(m.width, bodyH+2, lipgloss.Center, lipgloss.Center, m.viewConfirm())
	} else {
		// Width includes the horizontal padding, so inner+2 keeps the
		// pane content at the size the viewport was given.
		detail := m.st.pane.Width(detailW + 2).Height(bodyH).Render(m.detail.View())
		if m.sidebar {
			list := m.st.pane.Width(listW + 2).Height(bodyH).Render(m.viewList(listW, bodyH))
			body = lipgloss.JoinHorizontal(lipgloss.Top, list, detail)
		} else {
			body = detail
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewTabBar(),
		context,
		body,
		m.viewStatusBar(),
	)
}

func (m Model) viewTabBar() string {
	names := map[record.Kind]string{
		record.KindTask:    "Tasks",
		record.KindNote:    "Notes",
		record.KindJournal: "Journal",
	}
	var tabs []string
	for i, kind := range tabOrder() {
		label := fmt.Sprintf("%d %s", i+1, names[kind])
		if kind == m.tab {
			tabs = append(tabs, m.st.tabActive.Render(label))
		} else {
			tabs = append(tabs, m.st.tabInactive.Render(label))
		}
	}
	return clamp(strings.Join(tabs, " "), m.width)
}

// viewList renders the visible window of display rows. Row height depends
// on the view mode: two_line items take two rows, everything else one.
func (m Model) viewList(w, h int) string {
	if len(m.rows) == 0 {
		return m.st.dim.Render(m.emptyText())
	}

	lineH := 1
	if m.viewMode == viewTwoLine {
		lineH = 2
	}
	visible := max(1, h/lineH)
	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}
	if start > len(m.rows)-visible {
		start = max(0, len(m.rows)-visible)
	}
	end := min(len(m.rows), start+visible)

	var b strings.Builder
	for i := start; i < end; i++ {
		if i > start {
			b.WriteString("\n")
		}
		b.WriteString(m.renderRow(i, w))
	}
	return b.String()
}

func (m Model) emptyText() string {
	if m.mode == modeSearch || m.installed.active() {
		return "No matches"
	}
	return fmt.Sprintf("Nothing here yet. Press %s to add.", m.keys.New.Help().Key)
}

func (m Model) renderRow(i, w int) string {
	row := m.rows[i]
	if row.IsHeading() {
		return m.st.heading.Render(truncate(row.Label(), w))
	}
	idx, _ := row.RecordIndex()
	rec := m.recs[m.tab][idx]

	prefix := "  "
	if i == m.selected {
		prefix = "> "
	}
	indent := ""
	if m.viewMode == viewGrouped {
		indent = "  "
	}

	line := prefix + indent + m.rowTitle(rec)
	line = truncate(line, w)
	line = m.rowStyle(rec, i == m.selected).Render(line)

	if m.viewMode == viewTwoLine {
		meta := truncate("    "+m.rowMeta(rec), w)
		line += "\n" + m.st.dim.Render(meta)
	}
	return line
}

func (m Model) rowTitle(rec record.Record) string {
	switch rec.Kind {
	case record.KindTask:
		box := "[ ]"
		switch rec.Status {
		case record.StatusInProgress:
			box = "[~]"
		case record.StatusDone:
			box = "[x]"
		}
		return box + " " + rec.Title
	case record.KindJournal:
		return rec.Date.Format(record.DateLayout) + "  " + rec.Title
	}
	return rec.Title
}

func (m Model) rowStyle(rec record.Record, selected bool) lipgloss.Style {
	switch {
	case selected:
		return m.st.selected
	case rec.Archived:
		return m.st.dim
	case rec.Kind == record.KindTask && rec.Status == record.StatusDone:
		return m.st.done
	}
	return m.st.item
}

func (m Model) rowMeta(rec record.Record) string {
	parts := make([]string, 0, 4)
	if len(rec.Tags) > 0 {
		parts = append(parts, record.FormatTags(rec.Tags))
	}
	if rec.Kind == record.KindTask && rec.Due != nil {
		parts = append(parts, "due "+rec.Due.Format(record.DateLayout))
	}
	if name := m.notebookName(rec.NotebookID); name != "" {
		parts = append(parts, name)
	}
	if rec.Archived {
		parts = append(parts, "archived")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " · ")
}

// displayTitle names a record in modals and status messages. Journals may
// have no title, so their date stands in.
func displayTitle(rec record.Record) string {
	if rec.Title != "" {
		return rec.Title
	}
	if rec.Kind == record.KindJournal {
		return rec.Date.Format(record.DateLayout)
	}
	return "(untitled)"
}

func (m Model) notebookName(id *int64) string {
	if id == nil {
		return ""
	}
	for _, nb := range m.notebooks {
		if nb.ID == *id {
			return nb.Name
		}
	}
	return ""
}

// syncDetail rebuilds the detail viewport for the selected record. The
// body is rendered as markdown sized to the pane.
func (m *Model) syncDetail() {
	rec, ok := m.selectedRecord()
	if !ok {
		m.detail.SetContent(m.st.dim.Render("Nothing selected"))
		m.detail.GotoTop()
		return
	}
	w := max(10, m.detail.Width)

	var b strings.Builder
	b.WriteString(m.st.paneTitle.Render(truncate(displayTitle(rec), w)))
	b.WriteString("\n")

	meta := func(label, value string) {
		b.WriteString(m.st.label.Render(label + ": "))
		b.WriteString(truncate(value, max(1, w-len(label)-2)))
		b.WriteString("\n")
	}
	switch rec.Kind {
	case record.KindTask:
		meta("status", rec.Status.Display())
		if rec.Due != nil {
			meta("due", rec.Due.Format(record.DateLayout))
		}
	case record.KindJournal:
		meta("date", rec.Date.Format(record.DateLayout))
	}
	if len(rec.Tags) > 0 {
		meta("tags", record.FormatTags(rec.Tags))
	}
	if name := m.notebookName(rec.NotebookID); name != "" {
		meta("notebook", name)
	}
	if rec.Archived {
		meta("archived", "yes")
	}
	meta("updated", rec.Updated.Local().Format("2006-01-02 15:04"))

	b.WriteString(m.st.dim.Render(strings.Repeat("─", w)))
	b.WriteString("\n")
	if strings.TrimSpace(rec.Body) == "" {
		b.WriteString(m.st.dim.Render("(no body)"))
	} else {
		b.WriteString(renderMarkdown(rec.Body, w))
	}
	m.detail.SetContent(b.String())
	m.detail.GotoTop()
}

func (m Model) viewConfirm() string {
	rec := m.confirm.rec
	first := "Archive"
	if rec.Archived {
		first = "Unarchive"
	}
	choices := []string{first, "Delete", "Cancel"}
	var rendered []string
	for i, c := range choices {
		label := " " + c + " "
		if i == m.confirm.choice {
			rendered = append(rendered, m.st.selected.Render(label))
		} else {
			rendered = append(rendered, m.st.dim.Render(label))
		}
	}
	body := fmt.Sprintf("%s\n\n%s\n\n%s",
		truncate(fmt.Sprintf("What should happen to %q?", displayTitle(rec)), max(20, m.width-12)),
		strings.Join(rendered, "  "),
		m.st.hint.Render("enter: confirm • esc: cancel"))
	return m.st.modal.Render(body)
}

func (m Model) viewStatusBar() string {
	if m.status != "" {
		return m.st.statusBar.Render(truncate(m.status, m.width))
	}
	if m.mode == modeSearch {
		return m.st.hint.Render(truncate("type to filter • enter keep • esc clear", m.width))
	}
	k := m.keys
	hints := []key.Binding{k.New, k.Edit}
	if m.tab == record.KindTask {
		hints = append(hints, k.ToggleStatus)
	}
	hints = append(hints, k.Search, k.Filter, k.Notebooks, k.Help, k.Quit)
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, h.Help().Key+" "+h.Help().Desc)
	}
	return m.st.hint.Render(truncate(strings.Join(parts, " • "), m.width))
}

func (m Model) viewForm() string {
	f := m.form
	if f == nil {
		return ""
	}
	verb := "New"
	if f.editing {
		verb = "Edit"
	}

	var b strings.Builder
	b.WriteString(m.st.heading.Render(fmt.Sprintf("%s %s", verb, f.kind)))
	b.WriteString("\n\n")

	field := func(idx int, label, view string) {
		marker := "  "
		if f.focus == idx {
			marker = m.st.accent.Render("> ")
		}
		b.WriteString(marker + m.st.label.Render(label) + " " + view)
		b.WriteString("\n")
	}
	field(fieldTitle, "Title   ", f.title.View())
	field(fieldTags, "Tags    ", f.tags.View())
	if f.hasDate() {
		label := "Due     "
		if f.kind == record.KindJournal {
			label = "Date    "
		}
		field(fieldDate, label, f.date.View())
	}
	field(fieldNotebook, "Notebook", m.notebookChoice())

	b.WriteString("\n")
	bodyMarker := "  "
	if f.focus == fieldBody {
		bodyMarker = m.st.accent.Render("> ")
	}
	line, col := f.body.CursorLineCol()
	b.WriteString(bodyMarker + m.st.label.Render("Body") + m.st.dim.Render(fmt.Sprintf("  %d:%d", line+1, col+1)))
	b.WriteString("\n")

	head := b.String()
	hint := m.formHint()
	errLine := ""
	if f.errText != "" {
		errLine = m.st.errText.Render(truncate(f.errText, m.width-2)) + "\n"
	}

	used := lipgloss.Height(head) + lipgloss.Height(hint) + 1
	if errLine != "" {
		used++
	}
	bodyH := max(3, m.height-used)
	body := m.renderEditor(f, max(20, m.width-6), bodyH, f.focus == fieldBody)

	return head + body + "\n" + errLine + hint
}

// notebookChoice renders the notebook picker line of the form: "(none)"
// plus each notebook, cycled with left/right.
func (m Model) notebookChoice() string {
	f := m.form
	name := "(none)"
	if f.notebook > 0 && f.notebook <= len(m.notebooks) {
		name = m.notebooks[f.notebook-1].Name
	}
	if f.focus == fieldNotebook {
		return m.st.accent.Render("◂ ") + name + m.st.accent.Render(" ▸")
	}
	return name
}

func (m Model) formHint() string {
	f := m.form
	save := m.keys.Save.Help().Key
	if f.focus == fieldBody {
		undo := m.keys.Undo.Help().Key
		redo := m.keys.Redo.Help().Key
		guide := m.keys.Help.Help().Key
		return m.st.hint.Render(truncate(fmt.Sprintf(
			"%s save • esc discard • tab next field • %s undo • %s redo • shift+arrows select • %s markdown", save, undo, redo, guide), m.width))
	}
	return m.st.hint.Render(truncate(save+" save • esc discard • tab next field • enter next field", m.width))
}

// renderEditor draws the body editor with cursor and selection. Lines
// scroll vertically around the cursor; the cursor line also scrolls
// horizontally when the cursor runs past the width.
func (m Model) renderEditor(f *formState, w, h int, focused bool) string {
	lines := f.body.Lines()
	cur := f.body.Cursor()
	curLine, curCol := f.body.CursorLineCol()
	selStart, selEnd := -1, -1
	if s, e, ok := f.body.Selection(); ok {
		selStart, selEnd = s, e
	}

	top := 0
	if curLine >= h {
		top = curLine - h + 1
	}
	if top > len(lines)-h {
		top = max(0, len(lines)-h)
	}

	offset := 0
	for i := 0; i < top; i++ {
		offset += len([]rune(lines[i])) + 1
	}

	var b strings.Builder
	for i := top; i < min(len(lines), top+h); i++ {
		runes := []rune(lines[i])
		shift := 0
		if focused && i == curLine && curCol >= w {
			shift = curCol - w + 1
		}
		windowed := runes[min(shift, len(runes)):]
		if len(windowed) > w {
			windowed = windowed[:w]
		}
		b.WriteString(m.renderEditorLine(windowed, offset+shift, selStart, selEnd, cur, focused))
		b.WriteString("\n")
		offset += len(runes) + 1
	}
	for i := len(lines); i < top+h; i++ {
		b.WriteString(m.st.dim.Render("~"))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderEditorLine styles one windowed line as runs of plain, selected,
// and cursor cells. A virtual cell past the end carries the cursor or a
// selected newline.
func (m Model) renderEditorLine(runes []rune, lineStart, selStart, selEnd, cur int, focused bool) string {
	const (
		runPlain = iota
		runSel
		runCursor
	)
	var b strings.Builder
	var run strings.Builder
	runKind := runPlain

	flush := func() {
		if run.Len() == 0 {
			return
		}
		switch runKind {
		case runSel:
			b.WriteString(m.st.selText.Render(run.String()))
		case runCursor:
			b.WriteString(m.st.cursor.Render(run.String()))
		default:
			b.WriteString(run.String())
		}
		run.Reset()
	}

	for i := 0; i <= len(runes); i++ {
		off := lineStart + i
		kind := runPlain
		switch {
		case focused && off == cur:
			kind = runCursor
		case selStart >= 0 && off >= selStart && off < selEnd:
			kind = runSel
		}
		if i == len(runes) {
			// Virtual end-of-line cell: only drawn for the cursor or a
			// selection that crosses the newline.
			if kind == runPlain {
				break
			}
			flush()
			runKind = kind
			run.WriteString(" ")
			break
		}
		if kind != runKind {
			flush()
			runKind = kind
		}
		run.WriteRune(runes[i])
	}
	flush()
	return b.String()
}

func (m Model) viewSettings() string {
	rows := []struct {
		label string
		value string
	}{
		{"List view", m.viewMode},
		{"Theme", m.themeName},
		{"Sidebar width", fmt.Sprintf("%d", m.sidebarW)},
		{"Notifications", onOff(m.notifyOn)},
	}
	var b strings.Builder
	b.WriteString(m.st.heading.Render("Settings"))
	b.WriteString("\n")
	b.WriteString(m.st.dim.Render("changes apply to this session only"))
	b.WriteString("\n\n")
	for i, r := range rows {
		line := fmt.Sprintf("%-15s ◂ %s ▸", r.label, r.value)
		if i == m.settings.cursor {
			b.WriteString(m.st.selected.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.st.hint.Render("j/k move • h/l change • esc close"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.st.modal.Render(b.String()))
}

func (m Model) viewNotebooks() string {
	var b strings.Builder
	b.WriteString(m.st.heading.Render("Notebooks"))
	b.WriteString("\n")
	if rec, ok := m.selectedRecord(); ok {
		b.WriteString(m.st.dim.Render(truncate("filing: "+displayTitle(rec), max(20, m.width/2))))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.books.stage {
	case bookName, bookRename:
		label := "New notebook:"
		if m.books.stage == bookRename {
			label = "Rename to:"
		}
		b.WriteString(m.st.label.Render(label) + "\n")
		b.WriteString(m.books.entry.View() + "\n")
		if m.books.errText != "" {
			b.WriteString(m.st.errText.Render(m.books.errText) + "\n")
		}
		b.WriteString("\n")
		b.WriteString(m.st.hint.Render("enter save • esc cancel"))
	case bookConfirm:
		nb := m.notebooks[m.books.cursor]
		b.WriteString(fmt.Sprintf("Delete notebook %q?\n", nb.Name))
		b.WriteString(m.st.dim.Render("its records move to "+filter.UnfiledLabel) + "\n\n")
		b.WriteString(m.st.hint.Render("y delete • n keep"))
	default:
		if len(m.notebooks) == 0 {
			b.WriteString(m.st.dim.Render("No notebooks yet") + "\n")
		}
		for i, nb := range m.notebooks {
			line := fmt.Sprintf("%s (%d)", nb.Name, m.notebookCount(nb.ID))
			if i == m.books.cursor {
				b.WriteString(m.st.selected.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(m.st.hint.Render("enter file here • u unfile • n new • r rename • d delete • esc close"))
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.st.modal.Render(b.String()))
}

func (m Model) notebookCount(id int64) int {
	n := 0
	for _, kind := range tabOrder() {
		for _, rec := range m.recs[kind] {
			if rec.NotebookID != nil && *rec.NotebookID == id {
				n++
			}
		}
	}
	return n
}

func (m Model) viewFilterForm() string {
	f := m.filterForm
	var b strings.Builder
	b.WriteString(m.st.heading.Render("Filter"))
	b.WriteString("\n\n")

	row := func(idx int, label, value string) {
		marker := "  "
		if f.focus == idx {
			marker = m.st.accent.Render("> ")
		}
		b.WriteString(marker + m.st.label.Render(label) + " " + value + "\n")
	}
	row(filterFieldTags, "Tags   ", f.input.View())
	row(filterFieldLogic, "Match  ", "◂ "+f.logic.String()+" ▸")
	row(filterFieldArchive, "Archive", "◂ "+f.archive.String()+" ▸")
	if m.tab == record.KindTask {
		status := "any"
		if f.status != filter.StatusAny {
			status = f.status.Display()
		}
		row(filterFieldStatus, "Status ", "◂ "+status+" ▸")
	}
	b.WriteString("\n")
	b.WriteString(m.st.hint.Render("enter apply • esc cancel • ctrl+r reset • tab next"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.st.modal.Render(b.String()))
}

func (m Model) viewHelp() string {
	title := "Help"
	if m.mode == modeMarkdownHelp {
		title = "Markdown"
	}
	head := m.st.heading.Render(title) + "\n"
	foot := "\n" + m.st.hint.Render("esc close • j/k scroll")
	return head + m.helpVP.View() + foot
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// truncate cuts a plain string to width columns, accounting for
// double-width runes. Styled strings go through clamp instead, which
// keeps escape sequences intact.
func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	return runewidth.Truncate(s, w, "…")
}

func clamp(s string, w int) string {
	if w <= 0 {
		return ""
	}
	return lipgloss.NewStyle().MaxWidth(w).Render(s)
}
