// Package ui is the bubbletea controller for the jotter TUI: one model,
// one active input mode, per-mode update handlers.
package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"jotter/internal/config"
	"jotter/internal/filter"
	"jotter/internal/notify"
	"jotter/internal/record"
	"jotter/internal/storage"
)

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeFilter
	modeForm
	modeSettings
	modeHelp
	modeMarkdownHelp
	modeConfirmDelete
	modeNotebooks
)

const (
	statusDuration = 3 * time.Second
	minWidth       = 38
	minHeight      = 10
)

func tabOrder() []record.Kind {
	return []record.Kind{record.KindTask, record.KindNote, record.KindJournal}
}

// filterState is the installed filter: what the list pipeline applies until
// the user changes it.
type filterState struct {
	tags    record.TagFilter
	archive filter.Archive
	status  record.Status
}

func (f filterState) active() bool {
	return !f.tags.IsZero() || f.archive != filter.ArchiveActive || f.status != filter.StatusAny
}

type statusTickMsg struct{}
type dueCheckMsg time.Time

type Model struct {
	store *storage.Store
	cfg   config.Config
	keys  keyMap
	st    styleSet

	width  int
	height int

	mode mode
	tab  record.Kind

	recs      map[record.Kind][]record.Record
	notebooks []record.Notebook
	rows      []filter.Row
	selected  int

	viewMode  string
	themeName string
	sidebar   bool
	sidebarW  int
	notifyOn  bool

	searchInput textinput.Model
	installed   filterState
	filterForm  filterFormState

	form     *formState
	confirm  confirmState
	settings settingsState
	books    notebookState

	detail viewport.Model
	helpVP viewport.Model

	status   string
	statusAt time.Time

	tracker *notify.Tracker
}

// NewModel loads all records and builds the initial normal-mode model.
func NewModel(store *storage.Store, cfg config.Config) (Model, error) {
	searchInput := textinput.New()
	searchInput.Prompt = "/"
	searchInput.Placeholder = "type to search"
	searchInput.CharLimit = 128
	searchInput.Width = 40

	m := Model{
		store:       store,
		cfg:         cfg,
		keys:        newKeyMap(cfg.Keys),
		st:          newStyles(cfg.ActiveTheme()),
		mode:        modeNormal,
		tab:         record.KindTask,
		recs:        make(map[record.Kind][]record.Record),
		selected:    -1,
		viewMode:    cfg.ListViewMode,
		themeName:   cfg.Theme,
		sidebar:     true,
		sidebarW:    cfg.SidebarWidth,
		notifyOn:    cfg.Notifications,
		searchInput: searchInput,
		installed:   filterState{archive: filter.ArchiveActive},
		detail:      viewport.New(0, 0),
		helpVP:      viewport.New(0, 0),
		tracker:     notify.NewTracker(),
	}
	m.books.entry = textinput.New()
	m.books.entry.Placeholder = "notebook name"
	m.books.entry.CharLimit = 64

	if err := m.reloadAll(); err != nil {
		return Model{}, err
	}
	m.rebuild()
	m.selected = filter.FirstItem(m.rows)
	m.syncDetail()
	return m, nil
}

func Run(store *storage.Store, cfg config.Config) error {
	m, err := NewModel(store, cfg)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	if !m.notifyOn {
		return nil
	}
	return func() tea.Msg { return dueCheckMsg(time.Now()) }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case statusTickMsg:
		if m.status == "" {
			return m, nil
		}
		if time.Since(m.statusAt) >= statusDuration {
			m.status = ""
			return m, nil
		}
		return m, statusTick()
	case dueCheckMsg:
		return m.handleDueCheck(time.Time(msg))
	case tea.KeyMsg:
		if m.tooSmall() {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		}
		switch m.mode {
		case modeNormal:
			return m.updateNormal(msg)
		case modeSearch:
			return m.updateSearch(msg)
		case modeFilter:
			return m.updateFilterForm(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeSettings:
			return m.updateSettings(msg)
		case modeHelp:
			return m.updateHelp(msg)
		case modeMarkdownHelp:
			return m.updateMarkdownHelp(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		case modeNotebooks:
			return m.updateNotebooks(msg)
		}
	}
	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.searchInput.Width = max(10, msg.Width-20)
	_, detailW, bodyH := m.layout()
	m.detail.Width = detailW
	m.detail.Height = bodyH
	m.helpVP.Width = max(10, msg.Width-4)
	m.helpVP.Height = max(1, msg.Height-4)
	if m.form != nil {
		m.form.resize(msg.Width)
	}
	m.syncDetail()
	return m, nil
}

func (m Model) tooSmall() bool {
	return m.width > 0 && (m.width < minWidth || m.height < minHeight)
}

// layout returns the inner widths of the list and detail panes and the
// shared pane height.
func (m Model) layout() (listW, detailW, bodyH int) {
	bodyH = max(1, m.height-5)
	if !m.sidebar {
		return 0, max(10, m.width-4), bodyH
	}
	listW = min(m.sidebarW, m.width/2)
	listW = max(listW, 16)
	detailW = max(10, m.width-listW-8)
	return listW, detailW, bodyH
}

func (m Model) handleDueCheck(now time.Time) (tea.Model, tea.Cmd) {
	if !m.notifyOn {
		return m, nil
	}
	cmds := []tea.Cmd{checkDueCmd()}
	for _, rec := range m.tracker.Due(m.recs[record.KindTask], now) {
		title := rec.Title
		cmds = append(cmds, func() tea.Msg {
			// Reminders are best effort; failures stay invisible.
			_ = notify.Send(notify.AppName, "Due: "+title)
			return nil
		})
	}
	return m, tea.Batch(cmds...)
}

func checkDueCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return dueCheckMsg(t)
	})
}

func statusTick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg {
		return statusTickMsg{}
	})
}

func (m *Model) setStatus(format string, args ...any) tea.Cmd {
	m.status = fmt.Sprintf(format, args...)
	m.statusAt = time.Now()
	return statusTick()
}

func (m *Model) reloadAll() error {
	for _, kind := range tabOrder() {
		if err := m.reloadKind(kind); err != nil {
			return err
		}
	}
	return m.reloadNotebooks()
}

func (m *Model) reloadKind(kind record.Kind) error {
	recs, err := m.store.List(kind)
	if err != nil {
		return err
	}
	m.recs[kind] = recs
	return nil
}

func (m *Model) reloadNotebooks() error {
	books, err := m.store.ListNotebooks()
	if err != nil {
		return err
	}
	m.notebooks = books
	return nil
}

func (m Model) query() filter.Query {
	q := filter.Query{
		Tags:            m.installed.tags,
		Archive:         m.installed.archive,
		GroupByNotebook: m.viewMode == viewGrouped,
	}
	if m.tab == record.KindTask {
		q.Status = m.installed.status
	}
	if m.mode == modeSearch {
		q.Search = m.searchInput.Value()
	}
	return q
}

// rebuild recomputes the display rows and clamps the selection to the
// nearest item row.
func (m *Model) rebuild() {
	m.rows = filter.Build(m.recs[m.tab], m.notebooks, m.query())
	m.selected = filter.ClampSelection(m.rows, m.selected)
	m.syncDetail()
}

// rebuildPreserve recomputes the rows and keeps the selection on the same
// record when it is still visible, falling back to the nearest row.
func (m *Model) rebuildPreserve() {
	recIdx := -1
	if m.selected >= 0 && m.selected < len(m.rows) {
		if idx, ok := m.rows[m.selected].RecordIndex(); ok {
			recIdx = idx
		}
	}
	m.rows = filter.Build(m.recs[m.tab], m.notebooks, m.query())
	if recIdx >= 0 {
		if at := filter.FindRecord(m.rows, recIdx); at >= 0 {
			m.selected = at
			m.syncDetail()
			return
		}
	}
	m.selected = filter.ClampSelection(m.rows, m.selected)
	m.syncDetail()
}

// reselectID re-locates a record by ID after a reload shifted the indices.
func (m *Model) reselectID(id int64) {
	for i, rec := range m.recs[m.tab] {
		if rec.ID == id {
			if at := filter.FindRecord(m.rows, i); at >= 0 {
				m.selected = at
				m.syncDetail()
				return
			}
			break
		}
	}
	m.selected = filter.ClampSelection(m.rows, m.selected)
	m.syncDetail()
}

func (m Model) selectedRecord() (record.Record, bool) {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return record.Record{}, false
	}
	idx, ok := m.rows[m.selected].RecordIndex()
	if !ok {
		return record.Record{}, false
	}
	recs := m.recs[m.tab]
	if idx < 0 || idx >= len(recs) {
		return record.Record{}, false
	}
	return recs[idx], true
}
