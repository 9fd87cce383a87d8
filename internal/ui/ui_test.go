package ui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"jotter/internal/config"
	"jotter/internal/filter"
	"jotter/internal/record"
	"jotter/internal/storage"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.Open(filepath.Join(dir, "jotter.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cfg, err := config.LoadOrCreate(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)

	m, err := NewModel(store, cfg)
	require.NoError(t, err)
	return resize(t, m, 100, 30)
}

func resize(t *testing.T, m Model, w, h int) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return next.(Model)
}

func keyFor(s string) tea.KeyMsg {
	types := map[string]tea.KeyType{
		"enter":     tea.KeyEnter,
		"esc":       tea.KeyEsc,
		"tab":       tea.KeyTab,
		"shift+tab": tea.KeyShiftTab,
		"up":        tea.KeyUp,
		"down":      tea.KeyDown,
		"left":      tea.KeyLeft,
		"right":     tea.KeyRight,
		"backspace": tea.KeyBackspace,
		"ctrl+s":    tea.KeyCtrlS,
		"ctrl+z":    tea.KeyCtrlZ,
		"ctrl+y":    tea.KeyCtrlY,
		"ctrl+n":    tea.KeyCtrlN,
		"ctrl+c":    tea.KeyCtrlC,
		"ctrl+up":   tea.KeyCtrlUp,
		"ctrl+down": tea.KeyCtrlDown,
	}
	if typ, ok := types[s]; ok {
		return tea.KeyMsg{Type: typ}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyFor(k))
		m = next.(Model)
	}
	return m
}

// seed creates a record directly in the store and reloads the model, so
// tests start from a known list without driving the form.
func seed(t *testing.T, m Model, rec record.Record) (Model, record.Record) {
	t.Helper()
	require.NoError(t, m.store.Create(&rec))
	require.NoError(t, m.reloadAll())
	m.rebuild()
	if m.selected < 0 {
		m.selected = filter.FirstItem(m.rows)
		m.syncDetail()
	}
	return m, rec
}

func seedTask(t *testing.T, m Model, title string, tags ...string) (Model, record.Record) {
	t.Helper()
	return seed(t, m, record.Record{Kind: record.KindTask, Title: title, Tags: tags})
}

func TestNewTaskSaves(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, "n")
	require.Equal(t, modeForm, m.mode)
	require.NotNil(t, m.form)

	m = press(t, m, "buy milk", "ctrl+s")
	require.Equal(t, modeNormal, m.mode)
	require.Nil(t, m.form)
	require.Contains(t, m.status, "Saved")

	tasks, err := m.store.List(record.KindTask)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, "buy milk", tasks[0].Title)
	require.Equal(t, record.StatusOpen, tasks[0].Status)

	rec, ok := m.selectedRecord()
	require.True(t, ok)
	require.Equal(t, tasks[0].ID, rec.ID)
}

func TestEscapeDiscardsDraft(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, "n", "half a thought", "esc")
	require.Equal(t, modeNormal, m.mode)
	require.Nil(t, m.form)

	tasks, err := m.store.List(record.KindTask)
	require.NoError(t, err)
	require.Empty(t, tasks)
}

func TestFormValidation(t *testing.T) {
	m := newTestModel(t)

	// Tasks refuse to save without a title.
	m = press(t, m, "n", "ctrl+s")
	require.Equal(t, modeForm, m.mode)
	require.Equal(t, "title is required", m.form.errText)

	// A malformed due date is rejected inline, keeping the draft.
	m = press(t, m, "a task", "tab", "tab", "bogus", "ctrl+s")
	require.Equal(t, modeForm, m.mode)
	require.Contains(t, m.form.errText, "due date")
	m = press(t, m, "esc")

	// Journal entries save without a title; the date is prefilled.
	m = press(t, m, "3", "n")
	require.Equal(t, time.Now().Format(record.DateLayout), m.form.date.Value())
	m = press(t, m, "ctrl+s")
	require.Equal(t, modeNormal, m.mode)

	journals, err := m.store.List(record.KindJournal)
	require.NoError(t, err)
	require.Len(t, journals, 1)
	require.Equal(t, time.Now().Format(record.DateLayout), journals[0].Date.Format(record.DateLayout))
}

func TestTabSwitchResetsSelection(t *testing.T) {
	m := newTestModel(t)
	m, _ = seedTask(t, m, "one")
	m, _ = seedTask(t, m, "two")
	m, _ = seedTask(t, m, "three")
	m, _ = seed(t, m, record.Record{Kind: record.KindNote, Title: "a note"})

	m = press(t, m, "j", "j")
	rec, ok := m.selectedRecord()
	require.True(t, ok)
	require.Equal(t, "three", rec.Title)

	m = press(t, m, "2")
	require.Equal(t, record.KindNote, m.tab)
	require.Equal(t, filter.FirstItem(m.rows), m.selected)

	m = press(t, m, "1")
	require.Equal(t, record.KindTask, m.tab)
	rec, ok = m.selectedRecord()
	require.True(t, ok)
	require.Equal(t, "one", rec.Title)
}

func TestStatusCycleKeepsSelection(t *testing.T) {
	m := newTestModel(t)
	m, seeded := seedTask(t, m, "pay rent")

	m = press(t, m, " ")
	tasks, err := m.store.List(record.KindTask)
	require.NoError(t, err)
	require.Equal(t, record.StatusInProgress, tasks[0].Status)

	m = press(t, m, " ")
	tasks, err = m.store.List(record.KindTask)
	require.NoError(t, err)
	require.Equal(t, record.StatusDone, tasks[0].Status)

	rec, ok := m.selectedRecord()
	require.True(t, ok)
	require.Equal(t, seeded.ID, rec.ID)
}

func TestDeleteClampsSelection(t *testing.T) {
	m := newTestModel(t)
	m, _ = seedTask(t, m, "first")
	m, _ = seedTask(t, m, "second")
	m, _ = seedTask(t, m, "third")

	m = press(t, m, "j", "j", "d")
	require.Equal(t, modeConfirmDelete, m.mode)
	require.Equal(t, "third", m.confirm.rec.Title)

	m = press(t, m, "right", "enter")
	require.Equal(t, modeNormal, m.mode)

	tasks, err := m.store.List(record.KindTask)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	rec, ok := m.selectedRecord()
	require.True(t, ok)
	require.Equal(t, "second", rec.Title)
}

func TestArchiveHidesFromActiveList(t *testing.T) {
	m := newTestModel(t)
	m, first := seedTask(t, m, "keep around")
	m, _ = seedTask(t, m, "stays visible")

	m = press(t, m, "d", "enter")
	require.Equal(t, modeNormal, m.mode)
	require.Contains(t, m.status, "Archived")

	tasks, err := m.store.List(record.KindTask)
	require.NoError(t, err)
	require.True(t, tasks[0].Archived)
	require.Equal(t, first.ID, tasks[0].ID)

	require.Len(t, m.rows, 1)
	rec, ok := m.selectedRecord()
	require.True(t, ok)
	require.Equal(t, "stays visible", rec.Title)
}

func TestSearchFiltersLiveAndKeepsSelectionOnExit(t *testing.T) {
	m := newTestModel(t)
	m, _ = seedTask(t, m, "alpha")
	m, _ = seedTask(t, m, "beta")
	m, gamma := seedTask(t, m, "gamma")

	m = press(t, m, "/")
	require.Equal(t, modeSearch, m.mode)

	m = press(t, m, "gam")
	require.Len(t, m.rows, 1)
	rec, ok := m.selectedRecord()
	require.True(t, ok)
	require.Equal(t, gamma.ID, rec.ID)

	m = press(t, m, "enter")
	require.Equal(t, modeNormal, m.mode)
	require.Empty(t, m.searchInput.Value())
	require.Len(t, m.rows, 3)

	rec, ok = m.selectedRecord()
	require.True(t, ok)
	require.Equal(t, gamma.ID, rec.ID)
}

func TestFilterUntagged(t *testing.T) {
	m := newTestModel(t)
	m, _ = seedTask(t, m, "tagged", "work")
	m, bare := seedTask(t, m, "bare")

	m = press(t, m, "f")
	require.Equal(t, modeFilter, m.mode)

	m = press(t, m, record.UntaggedTag, "enter")
	require.Equal(t, modeNormal, m.mode)
	require.True(t, m.installed.active())
	require.NotEmpty(t, m.filterSummary())

	require.Len(t, m.rows, 1)
	rec, ok := m.selectedRecord()
	require.True(t, ok)
	require.Equal(t, bare.ID, rec.ID)
}

func TestReorderSwapsAdjacentRows(t *testing.T) {
	m := newTestModel(t)
	m, first := seedTask(t, m, "first")
	m, _ = seedTask(t, m, "second")

	m = press(t, m, "ctrl+down")

	tasks, err := m.store.List(record.KindTask)
	require.NoError(t, err)
	require.Equal(t, "second", tasks[0].Title)
	require.Equal(t, "first", tasks[1].Title)

	// The moved record stays selected at its new position.
	rec, ok := m.selectedRecord()
	require.True(t, ok)
	require.Equal(t, first.ID, rec.ID)
	require.Equal(t, 1, m.selected)
}

func TestBodyUndoRedo(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, "n", "draft", "tab", "tab", "tab", "tab")
	require.Equal(t, fieldBody, m.form.focus)

	m = press(t, m, "hello world")
	require.Equal(t, "hello world", m.form.body.Value())

	m = press(t, m, "ctrl+z")
	require.Empty(t, m.form.body.Value())

	m = press(t, m, "ctrl+y")
	require.Equal(t, "hello world", m.form.body.Value())
}

func TestTooSmallBlocksInput(t *testing.T) {
	m := newTestModel(t)
	m = resize(t, m, 30, 8)

	require.Contains(t, m.View(), "Terminal too small")

	m = press(t, m, "n")
	require.Equal(t, modeNormal, m.mode)
	require.Nil(t, m.form)

	_, cmd := m.Update(keyFor("ctrl+c"))
	require.NotNil(t, cmd)
}

func TestNotebookCreateAndAssign(t *testing.T) {
	m := newTestModel(t)
	m, task := seedTask(t, m, "file me")

	m = press(t, m, "ctrl+n")
	require.Equal(t, modeNotebooks, m.mode)

	m = press(t, m, "n", "work", "enter")
	books, err := m.store.ListNotebooks()
	require.NoError(t, err)
	require.Len(t, books, 1)
	require.Equal(t, "work", books[0].Name)

	m = press(t, m, "enter")
	require.Equal(t, modeNormal, m.mode)

	tasks, err := m.store.List(record.KindTask)
	require.NoError(t, err)
	require.NotNil(t, tasks[0].NotebookID)
	require.Equal(t, books[0].ID, *tasks[0].NotebookID)
	require.Equal(t, task.ID, tasks[0].ID)
}

func TestNotebookDuplicateNameInline(t *testing.T) {
	m := newTestModel(t)
	_, err := m.store.CreateNotebook("work")
	require.NoError(t, err)
	require.NoError(t, m.reloadNotebooks())

	m = press(t, m, "ctrl+n", "n", "work", "enter")
	require.Equal(t, modeNotebooks, m.mode)
	require.Equal(t, bookName, m.books.stage)
	require.Contains(t, m.books.errText, "already exists")
}

func TestGroupedViewHeadingsAndNavigation(t *testing.T) {
	m := newTestModel(t)
	nb, err := m.store.CreateNotebook("work")
	require.NoError(t, err)

	m, filed := seedTask(t, m, "filed")
	require.NoError(t, m.store.AssignNotebook(record.KindTask, filed.ID, &nb.ID))
	m, loose := seedTask(t, m, "loose")
	require.NoError(t, m.reloadAll())
	m.rebuild()

	m = press(t, m, "t", "t")
	require.Equal(t, viewGrouped, m.viewMode)

	require.True(t, m.rows[0].IsHeading())
	require.Equal(t, filter.UnfiledLabel, m.rows[0].Label())

	m.selected = filter.FirstItem(m.rows)
	rec, ok := m.selectedRecord()
	require.True(t, ok)
	require.Equal(t, loose.ID, rec.ID)

	// Moving down hops over the "work" heading straight to the filed task.
	m = press(t, m, "j")
	rec, ok = m.selectedRecord()
	require.True(t, ok)
	require.Equal(t, filed.ID, rec.ID)
	require.False(t, m.rows[m.selected].IsHeading())
}

func TestViewRendersSeededContent(t *testing.T) {
	m := newTestModel(t)
	m, _ = seedTask(t, m, "visible title")

	out := m.View()
	require.Contains(t, out, "Tasks")
	require.Contains(t, out, "visible title")

	m = press(t, m, "d")
	require.Contains(t, m.View(), "What should happen")
}
