package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jotter/internal/record"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "jotter.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesNestedDirAndReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "jotter.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	recs, err := s.List(record.KindTask)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestCreateAssignsIDAndOrderKey(t *testing.T) {
	s := openTestStore(t)

	var ids []int64
	for _, title := range []string{"first", "second", "third"} {
		rec := record.Record{Kind: record.KindTask, Title: title}
		require.NoError(t, s.Create(&rec))
		ids = append(ids, rec.ID)
	}
	assert.Less(t, ids[0], ids[1])
	assert.Less(t, ids[1], ids[2])

	recs, err := s.List(record.KindTask)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []int64{0, 1, 2}, []int64{recs[0].OrderKey, recs[1].OrderKey, recs[2].OrderKey})
	assert.Equal(t, "first", recs[0].Title)
	assert.Equal(t, record.StatusOpen, recs[0].Status)
	assert.False(t, recs[0].Created.IsZero())
}

func TestOrderKeysIndependentPerKind(t *testing.T) {
	s := openTestStore(t)

	task := record.Record{Kind: record.KindTask, Title: "t"}
	require.NoError(t, s.Create(&task))
	note := record.Record{Kind: record.KindNote, Title: "n"}
	require.NoError(t, s.Create(&note))

	assert.Equal(t, int64(0), task.OrderKey)
	assert.Equal(t, int64(0), note.OrderKey)
}

func TestTaskRoundTrip(t *testing.T) {
	s := openTestStore(t)

	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	rec := record.Record{
		Kind:   record.KindTask,
		Title:  "pay rent",
		Body:   "before the 3rd",
		Tags:   []string{"money", "home"},
		Status: record.StatusInProgress,
		Due:    &due,
	}
	require.NoError(t, s.Create(&rec))

	recs, err := s.List(record.KindTask)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	got := recs[0]
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "pay rent", got.Title)
	assert.Equal(t, "before the 3rd", got.Body)
	assert.Equal(t, []string{"money", "home"}, got.Tags)
	assert.Equal(t, record.StatusInProgress, got.Status)
	require.NotNil(t, got.Due)
	assert.Equal(t, "2026-09-01", got.Due.Format(record.DateLayout))
	assert.Nil(t, got.NotebookID)
}

func TestJournalRoundTrip(t *testing.T) {
	s := openTestStore(t)

	rec := record.Record{
		Kind:  record.KindJournal,
		Title: "monday",
		Body:  "long day",
		Date:  time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.Create(&rec))

	recs, err := s.List(record.KindJournal)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "2026-08-24", recs[0].Date.Format(record.DateLayout))
}

func TestUpdate(t *testing.T) {
	s := openTestStore(t)

	rec := record.Record{Kind: record.KindTask, Title: "draft"}
	require.NoError(t, s.Create(&rec))

	rec.Title = "final"
	rec.Body = "rewritten"
	rec.Tags = []string{"work"}
	rec.Status = record.StatusDone
	require.NoError(t, s.Update(rec))

	recs, err := s.List(record.KindTask)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "final", recs[0].Title)
	assert.Equal(t, "rewritten", recs[0].Body)
	assert.Equal(t, []string{"work"}, recs[0].Tags)
	assert.Equal(t, record.StatusDone, recs[0].Status)
	assert.Nil(t, recs[0].Due)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)

	keep := record.Record{Kind: record.KindNote, Title: "keep"}
	drop := record.Record{Kind: record.KindNote, Title: "drop"}
	require.NoError(t, s.Create(&keep))
	require.NoError(t, s.Create(&drop))

	require.NoError(t, s.Delete(record.KindNote, drop.ID))

	recs, err := s.List(record.KindNote)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "keep", recs[0].Title)
}

func TestSetArchivedAndStatus(t *testing.T) {
	s := openTestStore(t)

	rec := record.Record{Kind: record.KindTask, Title: "t"}
	require.NoError(t, s.Create(&rec))

	require.NoError(t, s.SetArchived(record.KindTask, rec.ID, true))
	require.NoError(t, s.SetTaskStatus(rec.ID, record.StatusDone))

	recs, err := s.List(record.KindTask)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Archived)
	assert.Equal(t, record.StatusDone, recs[0].Status)
}

func TestSwapOrder(t *testing.T) {
	s := openTestStore(t)

	a := record.Record{Kind: record.KindTask, Title: "a"}
	b := record.Record{Kind: record.KindTask, Title: "b"}
	require.NoError(t, s.Create(&a))
	require.NoError(t, s.Create(&b))

	require.NoError(t, s.SwapOrder(record.KindTask, a.ID, b.ID))

	recs, err := s.List(record.KindTask)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "b", recs[0].Title)
	assert.Equal(t, "a", recs[1].Title)
}

func TestNotebooks(t *testing.T) {
	s := openTestStore(t)

	work, err := s.CreateNotebook("work")
	require.NoError(t, err)
	assert.NotZero(t, work.ID)

	_, err = s.CreateNotebook("work")
	assert.ErrorIs(t, err, ErrDuplicateName)

	home, err := s.CreateNotebook("home")
	require.NoError(t, err)

	books, err := s.ListNotebooks()
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "home", books[0].Name)
	assert.Equal(t, "work", books[1].Name)

	require.NoError(t, s.RenameNotebook(home.ID, "house"))
	assert.ErrorIs(t, s.RenameNotebook(home.ID, "work"), ErrDuplicateName)
}

func TestDeleteNotebookUnfilesRecords(t *testing.T) {
	s := openTestStore(t)

	nb, err := s.CreateNotebook("work")
	require.NoError(t, err)

	task := record.Record{Kind: record.KindTask, Title: "t", NotebookID: &nb.ID}
	note := record.Record{Kind: record.KindNote, Title: "n", NotebookID: &nb.ID}
	require.NoError(t, s.Create(&task))
	require.NoError(t, s.Create(&note))

	require.NoError(t, s.DeleteNotebook(nb.ID))

	books, err := s.ListNotebooks()
	require.NoError(t, err)
	assert.Empty(t, books)

	tasks, err := s.List(record.KindTask)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Nil(t, tasks[0].NotebookID)

	notes, err := s.List(record.KindNote)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Nil(t, notes[0].NotebookID)
}

func TestAssignNotebook(t *testing.T) {
	s := openTestStore(t)

	nb, err := s.CreateNotebook("work")
	require.NoError(t, err)
	rec := record.Record{Kind: record.KindNote, Title: "n"}
	require.NoError(t, s.Create(&rec))

	require.NoError(t, s.AssignNotebook(record.KindNote, rec.ID, &nb.ID))

	recs, err := s.List(record.KindNote)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.NotNil(t, recs[0].NotebookID)
	assert.Equal(t, nb.ID, *recs[0].NotebookID)

	require.NoError(t, s.AssignNotebook(record.KindNote, rec.ID, nil))
	recs, err = s.List(record.KindNote)
	require.NoError(t, err)
	assert.Nil(t, recs[0].NotebookID)
}

func TestEnsureColumnsUpgradesOldSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jotter.db")

	db, err := sql.Open("sqlite", sqliteDSN(path))
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		body TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'open',
		tags TEXT NOT NULL DEFAULT '',
		archived INTEGER NOT NULL DEFAULT 0,
		due TEXT DEFAULT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`)
	require.NoError(t, err)
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = db.Exec(`INSERT INTO tasks (title, created_at, updated_at) VALUES ('old row', ?, ?);`, now, now)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	recs, err := s.List(record.KindTask)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "old row", recs[0].Title)
	assert.Equal(t, int64(0), recs[0].OrderKey)
	assert.Nil(t, recs[0].NotebookID)
}
