package cli

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"jotter/internal/record"
	"jotter/internal/storage"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func openDB(t *testing.T, dir string) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(dir, "jotter.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAddTask(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")

	out, err := runCommand(t, "--config", cfg, "add", "task", "call the landlord",
		"--due", "2026-09-01", "--tags", "Home, admin")
	require.NoError(t, err)
	require.Contains(t, out, "Added task")
	require.Contains(t, out, "call the landlord")

	tasks, err := openDB(t, dir).List(record.KindTask)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, "call the landlord", tasks[0].Title)
	require.Equal(t, record.StatusOpen, tasks[0].Status)
	require.Equal(t, []string{"home", "admin"}, tasks[0].Tags)
	require.NotNil(t, tasks[0].Due)
	require.Equal(t, "2026-09-01", tasks[0].Due.Format(record.DateLayout))
}

func TestAddTaskRejectsBadDue(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")

	_, err := runCommand(t, "--config", cfg, "add", "task", "x", "--due", "tomorrow")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid --due")

	tasks, err := openDB(t, dir).List(record.KindTask)
	require.NoError(t, err)
	require.Empty(t, tasks)
}

func TestAddNote(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")

	out, err := runCommand(t, "--config", cfg, "add", "note", "standup notes", "--body", "key points")
	require.NoError(t, err)
	require.Contains(t, out, "Added note")

	notes, err := openDB(t, dir).List(record.KindNote)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	require.Equal(t, "key points", notes[0].Body)
}

func TestAddJournalDefaultsToToday(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")

	out, err := runCommand(t, "--config", cfg, "add", "journal", "shipped the release")
	require.NoError(t, err)
	require.Contains(t, out, "Added journal")

	entries, err := openDB(t, dir).List(record.KindJournal)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, time.Now().Format(record.DateLayout), entries[0].Date.Format(record.DateLayout))
	require.Equal(t, "shipped the release", entries[0].Body)
}
