package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"jotter/internal/record"
)

func TestDueFiresOnceAndSkipsClosedTasks(t *testing.T) {
	now := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	tasks := []record.Record{
		{ID: 1, Kind: record.KindTask, Title: "due today", Due: &now},
		{ID: 2, Kind: record.KindTask, Title: "overdue", Due: &yesterday},
		{ID: 3, Kind: record.KindTask, Title: "future", Due: &tomorrow},
		{ID: 4, Kind: record.KindTask, Title: "done", Due: &now, Status: record.StatusDone},
		{ID: 5, Kind: record.KindTask, Title: "archived", Due: &now, Archived: true},
		{ID: 6, Kind: record.KindTask, Title: "no due date"},
		{ID: 7, Kind: record.KindNote, Title: "note", Due: &now},
	}

	tr := NewTracker()
	due := tr.Due(tasks, now)

	var titles []string
	for _, rec := range due {
		titles = append(titles, rec.Title)
	}
	assert.Equal(t, []string{"due today", "overdue"}, titles)

	assert.Empty(t, tr.Due(tasks, now), "second pass announces nothing new")

	late := now.Add(time.Hour)
	assert.Empty(t, tr.Due(tasks, late))
}
