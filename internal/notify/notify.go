// Package notify raises desktop reminders for tasks whose due date has
// arrived.
package notify

import (
	"time"

	"github.com/gen2brain/beeep"

	"jotter/internal/record"
)

const AppName = "jotter"

// Tracker remembers which tasks were announced this session so a reminder
// fires at most once per run.
type Tracker struct {
	sent map[int64]bool
}

func NewTracker() *Tracker {
	return &Tracker{sent: make(map[int64]bool)}
}

// Due returns the open tasks whose due date is today or earlier and marks
// each one announced. Done and archived tasks never fire.
func (t *Tracker) Due(tasks []record.Record, now time.Time) []record.Record {
	today := now.Format(record.DateLayout)
	var due []record.Record
	for _, rec := range tasks {
		if rec.Kind != record.KindTask || rec.Due == nil {
			continue
		}
		if t.sent[rec.ID] || rec.Archived || rec.Status == record.StatusDone {
			continue
		}
		if rec.Due.Format(record.DateLayout) <= today {
			t.sent[rec.ID] = true
			due = append(due, rec)
		}
	}
	return due
}

// Send raises one desktop notification.
func Send(title, message string) error {
	return beeep.Notify(title, message, "")
}
