// Package record defines the task, note, and journal entry types shared by
// the storage layer, the filter engine, and the UI.
package record

import (
	"strings"
	"time"
)

type Kind int

const (
	KindTask Kind = iota
	KindNote
	KindJournal
)

func (k Kind) String() string {
	switch k {
	case KindTask:
		return "task"
	case KindNote:
		return "note"
	case KindJournal:
		return "journal"
	default:
		return "unknown"
	}
}

// Status is the task workflow state.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Next cycles open -> in progress -> done -> open.
func (s Status) Next() Status {
	switch s {
	case StatusOpen:
		return StatusInProgress
	case StatusInProgress:
		return StatusDone
	default:
		return StatusOpen
	}
}

// Display returns the user-facing status text, also used by search matching.
func (s Status) Display() string {
	switch s {
	case StatusInProgress:
		return "in progress"
	case StatusDone:
		return "done"
	default:
		return "open"
	}
}

// ParseStatus maps stored status text back to a Status, defaulting to open.
func ParseStatus(s string) Status {
	switch Status(strings.TrimSpace(strings.ToLower(s))) {
	case StatusInProgress:
		return StatusInProgress
	case StatusDone:
		return StatusDone
	default:
		return StatusOpen
	}
}

// DateLayout is the wire format for due dates and journal dates.
const DateLayout = "2006-01-02"

// Record is one task, note, or journal entry. ID 0 marks an unsaved draft.
// Task-only fields are meaningful when Kind is KindTask, Date when Kind is
// KindJournal.
type Record struct {
	ID         int64
	Kind       Kind
	Title      string
	Body       string
	Tags       []string
	Archived   bool
	OrderKey   int64
	NotebookID *int64
	Created    time.Time
	Updated    time.Time

	Status Status
	Due    *time.Time

	Date time.Time
}

// MatchesSearch reports whether the record matches a case-insensitive
// substring search over title and body, plus the status text for tasks.
// An empty query matches everything.
func (r Record) MatchesSearch(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(r.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Body), q) {
		return true
	}
	if r.Kind == KindTask && strings.Contains(r.Status.Display(), q) {
		return true
	}
	return false
}

// Logic selects how a TagFilter combines its selected tags.
type Logic int

const (
	LogicAll Logic = iota // conjunction
	LogicAny              // disjunction
)

func (l Logic) String() string {
	if l == LogicAny {
		return "any"
	}
	return "all"
}

// UntaggedTag is the special filter tag selecting records with no tags.
const UntaggedTag = "[untagged]"

// TagFilter is a set of selected tags plus combination logic.
type TagFilter struct {
	Tags  []string
	Logic Logic
}

// IsZero reports whether the filter selects nothing, i.e. passes every record.
func (f TagFilter) IsZero() bool {
	return len(f.Tags) == 0
}

// MatchesTags applies the tag filter to the record's tag set. With LogicAll
// every selected tag must be present; with LogicAny at least one. The
// UntaggedTag selector matches records with an empty tag set: combined with
// other tags it is unsatisfiable under LogicAll and one alternative under
// LogicAny.
func (r Record) MatchesTags(f TagFilter) bool {
	if f.IsZero() {
		return true
	}
	has := make(map[string]bool, len(r.Tags))
	for _, t := range r.Tags {
		has[strings.ToLower(t)] = true
	}
	if f.Logic == LogicAll {
		for _, want := range f.Tags {
			want = strings.ToLower(strings.TrimSpace(want))
			if want == "" {
				continue
			}
			if want == UntaggedTag {
				if len(r.Tags) != 0 {
					return false
				}
				continue
			}
			if !has[want] {
				return false
			}
		}
		return true
	}
	for _, want := range f.Tags {
		want = strings.ToLower(strings.TrimSpace(want))
		if want == "" {
			continue
		}
		if want == UntaggedTag {
			if len(r.Tags) == 0 {
				return true
			}
			continue
		}
		if has[want] {
			return true
		}
	}
	return false
}

// ParseTags splits comma-separated user input into normalized tags:
// trimmed, lowercased, empties dropped, duplicates removed keeping first
// occurrence.
func ParseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	seen := make(map[string]bool)
	var tags []string
	for _, part := range strings.Split(s, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// JoinTags is the inverse of ParseTags for storage and form round-trips.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// FormatTags renders tags in the bracketed display form "[a] [b]".
func FormatTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	var b strings.Builder
	for i, t := range tags {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('[')
		b.WriteString(t)
		b.WriteByte(']')
	}
	return b.String()
}

// Notebook is a named grouping. Records reference notebooks weakly: deleting
// a notebook unfiles its records, it never invalidates them.
type Notebook struct {
	ID      int64
	Name    string
	Created time.Time
}
