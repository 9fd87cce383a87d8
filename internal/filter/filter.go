// Package filter turns one tab's records into the ordered display sequence
// the list navigates: filtered, sorted, optionally grouped under notebook
// headings, with a display-index to record-index mapping.
package filter

import (
	"sort"

	"jotter/internal/record"
)

// Archive selects which archive states pass the filter.
type Archive int

const (
	ArchiveActive Archive = iota // unarchived records only
	ArchiveOnly                  // archived records only
	ArchiveAll
)

func (a Archive) String() string {
	switch a {
	case ArchiveOnly:
		return "archived"
	case ArchiveAll:
		return "all"
	default:
		return "active"
	}
}

// StatusAny disables the task status predicate.
const StatusAny = record.Status("")

// Query bundles every input the engine filters by. The zero value passes
// all unarchived records ungrouped.
type Query struct {
	Search  string
	Tags    record.TagFilter
	Archive Archive
	// Status filters tasks when not StatusAny. Records of other kinds are
	// unaffected.
	Status record.Status
	// GroupByNotebook inserts a heading row before each notebook group.
	GroupByNotebook bool
}

// UnfiledLabel heads the group of records without a notebook.
const UnfiledLabel = "Unfiled"

// Row is one display row: a heading (label only, never selectable) or an
// item row wrapping the index of a record in the engine's input slice.
type Row struct {
	heading bool
	label   string
	index   int
}

func (r Row) IsHeading() bool { return r.heading }

// Label returns the heading text; empty for item rows.
func (r Row) Label() string { return r.label }

// RecordIndex returns the input-slice index of the row's record. ok is
// false exactly for heading rows.
func (r Row) RecordIndex() (int, bool) {
	if r.heading {
		return 0, false
	}
	return r.index, true
}

func headingRow(label string) Row { return Row{heading: true, label: label} }
func itemRow(index int) Row       { return Row{index: index} }

// Build runs the filter pipeline over one tab's records: predicates in
// order (search, tags, archive, task status), sort by order key with ID
// tiebreak, then optional notebook grouping. The result is deterministic
// for identical inputs. Headings for empty groups are never emitted.
func Build(records []record.Record, notebooks []record.Notebook, q Query) []Row {
	var keep []int
	for i, r := range records {
		if !r.MatchesSearch(q.Search) {
			continue
		}
		if !r.MatchesTags(q.Tags) {
			continue
		}
		switch q.Archive {
		case ArchiveActive:
			if r.Archived {
				continue
			}
		case ArchiveOnly:
			if !r.Archived {
				continue
			}
		}
		if q.Status != StatusAny && r.Kind == record.KindTask && r.Status != q.Status {
			continue
		}
		keep = append(keep, i)
	}

	sort.Slice(keep, func(a, b int) bool {
		ra, rb := records[keep[a]], records[keep[b]]
		if ra.OrderKey != rb.OrderKey {
			return ra.OrderKey < rb.OrderKey
		}
		return ra.ID < rb.ID
	})

	if !q.GroupByNotebook {
		rows := make([]Row, 0, len(keep))
		for _, i := range keep {
			rows = append(rows, itemRow(i))
		}
		return rows
	}
	return buildGrouped(records, notebooks, keep)
}

// buildGrouped emits the unfiled group first, then notebooks ordered by
// name. Records referencing a notebook that no longer exists count as
// unfiled.
func buildGrouped(records []record.Record, notebooks []record.Notebook, keep []int) []Row {
	names := make(map[int64]string, len(notebooks))
	for _, nb := range notebooks {
		names[nb.ID] = nb.Name
	}

	var unfiled []int
	byNotebook := make(map[int64][]int)
	for _, i := range keep {
		id := records[i].NotebookID
		if id == nil {
			unfiled = append(unfiled, i)
			continue
		}
		if _, ok := names[*id]; !ok {
			unfiled = append(unfiled, i)
			continue
		}
		byNotebook[*id] = append(byNotebook[*id], i)
	}

	ordered := make([]record.Notebook, len(notebooks))
	copy(ordered, notebooks)
	sort.Slice(ordered, func(a, b int) bool {
		if ordered[a].Name != ordered[b].Name {
			return ordered[a].Name < ordered[b].Name
		}
		return ordered[a].ID < ordered[b].ID
	})

	var rows []Row
	if len(unfiled) > 0 {
		rows = append(rows, headingRow(UnfiledLabel))
		for _, i := range unfiled {
			rows = append(rows, itemRow(i))
		}
	}
	for _, nb := range ordered {
		group := byNotebook[nb.ID]
		if len(group) == 0 {
			continue
		}
		rows = append(rows, headingRow(nb.Name))
		for _, i := range group {
			rows = append(rows, itemRow(i))
		}
	}
	return rows
}

// FirstItem returns the display index of the first item row, -1 when the
// sequence has none.
func FirstItem(rows []Row) int {
	for i, r := range rows {
		if !r.IsHeading() {
			return i
		}
	}
	return -1
}

// LastItem returns the display index of the last item row, -1 when the
// sequence has none.
func LastItem(rows []Row) int {
	for i := len(rows) - 1; i >= 0; i-- {
		if !rows[i].IsHeading() {
			return i
		}
	}
	return -1
}

// NextItem returns the next item row after cur, skipping headings and
// clamping at the end. From -1 it returns the first item row.
func NextItem(rows []Row, cur int) int {
	if cur < 0 {
		return FirstItem(rows)
	}
	for i := cur + 1; i < len(rows); i++ {
		if !rows[i].IsHeading() {
			return i
		}
	}
	return cur
}

// PrevItem returns the previous item row before cur, skipping headings and
// clamping at the start. From -1 it returns the first item row.
func PrevItem(rows []Row, cur int) int {
	if cur < 0 {
		return FirstItem(rows)
	}
	for i := cur - 1; i >= 0; i-- {
		if !rows[i].IsHeading() {
			return i
		}
	}
	return cur
}

// ClampSelection maps a stale selection onto the nearest valid item row of
// a rebuilt sequence: forward from the clamped position first, then
// backward, -1 when no item rows remain.
func ClampSelection(rows []Row, idx int) int {
	if len(rows) == 0 {
		return -1
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(rows) {
		idx = len(rows) - 1
	}
	for i := idx; i < len(rows); i++ {
		if !rows[i].IsHeading() {
			return i
		}
	}
	for i := idx - 1; i >= 0; i-- {
		if !rows[i].IsHeading() {
			return i
		}
	}
	return -1
}

// FindRecord returns the display index of the item row holding the given
// record index, -1 when it was filtered out.
func FindRecord(rows []Row, recordIndex int) int {
	for i, r := range rows {
		if idx, ok := r.RecordIndex(); ok && idx == recordIndex {
			return i
		}
	}
	return -1
}
