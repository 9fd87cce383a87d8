package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jotter/internal/record"
)

func task(id, order int64, title string, tags []string, archived bool) record.Record {
	return record.Record{
		ID:       id,
		Kind:     record.KindTask,
		Title:    title,
		Tags:     tags,
		Archived: archived,
		OrderKey: order,
		Status:   record.StatusOpen,
	}
}

func itemTitles(t *testing.T, records []record.Record, rows []Row) []string {
	t.Helper()
	var titles []string
	for _, r := range rows {
		if idx, ok := r.RecordIndex(); ok {
			titles = append(titles, records[idx].Title)
		}
	}
	return titles
}

func TestTagAndArchivePredicates(t *testing.T) {
	records := []record.Record{
		task(1, 0, "T1", []string{"work"}, false),
		task(2, 1, "T2", []string{"home"}, true),
	}
	q := Query{
		Tags:    record.TagFilter{Tags: []string{"work"}, Logic: record.LogicAll},
		Archive: ArchiveActive,
	}
	rows := Build(records, nil, q)
	assert.Equal(t, []string{"T1"}, itemTitles(t, records, rows))
}

func TestEmptySearchIsNoOp(t *testing.T) {
	records := []record.Record{
		task(1, 0, "alpha", []string{"work"}, false),
		task(2, 1, "beta", []string{"work"}, false),
	}
	q := Query{Tags: record.TagFilter{Tags: []string{"work"}, Logic: record.LogicAll}}
	withSearch := q
	withSearch.Search = ""
	assert.Equal(t, Build(records, nil, q), Build(records, nil, withSearch))
}

func TestSearchPredicate(t *testing.T) {
	records := []record.Record{
		task(1, 0, "Write report", nil, false),
		task(2, 1, "Buy milk", nil, false),
	}
	rows := Build(records, nil, Query{Search: "REPORT"})
	assert.Equal(t, []string{"Write report"}, itemTitles(t, records, rows))
}

func TestStatusPredicateAppliesToTasksOnly(t *testing.T) {
	records := []record.Record{
		task(1, 0, "open task", nil, false),
		{ID: 2, Kind: record.KindTask, Title: "done task", OrderKey: 1, Status: record.StatusDone},
		{ID: 3, Kind: record.KindNote, Title: "note", OrderKey: 2},
	}
	rows := Build(records, nil, Query{Status: record.StatusDone})
	assert.Equal(t, []string{"done task", "note"}, itemTitles(t, records, rows))

	rows = Build(records, nil, Query{Status: StatusAny})
	assert.Len(t, rows, 3)
}

func TestSortByOrderKeyWithIDTiebreak(t *testing.T) {
	records := []record.Record{
		task(30, 2, "third", nil, false),
		task(10, 1, "second-b", nil, false),
		task(5, 1, "second-a", nil, false),
		task(7, 0, "first", nil, false),
	}
	rows := Build(records, nil, Query{})
	assert.Equal(t, []string{"first", "second-a", "second-b", "third"},
		itemTitles(t, records, rows))
}

func TestMappingNoneExactlyAtHeadings(t *testing.T) {
	nb := int64(1)
	records := []record.Record{
		task(1, 0, "unfiled", nil, false),
		{ID: 2, Kind: record.KindTask, Title: "filed", OrderKey: 1, NotebookID: &nb, Status: record.StatusOpen},
	}
	notebooks := []record.Notebook{{ID: 1, Name: "Projects"}}
	rows := Build(records, notebooks, Query{GroupByNotebook: true})

	require.Len(t, rows, 4)
	seen := map[int]bool{}
	for _, r := range rows {
		idx, ok := r.RecordIndex()
		if r.IsHeading() {
			assert.False(t, ok)
			assert.NotEmpty(t, r.Label())
		} else {
			require.True(t, ok)
			assert.False(t, seen[idx], "record index appears once")
			seen[idx] = true
		}
	}
	assert.Len(t, seen, 2)
}

func TestGroupingUnfiledFirstThenNotebooksByName(t *testing.T) {
	nbWork, nbHome := int64(1), int64(2)
	records := []record.Record{
		{ID: 1, Kind: record.KindNote, Title: "in work", OrderKey: 0, NotebookID: &nbWork},
		{ID: 2, Kind: record.KindNote, Title: "loose", OrderKey: 1},
		{ID: 3, Kind: record.KindNote, Title: "in home", OrderKey: 2, NotebookID: &nbHome},
	}
	notebooks := []record.Notebook{
		{ID: 1, Name: "Work"},
		{ID: 2, Name: "Home"},
	}
	rows := Build(records, notebooks, Query{GroupByNotebook: true})

	var labels []string
	for _, r := range rows {
		if r.IsHeading() {
			labels = append(labels, r.Label())
		}
	}
	assert.Equal(t, []string{UnfiledLabel, "Home", "Work"}, labels)
	assert.Equal(t, []string{"loose", "in home", "in work"}, itemTitles(t, records, rows))
}

func TestEmptyGroupsSuppressed(t *testing.T) {
	records := []record.Record{
		{ID: 1, Kind: record.KindNote, Title: "loose", OrderKey: 0},
	}
	notebooks := []record.Notebook{{ID: 1, Name: "Empty"}}
	rows := Build(records, notebooks, Query{GroupByNotebook: true})

	require.Len(t, rows, 2)
	assert.Equal(t, UnfiledLabel, rows[0].Label())
	_, ok := rows[1].RecordIndex()
	assert.True(t, ok)
}

func TestDanglingNotebookCountsAsUnfiled(t *testing.T) {
	gone := int64(99)
	records := []record.Record{
		{ID: 1, Kind: record.KindNote, Title: "orphan", OrderKey: 0, NotebookID: &gone},
	}
	rows := Build(records, nil, Query{GroupByNotebook: true})
	require.Len(t, rows, 2)
	assert.Equal(t, UnfiledLabel, rows[0].Label())
}

func TestEmptyResult(t *testing.T) {
	records := []record.Record{task(1, 0, "T1", nil, true)}
	rows := Build(records, nil, Query{Archive: ArchiveActive, GroupByNotebook: true})
	assert.Empty(t, rows)
}

func TestBuildIsOrderStable(t *testing.T) {
	nb := int64(1)
	records := []record.Record{
		task(3, 1, "b", []string{"x"}, false),
		task(1, 0, "a", nil, false),
		{ID: 2, Kind: record.KindTask, Title: "c", OrderKey: 2, NotebookID: &nb, Status: record.StatusOpen},
	}
	notebooks := []record.Notebook{{ID: 1, Name: "N"}}
	q := Query{GroupByNotebook: true}

	first := Build(records, notebooks, q)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Build(records, notebooks, q))
	}
}

func TestNavigationSkipsHeadingsAndClamps(t *testing.T) {
	nb := int64(1)
	records := []record.Record{
		{ID: 1, Kind: record.KindNote, Title: "u1", OrderKey: 0},
		{ID: 2, Kind: record.KindNote, Title: "f1", OrderKey: 1, NotebookID: &nb},
		{ID: 3, Kind: record.KindNote, Title: "f2", OrderKey: 2, NotebookID: &nb},
	}
	notebooks := []record.Notebook{{ID: 1, Name: "N"}}
	rows := Build(records, notebooks, Query{GroupByNotebook: true})
	// Layout: [Unfiled] u1 [N] f1 f2  -> indices 0..4.
	require.Len(t, rows, 5)

	assert.Equal(t, 1, FirstItem(rows))
	assert.Equal(t, 4, LastItem(rows))

	assert.Equal(t, 3, NextItem(rows, 1), "skips the N heading")
	assert.Equal(t, 4, NextItem(rows, 3))
	assert.Equal(t, 4, NextItem(rows, 4), "clamps at the end")

	assert.Equal(t, 3, PrevItem(rows, 4))
	assert.Equal(t, 1, PrevItem(rows, 3), "skips the N heading")
	assert.Equal(t, 1, PrevItem(rows, 1), "clamps at the start")

	assert.Equal(t, 1, NextItem(rows, -1), "no selection starts at first item")
}

func TestClampSelection(t *testing.T) {
	records := []record.Record{
		{ID: 1, Kind: record.KindNote, Title: "a", OrderKey: 0},
		{ID: 2, Kind: record.KindNote, Title: "b", OrderKey: 1},
	}
	rows := Build(records, nil, Query{})

	assert.Equal(t, 0, ClampSelection(rows, 0))
	assert.Equal(t, 1, ClampSelection(rows, 5), "past the end clamps to last")
	assert.Equal(t, 0, ClampSelection(rows, -3))
	assert.Equal(t, -1, ClampSelection(nil, 0), "empty sequence clears selection")

	// Selection on a heading resolves to the nearest item row.
	nb := int64(1)
	grouped := Build([]record.Record{
		{ID: 1, Kind: record.KindNote, Title: "x", OrderKey: 0, NotebookID: &nb},
	}, []record.Notebook{{ID: 1, Name: "N"}}, Query{GroupByNotebook: true})
	require.Len(t, grouped, 2)
	assert.Equal(t, 1, ClampSelection(grouped, 0))
}

func TestFindRecord(t *testing.T) {
	records := []record.Record{
		{ID: 1, Kind: record.KindNote, Title: "a", OrderKey: 1},
		{ID: 2, Kind: record.KindNote, Title: "b", OrderKey: 0},
	}
	rows := Build(records, nil, Query{})
	// Sorted: b (input index 1) then a (input index 0).
	assert.Equal(t, 1, FindRecord(rows, 0))
	assert.Equal(t, 0, FindRecord(rows, 1))
	assert.Equal(t, -1, FindRecord(rows, 7))
}
