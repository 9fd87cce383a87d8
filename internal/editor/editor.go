// Package editor implements the text editing buffer used for record bodies:
// cursor and selection over Unicode scalar values, and bounded linear
// undo/redo where every mutation is one reversible change.
package editor

import (
	"strings"
	"unicode"
)

// DefaultHistoryLimit bounds the undo stack. Past this many changes the
// oldest entry is evicted on push.
const DefaultHistoryLimit = 100

// Editor holds one text buffer. All positions count Unicode scalar values,
// never bytes, so multi-byte characters always move as a single unit.
type Editor struct {
	buf    []rune
	cursor int
	anchor int // selection anchor position, -1 when no selection
	undo   *history
	redo   []change
}

// New returns an empty editor with the default history limit.
func New() *Editor {
	return NewWithLimit(DefaultHistoryLimit)
}

// NewWithLimit returns an empty editor whose undo history holds at most
// limit changes.
func NewWithLimit(limit int) *Editor {
	return &Editor{anchor: -1, undo: newHistory(limit)}
}

// SetValue replaces the buffer contents, places the cursor at the end, and
// drops selection and history.
func (e *Editor) SetValue(s string) {
	e.buf = []rune(s)
	e.cursor = len(e.buf)
	e.anchor = -1
	e.undo.reset()
	e.redo = e.redo[:0]
}

// Value returns the buffer contents.
func (e *Editor) Value() string { return string(e.buf) }

// Len returns the buffer length in scalar values.
func (e *Editor) Len() int { return len(e.buf) }

// Cursor returns the cursor offset in scalar values.
func (e *Editor) Cursor() int { return e.cursor }

// Selection returns the normalized selection range [start, end). ok is false
// when there is no selection or it is empty.
func (e *Editor) Selection() (start, end int, ok bool) {
	if e.anchor < 0 || e.anchor == e.cursor {
		return 0, 0, false
	}
	if e.anchor < e.cursor {
		return e.anchor, e.cursor, true
	}
	return e.cursor, e.anchor, true
}

// SelectedText returns the selection contents, empty when none.
func (e *Editor) SelectedText() string {
	s, t, ok := e.Selection()
	if !ok {
		return ""
	}
	return string(e.buf[s:t])
}

// Insert inserts text at the cursor. An active selection is replaced by the
// text as a single undoable change.
func (e *Editor) Insert(text string) {
	ins := []rune(text)
	s, t, sel := e.Selection()
	if !sel {
		s, t = e.cursor, e.cursor
	}
	if len(ins) == 0 && s == t {
		return
	}
	e.edit(change{
		pos:        s,
		removed:    copyRunes(e.buf[s:t]),
		inserted:   ins,
		prevCursor: e.cursor,
		nextCursor: s + len(ins),
	})
}

// DeleteBackward removes the selection if active, otherwise the scalar value
// before the cursor. At the buffer start it is a no-op.
func (e *Editor) DeleteBackward() {
	if e.DeleteSelection() {
		return
	}
	if e.cursor == 0 {
		return
	}
	e.edit(change{
		pos:        e.cursor - 1,
		removed:    copyRunes(e.buf[e.cursor-1 : e.cursor]),
		prevCursor: e.cursor,
		nextCursor: e.cursor - 1,
	})
}

// DeleteForward removes the selection if active, otherwise the scalar value
// at the cursor. At the buffer end it is a no-op.
func (e *Editor) DeleteForward() {
	if e.DeleteSelection() {
		return
	}
	if e.cursor == len(e.buf) {
		return
	}
	e.edit(change{
		pos:        e.cursor,
		removed:    copyRunes(e.buf[e.cursor : e.cursor+1]),
		prevCursor: e.cursor,
		nextCursor: e.cursor,
	})
}

// DeleteSelection removes the active selection as one change. It reports
// whether a selection was removed.
func (e *Editor) DeleteSelection() bool {
	s, t, ok := e.Selection()
	if !ok {
		return false
	}
	e.edit(change{
		pos:        s,
		removed:    copyRunes(e.buf[s:t]),
		prevCursor: e.cursor,
		nextCursor: s,
	})
	return true
}

// Undo reverts the most recent change. It reports false, without touching
// any state, when there is nothing to undo.
func (e *Editor) Undo() bool {
	c, ok := e.undo.pop()
	if !ok {
		return false
	}
	e.buf = splice(e.buf, c.pos, len(c.inserted), c.removed)
	e.cursor = c.prevCursor
	e.anchor = -1
	e.redo = append(e.redo, c)
	return true
}

// Redo re-applies the change most recently undone. Any edit since that undo
// has cleared the redo stack, in which case Redo reports false.
func (e *Editor) Redo() bool {
	if len(e.redo) == 0 {
		return false
	}
	c := e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]
	e.apply(c)
	e.undo.push(c)
	return true
}

// edit applies a fresh change: it mutates the buffer, records the change for
// undo, and clears the redo stack.
func (e *Editor) edit(c change) {
	e.apply(c)
	e.undo.push(c)
	e.redo = e.redo[:0]
}

func (e *Editor) apply(c change) {
	e.buf = splice(e.buf, c.pos, len(c.removed), c.inserted)
	e.cursor = c.nextCursor
	e.anchor = -1
}

// MoveLeft moves the cursor one scalar value left. With extend the selection
// grows from its anchor; without it any selection is cleared.
func (e *Editor) MoveLeft(extend bool) {
	e.moveTo(max(e.cursor-1, 0), extend)
}

// MoveRight moves the cursor one scalar value right.
func (e *Editor) MoveRight(extend bool) {
	e.moveTo(min(e.cursor+1, len(e.buf)), extend)
}

// MoveUp moves to the same column on the previous line, clamped to that
// line's length. On the first line it keeps the cursor in place.
func (e *Editor) MoveUp(extend bool) {
	ls := e.lineStart(e.cursor)
	if ls == 0 {
		e.moveTo(e.cursor, extend)
		return
	}
	col := e.cursor - ls
	pls := e.lineStart(ls - 1)
	e.moveTo(pls+min(col, ls-1-pls), extend)
}

// MoveDown moves to the same column on the next line, clamped to that line's
// length. On the last line it keeps the cursor in place.
func (e *Editor) MoveDown(extend bool) {
	le := e.lineEnd(e.cursor)
	if le == len(e.buf) {
		e.moveTo(e.cursor, extend)
		return
	}
	col := e.cursor - e.lineStart(e.cursor)
	nls := le + 1
	e.moveTo(nls+min(col, e.lineEnd(nls)-nls), extend)
}

// MoveLineStart moves to the start of the current line.
func (e *Editor) MoveLineStart(extend bool) {
	e.moveTo(e.lineStart(e.cursor), extend)
}

// MoveLineEnd moves to the end of the current line.
func (e *Editor) MoveLineEnd(extend bool) {
	e.moveTo(e.lineEnd(e.cursor), extend)
}

// MoveStart moves to the start of the buffer.
func (e *Editor) MoveStart(extend bool) {
	e.moveTo(0, extend)
}

// MoveEnd moves to the end of the buffer.
func (e *Editor) MoveEnd(extend bool) {
	e.moveTo(len(e.buf), extend)
}

// MoveWordLeft moves to the start of the previous word.
func (e *Editor) MoveWordLeft(extend bool) {
	pos := e.cursor
	for pos > 0 && !isWordRune(e.buf[pos-1]) {
		pos--
	}
	for pos > 0 && isWordRune(e.buf[pos-1]) {
		pos--
	}
	e.moveTo(pos, extend)
}

// MoveWordRight moves past the end of the next word.
func (e *Editor) MoveWordRight(extend bool) {
	pos := e.cursor
	for pos < len(e.buf) && !isWordRune(e.buf[pos]) {
		pos++
	}
	for pos < len(e.buf) && isWordRune(e.buf[pos]) {
		pos++
	}
	e.moveTo(pos, extend)
}

// SelectAll selects the whole buffer, cursor at the end.
func (e *Editor) SelectAll() {
	e.anchor = 0
	e.cursor = len(e.buf)
}

func (e *Editor) moveTo(pos int, extend bool) {
	if extend {
		if e.anchor < 0 {
			e.anchor = e.cursor
		}
	} else {
		e.anchor = -1
	}
	e.cursor = pos
}

// CursorLineCol returns the cursor position as zero-based line and column,
// both counted in scalar values.
func (e *Editor) CursorLineCol() (line, col int) {
	for _, r := range e.buf[:e.cursor] {
		if r == '\n' {
			line++
		}
	}
	return line, e.cursor - e.lineStart(e.cursor)
}

// Lines returns the buffer split into lines for rendering.
func (e *Editor) Lines() []string {
	return strings.Split(string(e.buf), "\n")
}

// lineStart returns the index of the first scalar of pos's line.
func (e *Editor) lineStart(pos int) int {
	for pos > 0 && e.buf[pos-1] != '\n' {
		pos--
	}
	return pos
}

// lineEnd returns the index of pos's line terminator (or the buffer end).
func (e *Editor) lineEnd(pos int) int {
	for pos < len(e.buf) && e.buf[pos] != '\n' {
		pos++
	}
	return pos
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func splice(buf []rune, pos, removeN int, insert []rune) []rune {
	out := make([]rune, 0, len(buf)-removeN+len(insert))
	out = append(out, buf[:pos]...)
	out = append(out, insert...)
	out = append(out, buf[pos+removeN:]...)
	return out
}

func copyRunes(rs []rune) []rune {
	if len(rs) == 0 {
		return nil
	}
	out := make([]rune, len(rs))
	copy(out, rs)
	return out
}
