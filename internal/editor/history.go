package editor

// change captures one edit as a replacement at pos: removed text taken out,
// inserted text put in, with the exact cursor positions before and after.
// Reverting and re-applying a change restores those states exactly.
type change struct {
	pos        int
	removed    []rune
	inserted   []rune
	prevCursor int
	nextCursor int
}

// history is a fixed-capacity ring of changes. push appends the newest entry
// and evicts the oldest when full; pop removes the newest. Both are O(1).
type history struct {
	buf  []change
	head int // index of the oldest entry
	n    int
}

func newHistory(capacity int) *history {
	if capacity < 1 {
		capacity = 1
	}
	return &history{buf: make([]change, capacity)}
}

func (h *history) push(c change) {
	if h.n == len(h.buf) {
		h.buf[h.head] = c
		h.head = (h.head + 1) % len(h.buf)
		return
	}
	h.buf[(h.head+h.n)%len(h.buf)] = c
	h.n++
}

func (h *history) pop() (change, bool) {
	if h.n == 0 {
		return change{}, false
	}
	h.n--
	return h.buf[(h.head+h.n)%len(h.buf)], true
}

func (h *history) size() int { return h.n }

func (h *history) reset() {
	h.head = 0
	h.n = 0
}
