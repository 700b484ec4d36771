package tape

import "github.com/golang/glog"

// Movement is the direction a transition shifts the tape cursor.
type Movement int

const (
	MoveLeft Movement = iota
	MoveRight
	MoveStay
)

// Tape glues the cell chain and the windowed cache into the cursor
// abstraction the machine reads and writes through: a narrow read/write
// surface over storage the caller never touches directly.
type Tape struct {
	width int
	blank byte
	cache *Cache
	focus *Cell
	left  *Cell
	right *Cell
}

// New constructs a tape of the given cell width and blank symbol, packing
// init into Full cells. The tape is positioned so the first Read returns
// init[0] (or blank, if init is empty).
func New(width int, blank byte, init []byte) *Tape {
	curr := cellsFromSlice(width, blank, init)
	head := curr.Focus()
	right := curr
	left := NewEmpty()

	blankBuf := make([]byte, width)
	for i := range blankBuf {
		blankBuf[i] = blank
	}
	current := blankBuf
	if data, ok := head.Read(); ok {
		current = data
	}
	cache := NewCache(width, current, blankBuf)

	return &Tape{
		width: width,
		blank: blank,
		cache: cache,
		focus: head,
		left:  left,
		right: right,
	}
}

// Width returns the cell width this tape (and every sibling split from it)
// was constructed with.
func (t *Tape) Width() int { return t.width }

// Read returns the symbol under the cursor.
func (t *Tape) Read() byte { return t.cache.Read() }

// Write replaces the symbol under the cursor and returns the previous
// value.
func (t *Tape) Write(s byte) byte { return t.cache.Write(s) }

// Shift moves the cursor one step in dir, materializing new Empty cells
// past either edge as needed. The tape is conceptually infinite in both
// directions.
func (t *Tape) Shift(dir Movement) {
	res := t.cache.Shift(dir)
	if res.Hit() {
		if res.outcome == shiftInCache {
			t.rotate(res.Side())
		}
		return
	}

	side := res.Side()
	switch side {
	case SideLeft:
		buf, ok := t.left.Read()
		if !ok {
			buf = t.blankBuf()
		}
		out, dirty := t.cache.ShiftFlush(dir, buf)
		if dirty {
			t.right.Write(out)
		}
	case SideRight:
		buf, ok := t.right.Read()
		if !ok {
			buf = t.blankBuf()
		}
		out, dirty := t.cache.ShiftFlush(dir, buf)
		if dirty {
			t.left.Write(out)
		}
	}
	t.rotate(side)
}

func (t *Tape) blankBuf() []byte {
	buf := make([]byte, t.width)
	for i := range buf {
		buf[i] = t.blank
	}
	return buf
}

// rotate slides the (left, focus, right) triple one step toward side, so
// that the new focus is the cell the cursor now points at.
func (t *Tape) rotate(side Side) {
	switch side {
	case SideLeft:
		cur := t.left.Focus()
		t.focus, cur = cur, t.focus
		t.right.Shift(cur)
	case SideRight:
		cur := t.right.Focus()
		t.focus, cur = cur, t.focus
		t.left.Shift(cur)
	}
}

// Split flushes both cache halves back to their cells, then clones the
// (left, focus, right) triple into n independent, copy-on-write siblings
// each carrying their own clean cache. The tape must not be used again
// after calling Split (ownership of its cell chain passes to the
// returned siblings).
func (t *Tape) Split(n int) []*Tape {
	if buf, ok := t.cache.FlushCurrent(); ok {
		t.focus.Write(buf)
	}
	if side, buf, ok := t.cache.FlushOther(); ok {
		switch side {
		case SideLeft:
			t.left.Write(buf)
		case SideRight:
			t.right.Write(buf)
		default:
			glog.Fatalf("tape: FlushOther returned an unknown side")
		}
	}

	focusRefs := t.focus.MakeRefs(n)
	leftRefs := t.left.MakeRefs(n)
	rightRefs := t.right.MakeRefs(n)

	out := make([]*Tape, n)
	for i := 0; i < n; i++ {
		out[i] = &Tape{
			width: t.width,
			blank: t.blank,
			cache: t.cache.Clone(),
			focus: focusRefs[i],
			left:  leftRefs[i],
			right: rightRefs[i],
		}
	}
	return out
}
