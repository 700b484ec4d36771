package tape

// Side names one of the two halves of a Cache window.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) opposite() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// shiftOutcome is the structured result of Cache.Shift.
type shiftOutcome int

const (
	// shiftStay means the offset moved within the active half; nothing
	// else needs to happen.
	shiftStay shiftOutcome = iota
	// shiftInCache means the focus moved to the other half, which the
	// cache already holds.
	shiftInCache
	// shiftMiss means the focus should move past both halves the cache
	// holds; the caller must supply the next cell's contents via
	// ShiftFlush.
	shiftMiss
)

// ShiftResult reports what Cache.Shift did and, for an in-cache or missed
// shift, which side the new focus lies on.
type ShiftResult struct {
	outcome shiftOutcome
	side    Side
}

// Hit reports whether the shift stayed entirely within the cache (no
// ShiftFlush call is needed).
func (r ShiftResult) Hit() bool { return r.outcome != shiftMiss }

// Side is the half the cursor moved toward; only meaningful when Hit is
// false or when the shift actually switched halves.
func (r ShiftResult) Side() Side { return r.side }

// Cache is the two-cell-wide window around the tape cursor. By holding two
// cells' worth of bytes directly and only touching the linked cell chain
// once every width steps on average, the inner read/write/shift loop
// avoids pointer chasing on its hot path.
type Cache struct {
	width   int
	bufL    []byte
	bufR    []byte
	cursor  int
	active  Side
	dirtyL  bool
	dirtyR  bool
}

// NewCache builds a cache with current loaded into the active (right) half
// and left loaded into the inactive (left) half, cursor at the near end of
// the active half, so the first Read returns current[0].
func NewCache(width int, current, left []byte) *Cache {
	bl := make([]byte, width)
	copy(bl, left)
	br := make([]byte, width)
	copy(br, current)
	return &Cache{width: width, bufL: bl, bufR: br, cursor: 0, active: SideRight}
}

func (c *Cache) activeBuf() []byte {
	if c.active == SideLeft {
		return c.bufL
	}
	return c.bufR
}

func (c *Cache) setDirty(side Side, v bool) {
	if side == SideLeft {
		c.dirtyL = v
	} else {
		c.dirtyR = v
	}
}

func (c *Cache) isDirty(side Side) bool {
	if side == SideLeft {
		return c.dirtyL
	}
	return c.dirtyR
}

// Read returns the symbol at the active half's current offset.
func (c *Cache) Read() byte {
	return c.activeBuf()[c.cursor]
}

// Write stores s at the active slot and returns the previous value,
// marking the active half dirty if the value actually changed.
func (c *Cache) Write(s byte) byte {
	buf := c.activeBuf()
	old := buf[c.cursor]
	buf[c.cursor] = s
	if old != s {
		c.setDirty(c.active, true)
	}
	return old
}

// Shift moves the cursor one step in dir. Movement within the active half
// or into the cached other half is handled entirely here; a move past both
// halves reports a miss, leaving the cache state unchanged until the
// caller follows up with ShiftFlush.
func (c *Cache) Shift(dir Movement) ShiftResult {
	switch dir {
	case MoveStay:
		return ShiftResult{outcome: shiftStay}
	case MoveLeft:
		if c.cursor > 0 {
			c.cursor--
			return ShiftResult{outcome: shiftStay}
		}
		if c.active == SideRight {
			c.cursor = c.width - 1
			c.active = SideLeft
			return ShiftResult{outcome: shiftInCache, side: SideLeft}
		}
		return ShiftResult{outcome: shiftMiss, side: SideLeft}
	case MoveRight:
		if c.cursor < c.width-1 {
			c.cursor++
			return ShiftResult{outcome: shiftStay}
		}
		if c.active == SideLeft {
			c.cursor = 0
			c.active = SideRight
			return ShiftResult{outcome: shiftInCache, side: SideRight}
		}
		return ShiftResult{outcome: shiftMiss, side: SideRight}
	default:
		panic("tape: unknown Movement")
	}
}

// ShiftFlush must only be called right after Shift reported a miss. The
// active side stays the same: the old active half's content (and dirty
// flag) slides into the inactive slot, and newContent is loaded into the
// active half, with the offset reset to the end nearest the cell just
// left. It returns the old inactive half's buffer, which is evicted from
// the cache, if it was dirty, so the caller can write it back to its
// backing cell.
func (c *Cache) ShiftFlush(dir Movement, newContent []byte) ([]byte, bool) {
	switch dir {
	case MoveLeft:
		if !(c.cursor == 0 && c.active == SideLeft) {
			panic("tape: ShiftFlush(Left) called without a prior miss")
		}
		c.cursor = c.width - 1
		outR := c.bufR
		outDirty := c.dirtyR
		c.bufR = c.bufL
		c.dirtyR = c.dirtyL
		c.bufL = make([]byte, c.width)
		copy(c.bufL, newContent)
		c.dirtyL = false
		if outDirty {
			return outR, true
		}
		return nil, false
	case MoveRight:
		if !(c.cursor == c.width-1 && c.active == SideRight) {
			panic("tape: ShiftFlush(Right) called without a prior miss")
		}
		c.cursor = 0
		outL := c.bufL
		outDirty := c.dirtyL
		c.bufL = c.bufR
		c.dirtyL = c.dirtyR
		c.bufR = make([]byte, c.width)
		copy(c.bufR, newContent)
		c.dirtyR = false
		if outDirty {
			return outL, true
		}
		return nil, false
	default:
		panic("tape: ShiftFlush called with Stay")
	}
}

// FlushCurrent returns the active half's buffer if it has been written
// since the last flush, or (nil, false) otherwise.
func (c *Cache) FlushCurrent() ([]byte, bool) {
	if c.isDirty(c.active) {
		return c.activeBuf(), true
	}
	return nil, false
}

// FlushOther returns which side is inactive and its buffer, if dirty.
// It always returns the buffer belonging to the inactive half.
func (c *Cache) FlushOther() (Side, []byte, bool) {
	other := c.active.opposite()
	if c.isDirty(other) {
		if other == SideLeft {
			return other, c.bufL, true
		}
		return other, c.bufR, true
	}
	return other, nil, false
}

// Clone returns a value copy of the cache with both dirty flags cleared.
// Used when a tape splits: the copies' dirty flags describe "has this copy
// written since the split", which must start false even though the parent
// may have been dirty.
func (c *Cache) Clone() *Cache {
	bl := make([]byte, len(c.bufL))
	copy(bl, c.bufL)
	br := make([]byte, len(c.bufR))
	copy(br, c.bufR)
	return &Cache{
		width:  c.width,
		bufL:   bl,
		bufR:   br,
		cursor: c.cursor,
		active: c.active,
	}
}
