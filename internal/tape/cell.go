// Package tape implements the shared, copy-on-write tape memory backing a
// single non-deterministic branch of execution. A tape is a cursor-centered
// chain of fixed-width cells; siblings produced by a split share most of
// the chain and only diverge where they actually write.
package tape

import "github.com/golang/glog"

// Kind tags the flavor of a Cell: a region is either backed by owned
// storage, backed by storage borrowed from elsewhere, or not backed by
// anything yet.
type Kind int

const (
	// KindFull cells own a mutable buffer outright.
	KindFull Kind = iota
	// KindGhost cells share a read-only buffer with an ancestor branch.
	KindGhost
	// KindEmpty cells represent unexplored blank tape past the edge.
	KindEmpty
)

// linkKind tags a neighbor pointer.
type linkKind int

const (
	// linkEdge marks the outermost unmaterialized blank region.
	linkEdge linkKind = iota
	// linkSame is an exclusively-owned neighbor in the same branch.
	linkSame
	// linkUncle is a neighbor that lives in an ancestor branch.
	linkUncle
	// linkNone is a transient sentinel used only during in-place mutation.
	linkNone
)

// link is a neighbor pointer out of a Cell.
type link struct {
	kind linkKind
	cell *Cell
}

func (l link) toUncle() link {
	switch l.kind {
	case linkSame, linkUncle:
		return link{kind: linkUncle, cell: l.cell}
	default:
		return l
	}
}

// focus consumes the link and produces the Cell it points to: materializing
// an Edge into a fresh Empty cell, taking the wrapped cell verbatim for a
// Same link, or ghosting an ancestor's cell for an Uncle link.
func (l link) focus() Cell {
	switch l.kind {
	case linkEdge:
		return Cell{kind: KindEmpty, next: link{kind: linkEdge}}
	case linkSame:
		return *l.cell
	case linkUncle:
		return l.cell.ghostSnapshot()
	default:
		glog.Fatalf("tape: focus called on a None link")
		panic("unreachable")
	}
}

// buffer is the heap storage a Full or Ghost cell points to. It is wrapped
// in its own type so that sharing it between a Ghost copy and its ancestor
// is just a pointer copy.
type buffer struct {
	data []byte
}

// Cell is one fixed-width slot of tape. See Kind for the three flavors a
// cell can take.
type Cell struct {
	kind Kind
	buf  *buffer
	next link
}

// NewEmpty returns a cell at the unmaterialized edge of a tape.
func NewEmpty() *Cell {
	return &Cell{kind: KindEmpty, next: link{kind: linkEdge}}
}

// newFull returns an owned cell wrapping data, linked in front of next (or
// at the edge if next is nil).
func newFull(data []byte, next *Cell) *Cell {
	l := link{kind: linkEdge}
	if next != nil {
		l = link{kind: linkSame, cell: next}
	}
	return &Cell{kind: KindFull, buf: &buffer{data: data}, next: l}
}

// ghostSnapshot builds the Ghost (or Empty) view an Uncle link sees when
// focusing across it, without disturbing the ancestor cell itself: other
// sibling branches may still hold their own Uncle link to it.
func (c *Cell) ghostSnapshot() Cell {
	switch c.kind {
	case KindFull, KindGhost:
		return Cell{kind: KindGhost, buf: c.buf, next: c.next.toUncle()}
	default: // KindEmpty
		return Cell{kind: KindEmpty, next: c.next.toUncle()}
	}
}

// Focus replaces the cell in place with its next-along-direction neighbor,
// returning the cell that used to be focused. Same links transfer with no
// allocation; Uncle links are ghosted; Edge links materialize as Empty.
func (c *Cell) Focus() *Cell {
	next := c.next
	c.next = link{kind: linkNone}
	newCell := next.focus()
	old := *c
	*c = newCell
	return &old
}

// Shift is the inverse of Focus: it pushes newHead in front of c, linking
// the cell displaced out of c as newHead's Same neighbor.
func (c *Cell) Shift(newHead *Cell) {
	old := *c
	*c = *newHead
	c.next = link{kind: linkSame, cell: &old}
}

// Read returns a copy of the cell's buffer, or false for an Empty cell.
func (c *Cell) Read() ([]byte, bool) {
	if c.kind == KindEmpty {
		return nil, false
	}
	out := make([]byte, len(c.buf.data))
	copy(out, c.buf.data)
	return out, true
}

// Write stores buf in the cell. A Full cell is updated in place; Ghost and
// Empty cells convert to Full with a freshly owned buffer, preserving their
// next link. This is the copy-on-write conversion point.
func (c *Cell) Write(buf []byte) {
	switch c.kind {
	case KindFull:
		copy(c.buf.data, buf)
	default: // KindGhost, KindEmpty
		data := make([]byte, len(buf))
		copy(data, buf)
		c.kind = KindFull
		c.buf = &buffer{data: data}
	}
}

// MakeRefs consumes the cell and yields n Ghost/Empty cells sharing its
// buffer (if any), with every next link rewritten to Uncle. This is the
// cheap-clone primitive behind Tape.Split: the chain is never deep-copied,
// only the cells at the cursor are ghosted, and deeper cells are reached
// lazily as a sibling branch actually shifts there.
func (c *Cell) MakeRefs(n int) []*Cell {
	refs := make([]*Cell, n)
	for i := range refs {
		snap := c.ghostSnapshot()
		refs[i] = &snap
	}
	return refs
}

// cellsFromSlice builds a chain of Full cells packing buf W bytes per cell,
// padding the final cell with blank, with the head cell holding the first
// W bytes of buf.
func cellsFromSlice(width int, blank byte, buf []byte) *Cell {
	fullCells := len(buf) / width

	tail := make([]byte, width)
	for i := range tail {
		tail[i] = blank
	}
	copy(tail, buf[width*fullCells:])
	head := newFull(tail, nil)

	for i := fullCells - 1; i >= 0; i-- {
		chunk := make([]byte, width)
		copy(chunk, buf[i*width:(i+1)*width])
		head = newFull(chunk, head)
	}
	return head
}
