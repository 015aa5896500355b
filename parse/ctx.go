package parse

import "fmt"

// Loc is a location in the input. Pos is the stream position; Line is
// 1-based and Col is 0-based. A zero Line means the stream carries no line
// information.
type Loc struct {
	Pos  int
	Line int
	Col  int
}

// FormatLoc renders l as "line:col", or as the bare position when l has no
// line information.
func FormatLoc(l Loc) string {
	if l.Line == 0 {
		return fmt.Sprint(l.Pos)
	}
	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

func (l Loc) String() string { return FormatLoc(l) }

// LocFunc computes the location of pos in s given the previous location.
type LocFunc func(prev Loc, s Stream, pos int) Loc

// DefaultMaxInserts bounds how deeply insertions may stack at a single
// position. An insertion counts until the parsers continuing after it
// return, so closing a nested construct never runs out of budget but an
// insertion that leads back into the same rule does.
const DefaultMaxInserts = 3

// Ctx is the state threaded through a parse: the location of the current
// position, the layout anchor column, and the insertion budget.
// Ctx.Loc.Pos always equals the position the context was built for.
type Ctx struct {
	Loc    Loc
	Anchor int

	locate     LocFunc
	inserts    int
	maxInserts int
}

// NewCtx returns the context for position 0 of s. A nil locate uses
// StreamLoc.
func NewCtx(s Stream, locate LocFunc) Ctx {
	if locate == nil {
		locate = StreamLoc
	}
	return Ctx{
		Loc:        locate(Loc{}, s, 0),
		locate:     locate,
		maxInserts: DefaultMaxInserts,
	}
}

// Update returns the context for pos. Moving to a new position resets the
// insertion budget.
func (c Ctx) Update(s Stream, pos int) Ctx {
	if pos == c.Loc.Pos {
		return c
	}
	locate := c.locate
	if locate == nil {
		locate = StreamLoc
	}
	c.Loc = locate(c.Loc, s, pos)
	c.inserts = 0
	return c
}

// WithAnchor returns c with the layout anchor set to col.
func (c Ctx) WithAnchor(col int) Ctx {
	c.Anchor = col
	return c
}

// WithMaxInserts returns c with a new insertion budget.
func (c Ctx) WithMaxInserts(n int) Ctx {
	c.maxInserts = n
	return c
}

// CanInsert reports whether another insertion may be made at this
// position.
func (c Ctx) CanInsert() bool {
	return c.inserts < c.maxInserts
}

// Inserted returns the context that follows an insertion.
func (c Ctx) Inserted() Ctx {
	c.inserts++
	return c
}

func (c Ctx) insertsOf(o Ctx) Ctx {
	c.inserts = o.inserts
	return c
}
