package parse

import "fmt"

// OpKind tells skips and insertions apart.
type OpKind uint8

const (
	OpSkip OpKind = iota
	OpInsert
)

// Op is a single repair action.
type Op struct {
	Kind OpKind
	// Count is the number of items discarded by a skip.
	Count int
	// Label names what an insertion fabricated.
	Label string
}

// Skip returns an op discarding n items.
func Skip(n int) Op { return Op{Kind: OpSkip, Count: n} }

// Insert returns an op fabricating label.
func Insert(label string) Op { return Op{Kind: OpInsert, Label: label} }

func (o Op) String() string {
	if o.Kind == OpInsert {
		return fmt.Sprintf("inserted %s", o.Label)
	}
	if o.Count == 1 {
		return "skipped 1 token"
	}
	return fmt.Sprintf("skipped %d tokens", o.Count)
}

// OpItem is a repair together with where it happened and what was
// expected there. An item that has not been consumed yet is open: the
// parsers that precede it may still widen its expected set.
type OpItem struct {
	Op       Op
	Loc      Loc
	Expected Chain[string]
	Consumed bool
}

// PrefixItem is a closed repair step.
type PrefixItem struct {
	Op       Op
	Loc      Loc
	Expected Chain[string]
}

func (o OpItem) closed() PrefixItem {
	return PrefixItem{Op: o.Op, Loc: o.Loc, Expected: o.Expected}
}

// Repair is one way of continuing past a failure. Cost counts skipped
// items plus insertions. Selected is the position of the item found by
// the leading skip, PrefixCost the cost up to and including that skip and
// SuffixCost everything after it; they rank skip candidates.
//
// First is the earliest repair and Rest the closed repairs after it, in
// input order. Only First can be open.
type Repair[T any] struct {
	Cost       int
	Value      T
	Pos        int
	Ctx        Ctx
	Expected   Chain[string]
	Consumed   bool
	Selected   int
	PrefixCost int
	SuffixCost int
	First      OpItem
	Rest       Chain[PrefixItem]
}

// Steps returns every repair in input order.
func (rp *Repair[T]) Steps() []PrefixItem {
	return Cons(rp.First.closed(), rp.Rest).Slice()
}

func skipRepair[T any](v T, from, found, next int, ctx Ctx, s Stream, expected Chain[string]) *Repair[T] {
	return &Repair[T]{
		Cost:       found - from,
		Value:      v,
		Pos:        next,
		Ctx:        ctx.Update(s, next),
		Selected:   found,
		PrefixCost: found - from,
		First:      OpItem{Op: Skip(found - from), Loc: ctx.Loc, Expected: expected},
	}
}

// insertRepair returns nil once the insertion budget at ctx is spent.
func insertRepair[T any](v T, label string, pos int, ctx Ctx, expected Chain[string]) *Repair[T] {
	if !ctx.CanInsert() {
		return nil
	}
	return &Repair[T]{
		Cost:  1,
		Value: v,
		Pos:   pos,
		Ctx:   ctx.Inserted(),
		First: OpItem{Op: Insert(label), Loc: ctx.Loc, Expected: expected},
	}
}

// expect returns a copy of rp whose open first repair has e prepended to
// (or, without prepend, replacing) its expected set. Setting consumed
// closes the repair.
func (rp *Repair[T]) expect(e Chain[string], prepend, consumed bool) *Repair[T] {
	if rp == nil || rp.Consumed {
		return rp
	}
	c := *rp
	if !c.First.Consumed {
		if prepend {
			c.First.Expected = Append(e, c.First.Expected)
		} else {
			c.First.Expected = e
		}
		c.First.Consumed = consumed
	}
	c.Consumed = consumed
	return &c
}

func (rp *Repair[T]) uncommit() *Repair[T] {
	if rp == nil || !rp.Consumed {
		return rp
	}
	c := *rp
	c.Consumed = false
	return &c
}

func mapRepair[A, B any](rp *Repair[A], f func(A) B) *Repair[B] {
	if rp == nil {
		return nil
	}
	return &Repair[B]{
		Cost:       rp.Cost,
		Value:      f(rp.Value),
		Pos:        rp.Pos,
		Ctx:        rp.Ctx,
		Expected:   rp.Expected,
		Consumed:   rp.Consumed,
		Selected:   rp.Selected,
		PrefixCost: rp.PrefixCost,
		SuffixCost: rp.SuffixCost,
		First:      rp.First,
		Rest:       rp.Rest,
	}
}

// selectedLess orders skip candidates by the position of the item they
// found, then by the cost up to it, then by the cost after it.
func selectedLess[T any](a, b *Repair[T]) bool {
	if a.Selected != b.Selected {
		return a.Selected < b.Selected
	}
	if a.PrefixCost != b.PrefixCost {
		return a.PrefixCost < b.PrefixCost
	}
	return a.SuffixCost < b.SuffixCost
}

// candidates keeps the best skip and the best insertion seen so far. On
// ties the candidate added first wins.
type candidates[T any] struct {
	sel, pend *Repair[T]
}

func (cs *candidates[T]) add(rp *Repair[T], skip bool) {
	switch {
	case rp == nil:
	case skip:
		if cs.sel == nil || selectedLess(rp, cs.sel) {
			cs.sel = rp
		}
	default:
		if cs.pend == nil || rp.Cost < cs.pend.Cost {
			cs.pend = rp
		}
	}
}

func (cs *candidates[T]) addResult(r Result[T]) {
	if r.Kind != KindRecovered {
		return
	}
	cs.add(r.Selected, true)
	cs.add(r.Pending, false)
}

func (cs *candidates[T]) empty() bool {
	return cs.sel == nil && cs.pend == nil
}

func (cs *candidates[T]) result(loc Loc, expected Chain[string]) Result[T] {
	return Repaired(loc, expected, cs.sel, cs.pend)
}
