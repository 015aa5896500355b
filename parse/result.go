package parse

// Kind tells the three outcomes of a parser apart.
type Kind uint8

const (
	// KindOk is a plain success.
	KindOk Kind = iota
	// KindError is a failure with no repair.
	KindError
	// KindRecovered is a failure with at least one repair candidate.
	KindRecovered
)

func (k Kind) String() string {
	switch k {
	case KindOk:
		return "ok"
	case KindError:
		return "error"
	case KindRecovered:
		return "recovered"
	}
	return "unknown"
}

// Result is the outcome of running a parser at a position.
//
// For KindOk, Value, Pos and Ctx describe the success and Expected lists
// what could have extended it at Pos. For KindError, Loc and Expected
// describe the failure. For KindRecovered, Loc and Expected describe the
// original failure and Selected and Pending hold the best skip and the
// best insertion candidate; at least one of them is set.
//
// Consumed reports whether any input was consumed before the outcome was
// decided. It is always true for KindRecovered; whether the repairs
// themselves are committed is tracked per candidate.
type Result[T any] struct {
	Kind     Kind
	Value    T
	Pos      int
	Ctx      Ctx
	Loc      Loc
	Expected Chain[string]
	Consumed bool
	Selected *Repair[T]
	Pending  *Repair[T]
}

// Ok returns a success ending at pos.
func Ok[T any](v T, pos int, ctx Ctx, consumed bool) Result[T] {
	return Result[T]{Kind: KindOk, Value: v, Pos: pos, Ctx: ctx, Loc: ctx.Loc, Consumed: consumed}
}

// Fail returns a failure at loc.
func Fail[T any](loc Loc, expected Chain[string], consumed bool) Result[T] {
	return Result[T]{Kind: KindError, Pos: loc.Pos, Loc: loc, Expected: expected, Consumed: consumed}
}

// Repaired returns a recovered result for the failure at loc. At least one
// of sel and pend must be non-nil.
func Repaired[T any](loc Loc, expected Chain[string], sel, pend *Repair[T]) Result[T] {
	if sel == nil && pend == nil {
		panic(programmerErrorf("recovered result at %s has no candidates", loc))
	}
	return Result[T]{
		Kind:     KindRecovered,
		Pos:      loc.Pos,
		Loc:      loc,
		Expected: expected,
		Consumed: true,
		Selected: sel,
		Pending:  pend,
	}
}

// Committed reports whether r must not be abandoned by an enclosing
// alternative: it is a consumed success or failure, or a recovery with
// at least one candidate that consumed input before its first repair.
func (r Result[T]) Committed() bool {
	if r.Kind != KindRecovered {
		return r.Consumed
	}
	return (r.Selected != nil && r.Selected.Consumed) || (r.Pending != nil && r.Pending.Consumed)
}

// open reports whether a repair or the result itself can still take
// expectations from the parsers that precede it.
func (r Result[T]) open() bool {
	if r.Kind != KindRecovered {
		return !r.Consumed
	}
	return (r.Selected != nil && !r.Selected.Consumed) || (r.Pending != nil && !r.Pending.Consumed)
}

// SetExpected replaces the expected set of an unconsumed outcome. For a
// recovered result it replaces the expected set of every open first
// repair.
func (r *Result[T]) SetExpected(e Chain[string]) {
	if r.open() {
		r.Expected = e
	}
	if r.Kind == KindRecovered {
		r.Selected = r.Selected.expect(e, false, false)
		r.Pending = r.Pending.expect(e, false, false)
	}
}

// PrependExpected adds e in front of the expected set of an unconsumed
// outcome and ORs consumed into its consumed flag. For a recovered result
// the same applies to each candidate and its open first repair, which is
// closed once consumed is set.
func (r *Result[T]) PrependExpected(e Chain[string], consumed bool) {
	if r.Kind == KindRecovered {
		if r.open() {
			r.Expected = Append(e, r.Expected)
		}
		r.Selected = r.Selected.expect(e, true, consumed)
		r.Pending = r.Pending.expect(e, true, consumed)
		return
	}
	if !r.Consumed {
		r.Expected = Append(e, r.Expected)
		r.Consumed = consumed
	}
}

// UpdateCtx applies f to the context of a success and of every
// candidate.
func (r *Result[T]) UpdateCtx(f func(Ctx) Ctx) {
	switch r.Kind {
	case KindOk:
		r.Ctx = f(r.Ctx)
	case KindRecovered:
		if r.Selected != nil {
			c := *r.Selected
			c.Ctx = f(c.Ctx)
			r.Selected = &c
		}
		if r.Pending != nil {
			c := *r.Pending
			c.Ctx = f(c.Ctx)
			r.Pending = &c
		}
	}
}

// MapResult applies f to the value of a success and of every candidate.
func MapResult[A, B any](r Result[A], f func(A) B) Result[B] {
	out := Result[B]{
		Kind:     r.Kind,
		Pos:      r.Pos,
		Ctx:      r.Ctx,
		Loc:      r.Loc,
		Expected: r.Expected,
		Consumed: r.Consumed,
		Selected: mapRepair(r.Selected, f),
		Pending:  mapRepair(r.Pending, f),
	}
	if r.Kind == KindOk {
		out.Value = f(r.Value)
	}
	return out
}

func failAs[B, A any](r Result[A]) Result[B] {
	return Fail[B](r.Loc, r.Expected, r.Consumed)
}
