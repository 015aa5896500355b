package parse

// Pair holds the values of two parsers run in sequence.
type Pair[A, B any] struct {
	Left  A
	Right B
}

// Map applies f to the value of p.
func Map[A, B any](p Parser[A], f func(A) B) Parser[B] {
	return Func[B](func(s Stream, pos int, ctx Ctx, rm bool) Result[B] {
		return MapResult(p.Parse(s, pos, ctx, rm), f)
	})
}

// As replaces the value of p with v.
func As[A, B any](p Parser[A], v B) Parser[B] {
	return Map(p, func(A) B { return v })
}

// Bind runs p and then the parser k returns for its value.
func Bind[A, B any](p Parser[A], k func(A) Parser[B]) Parser[B] {
	return Func[B](func(s Stream, pos int, ctx Ctx, rm bool) Result[B] {
		ra := p.Parse(s, pos, ctx, rm)
		switch ra.Kind {
		case KindError:
			return failAs[B](ra)
		case KindOk:
			rb := k(ra.Value).Parse(s, ra.Pos, ra.Ctx, rm || ra.Consumed)
			rb.PrependExpected(ra.Expected, ra.Consumed)
			return rb
		}
		return join(ra, k, s, func(_ A, b B) B { return b })
	})
}

// SeqWith runs p then q and combines their values with f. Once p has
// consumed input, q runs in recovery mode.
func SeqWith[A, B, C any](p Parser[A], q Parser[B], f func(A, B) C) Parser[C] {
	next := func(A) Parser[B] { return q }
	return Func[C](func(s Stream, pos int, ctx Ctx, rm bool) Result[C] {
		ra := p.Parse(s, pos, ctx, rm)
		switch ra.Kind {
		case KindError:
			return failAs[C](ra)
		case KindOk:
			rb := q.Parse(s, ra.Pos, ra.Ctx, rm || ra.Consumed)
			rc := MapResult(rb, func(b B) C { return f(ra.Value, b) })
			rc.PrependExpected(ra.Expected, ra.Consumed)
			return rc
		}
		return join(ra, next, s, f)
	})
}

// Seq runs p then q and pairs their values.
func Seq[A, B any](p Parser[A], q Parser[B]) Parser[Pair[A, B]] {
	return SeqWith(p, q, func(a A, b B) Pair[A, B] { return Pair[A, B]{a, b} })
}

// SeqL runs p then q and keeps the value of p.
func SeqL[A, B any](p Parser[A], q Parser[B]) Parser[A] {
	return SeqWith(p, q, func(a A, _ B) A { return a })
}

// SeqR runs p then q and keeps the value of q.
func SeqR[A, B any](p Parser[A], q Parser[B]) Parser[B] {
	return SeqWith(p, q, func(_ A, b B) B { return b })
}

// Alt tries p and, unless p succeeded or consumed input, q. When both fail
// without consuming input in recovery mode, the repairs of both are
// pooled; q wins ties.
func Alt[T any](p, q Parser[T]) Parser[T] {
	return Func[T](func(s Stream, pos int, ctx Ctx, rm bool) Result[T] {
		r1 := p.Parse(s, pos, ctx, false)
		if r1.Kind == KindOk || r1.Consumed {
			return r1
		}
		r2 := q.Parse(s, pos, ctx, false)
		if r2.Kind == KindOk || r2.Consumed {
			r2.PrependExpected(r1.Expected, false)
			return r2
		}
		expected := Append(r1.Expected, r2.Expected)
		loc := r1.Loc
		if r2.Loc.Pos > loc.Pos {
			loc = r2.Loc
		}
		if !rm {
			return Fail[T](loc, expected, false)
		}
		rr1 := p.Parse(s, pos, ctx, true)
		if rr1.Kind == KindOk || (rr1.Kind == KindRecovered && rr1.Committed()) {
			return rr1
		}
		rr2 := q.Parse(s, pos, ctx, true)
		if rr2.Kind == KindOk {
			return rr2
		}
		var cs candidates[T]
		cs.addResult(rr2)
		cs.addResult(rr1)
		if cs.empty() {
			return Fail[T](loc, expected, false)
		}
		out := cs.result(loc, expected)
		out.SetExpected(expected)
		return out
	})
}

// Attempt makes p backtrackable: a failure of p, or a recovery outside
// recovery mode, is reported as if no input had been consumed.
func Attempt[T any](p Parser[T]) Parser[T] {
	return Func[T](func(s Stream, pos int, ctx Ctx, rm bool) Result[T] {
		r := p.Parse(s, pos, ctx, rm)
		switch r.Kind {
		case KindError:
			r.Consumed = false
		case KindRecovered:
			if !rm {
				return Fail[T](r.Loc, r.Expected, false)
			}
			r.Selected = r.Selected.uncommit()
			r.Pending = r.Pending.uncommit()
		}
		return r
	})
}

// Label reports name as the only expectation of p when p fails or stops
// without consuming input.
func Label[T any](p Parser[T], name string) Parser[T] {
	expected := ChainOf(name)
	return Func[T](func(s Stream, pos int, ctx Ctx, rm bool) Result[T] {
		r := p.Parse(s, pos, ctx, rm)
		r.SetExpected(expected)
		return r
	})
}

// InsertOnError offers, in recovery mode, to insert the value mk builds
// when p fails without consuming input. The insertion is reported as
// label and wins ties against the repairs p offers itself.
func InsertOnError[T any](p Parser[T], mk func(s Stream, pos int) T, label string) Parser[T] {
	return Func[T](func(s Stream, pos int, ctx Ctx, rm bool) Result[T] {
		r := p.Parse(s, pos, ctx, false)
		if !rm || r.Kind != KindError || r.Consumed {
			return r
		}
		var cs candidates[T]
		cs.add(insertRepair(mk(s, pos), label, pos, ctx, r.Expected), false)
		cs.addResult(p.Parse(s, pos, ctx, true))
		if cs.empty() {
			return r
		}
		return cs.result(r.Loc, r.Expected)
	})
}
