package parse

// join continues every candidate of the recovered result r with the
// parser next returns for its value, in recovery mode. f combines the
// two values. Candidates that cannot be continued are dropped; when none
// survive the recovery collapses into a consumed failure at r's location.
func join[A, B, C any](r Result[A], next func(A) Parser[B], s Stream, f func(A, B) C) Result[C] {
	var cs candidates[C]
	for _, c := range [...]struct {
		rp   *Repair[A]
		skip bool
	}{{r.Selected, true}, {r.Pending, false}} {
		if c.rp == nil {
			continue
		}
		rb := next(c.rp.Value).Parse(s, c.rp.Pos, c.rp.Ctx, true)
		switch rb.Kind {
		case KindOk:
			cs.add(extend(c.rp, rb, f), c.skip)
		case KindRecovered:
			if rb.Selected != nil {
				cs.add(compose(c.rp, c.skip, rb.Selected, true, f))
			}
			if rb.Pending != nil {
				cs.add(compose(c.rp, c.skip, rb.Pending, false, f))
			}
		}
	}
	if cs.empty() {
		return Fail[C](r.Loc, r.Expected, true)
	}
	return cs.result(r.Loc, r.Expected)
}

// extend moves candidate rp past a plain success of the following parser.
func extend[A, B, C any](rp *Repair[A], ok Result[B], f func(A, B) C) *Repair[C] {
	expected := ok.Expected
	if !ok.Consumed {
		expected = Append(rp.Expected, ok.Expected)
	}
	return &Repair[C]{
		Cost:       rp.Cost,
		Value:      f(rp.Value, ok.Value),
		Pos:        ok.Pos,
		Ctx:        ok.Ctx,
		Expected:   expected,
		Consumed:   rp.Consumed,
		Selected:   rp.Selected,
		PrefixCost: rp.PrefixCost,
		SuffixCost: rp.SuffixCost,
		First:      rp.First,
		Rest:       rp.Rest,
	}
}

// compose chains candidate rp with a candidate c of the following parser.
// A skip on the left keeps ranking by the left skip; otherwise the right
// skip, if any, decides. The second result tells whether the composed
// candidate is a skip.
func compose[A, B, C any](rp *Repair[A], skip bool, c *Repair[B], cskip bool, f func(A, B) C) (*Repair[C], bool) {
	c = c.expect(rp.Expected, true, true)
	ctx := c.Ctx
	if c.Pos == rp.Pos {
		// The insertions c made at this position are complete; only the
		// ones rp still builds on count against the budget.
		ctx = ctx.insertsOf(rp.Ctx)
	}
	out := &Repair[C]{
		Cost:     rp.Cost + c.Cost,
		Value:    f(rp.Value, c.Value),
		Pos:      c.Pos,
		Ctx:      ctx,
		Expected: c.Expected,
		Consumed: rp.Consumed,
		First:    rp.First,
		Rest:     Append(rp.Rest, Cons(c.First.closed(), c.Rest)),
	}
	switch {
	case skip:
		out.Selected = rp.Selected
		out.PrefixCost = rp.PrefixCost
		out.SuffixCost = rp.SuffixCost + c.Cost
	case cskip:
		out.Selected = c.Selected
		out.PrefixCost = rp.Cost + c.PrefixCost
		out.SuffixCost = c.SuffixCost
	}
	return out, skip || cskip
}
