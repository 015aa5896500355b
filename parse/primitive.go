package parse

// Pure succeeds with v without consuming input.
func Pure[T any](v T) Parser[T] {
	return Func[T](func(_ Stream, pos int, ctx Ctx, _ bool) Result[T] {
		return Ok(v, pos, ctx, false)
	})
}

// Never fails without consuming input, expecting label.
func Never[T any](label string) Parser[T] {
	expected := ChainOf(label)
	return Func[T](func(_ Stream, _ int, ctx Ctx, _ bool) Result[T] {
		return Fail[T](ctx.Loc, expected, false)
	})
}

// Here succeeds with the current context without consuming input.
func Here() Parser[Ctx] {
	return Func[Ctx](func(_ Stream, pos int, ctx Ctx, _ bool) Result[Ctx] {
		return Ok(ctx, pos, ctx, false)
	})
}

// Satisfy accepts one item for which pred holds. On failure in recovery
// mode it offers to skip ahead to the next such item. The stream must
// implement Indexed[E].
func Satisfy[E any](pred func(E) bool) Parser[E] {
	return item(pred, Chain[string]{}, nil)
}

// Sym accepts a token equal to t. In recovery mode it offers to skip to
// the next such token and to insert t in place.
func Sym(t Token) Parser[Token] {
	label := "'" + t.Value + "'"
	if t.Value == "" {
		label = t.Kind
	}
	return item(t.Equal, ChainOf(label), func(ctx Ctx) (Token, string) {
		ins := t
		ins.Start, ins.End = ctx.Loc, ctx.Loc
		return ins, label
	})
}

// OfKind accepts any token of the given kind, expecting kind by name.
func OfKind(kind string) Parser[Token] {
	return item(func(t Token) bool { return t.Kind == kind }, ChainOf(kind), nil)
}

// Eof succeeds at the end of input. In recovery mode it offers to skip
// everything that remains.
func Eof() Parser[struct{}] {
	expected := ChainOf("end of input")
	return Func[struct{}](func(s Stream, pos int, ctx Ctx, rm bool) Result[struct{}] {
		n := s.Len()
		if pos >= n {
			return Ok(struct{}{}, pos, ctx, false)
		}
		if !rm {
			return Fail[struct{}](ctx.Loc, expected, false)
		}
		sel := skipRepair(struct{}{}, pos, n, n, ctx, s, expected)
		return Repaired(ctx.Loc, expected, sel, nil)
	})
}

// item is the single item primitive behind Satisfy and Sym. insert, when
// set, makes the item insertable.
func item[E any](pred func(E) bool, expected Chain[string], insert func(Ctx) (E, string)) Parser[E] {
	return Func[E](func(s Stream, pos int, ctx Ctx, rm bool) Result[E] {
		in := indexed[E](s, "satisfy")
		n := in.Len()
		if pos < n {
			if e := in.At(pos); pred(e) {
				return Ok(e, pos+1, ctx.Update(s, pos+1), true)
			}
		}
		if !rm {
			return Fail[E](ctx.Loc, expected, false)
		}
		var sel, pend *Repair[E]
		for cur := pos + 1; cur < n; cur++ {
			if e := in.At(cur); pred(e) {
				sel = skipRepair(e, pos, cur, cur+1, ctx, s, expected)
				break
			}
		}
		if insert != nil {
			v, label := insert(ctx)
			pend = insertRepair(v, label, pos, ctx, expected)
		}
		if sel == nil && pend == nil {
			return Fail[E](ctx.Loc, expected, false)
		}
		return Repaired(ctx.Loc, expected, sel, pend)
	})
}
