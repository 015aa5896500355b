package parse

var expectIndentation = ChainOf("indentation")

// Block runs p with the layout anchor set to the current column and
// restores the enclosing anchor afterwards.
func Block[T any](p Parser[T]) Parser[T] {
	return Func[T](func(s Stream, pos int, ctx Ctx, rm bool) Result[T] {
		ctx = ctx.Update(s, pos)
		return withAnchor(p, s, pos, ctx, rm, ctx.Loc.Col)
	})
}

// Same runs p only when the current column equals the anchor.
func Same[T any](p Parser[T]) Parser[T] {
	return Func[T](func(s Stream, pos int, ctx Ctx, rm bool) Result[T] {
		if ctx.Loc.Col != ctx.Anchor {
			return Fail[T](ctx.Loc, expectIndentation, false)
		}
		return p.Parse(s, pos, ctx, rm)
	})
}

// Indented runs p only when the current column is delta past the anchor,
// with the anchor moved to that column.
func Indented[T any](delta int, p Parser[T]) Parser[T] {
	return Func[T](func(s Stream, pos int, ctx Ctx, rm bool) Result[T] {
		if ctx.Loc.Col != ctx.Anchor+delta {
			return Fail[T](ctx.Loc, expectIndentation, false)
		}
		return withAnchor(p, s, pos, ctx, rm, ctx.Loc.Col)
	})
}

func withAnchor[T any](p Parser[T], s Stream, pos int, ctx Ctx, rm bool, col int) Result[T] {
	outer := ctx.Anchor
	r := p.Parse(s, pos, ctx.WithAnchor(col), rm)
	r.UpdateCtx(func(c Ctx) Ctx { return c.WithAnchor(outer) })
	return r
}
