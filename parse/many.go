package parse

import "slices"

// Many runs p until it fails without consuming input and collects the
// values. p must consume input whenever it succeeds; Many panics with a
// ProgrammerError otherwise.
func Many[T any](p Parser[T]) Parser[[]T] {
	var many Parser[[]T]
	rest := func(T) Parser[[]T] { return many }
	many = Func[[]T](func(s Stream, pos int, ctx Ctx, rm bool) Result[[]T] {
		var acc []T
		consumed := false
		for {
			r := p.Parse(s, pos, ctx, false)
			switch r.Kind {
			case KindOk:
				if !r.Consumed {
					panic(programmerErrorf("many: parser succeeded without consuming input at %s", ctx.Loc))
				}
				acc = append(acc, r.Value)
				pos, ctx, consumed = r.Pos, r.Ctx, true
			case KindError:
				if r.Consumed {
					return failAs[[]T](r)
				}
				out := Ok(acc, pos, ctx, consumed)
				if out.Value == nil {
					out.Value = []T{}
				}
				out.Expected = r.Expected
				return out
			default:
				head := acc
				return join(r, rest, s, func(v T, tail []T) []T {
					return slices.Concat(head, []T{v}, tail)
				})
			}
		}
	})
	return many
}

// Many1 is like Many but requires at least one value.
func Many1[T any](p Parser[T]) Parser[[]T] {
	return SeqWith(p, Many(p), prepend[T])
}

func prepend[T any](x T, xs []T) []T {
	return slices.Concat([]T{x}, xs)
}
