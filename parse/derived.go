package parse

// Maybe runs p or succeeds with the zero value.
func Maybe[T any](p Parser[T]) Parser[T] {
	var zero T
	return Alt(p, Pure(zero))
}

// Default runs p or succeeds with v.
func Default[T any](p Parser[T], v T) Parser[T] {
	return Alt(p, Pure(v))
}

// Optional runs p and reports whether it matched.
func Optional[T any](p Parser[T]) Parser[bool] {
	return Alt(As(p, true), Pure(false))
}

// SepBy1 parses one or more p separated by sep.
func SepBy1[T, S any](p Parser[T], sep Parser[S]) Parser[[]T] {
	return SeqWith(p, Many(SeqR(sep, p)), prepend[T])
}

// SepBy parses zero or more p separated by sep.
func SepBy[T, S any](p Parser[T], sep Parser[S]) Parser[[]T] {
	return Alt(SepBy1(p, sep), Pure([]T{}))
}

// Between parses open, p, close and keeps the value of p.
func Between[O, C, T any](open Parser[O], close Parser[C], p Parser[T]) Parser[T] {
	return SeqL(SeqR(open, p), close)
}

// Chainl1 parses one or more p separated by op and folds the values from
// the left.
func Chainl1[T any](p Parser[T], op Parser[func(T, T) T]) Parser[T] {
	return SeqWith(p, Many(Seq(op, p)), func(x T, rest []Pair[func(T, T) T, T]) T {
		for _, r := range rest {
			x = r.Left(x, r.Right)
		}
		return x
	})
}

// Chainr1 parses one or more p separated by op and folds the values from
// the right.
func Chainr1[T any](p Parser[T], op Parser[func(T, T) T]) Parser[T] {
	return SeqWith(p, Many(Seq(op, p)), func(x T, rest []Pair[func(T, T) T, T]) T {
		if len(rest) == 0 {
			return x
		}
		acc := rest[len(rest)-1].Right
		for i := len(rest) - 1; i > 0; i-- {
			acc = rest[i].Left(rest[i-1].Right, acc)
		}
		return rest[0].Left(x, acc)
	})
}

// Choice tries each parser in turn, as nested Alt.
func Choice[T any](ps ...Parser[T]) Parser[T] {
	switch len(ps) {
	case 0:
		return Never[T]("nothing")
	case 1:
		return ps[0]
	}
	return Alt(ps[0], Choice(ps[1:]...))
}

// Sequence runs every parser in order and collects the values.
func Sequence[T any](ps ...Parser[T]) Parser[[]T] {
	if len(ps) == 0 {
		return Pure([]T{})
	}
	return SeqWith(ps[0], Sequence(ps[1:]...), prepend[T])
}
