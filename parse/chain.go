package parse

import "iter"

// Chain is an immutable sequence with constant time concatenation.
// The zero value is an empty chain. Chains share structure, so a chain
// must never be modified once built; realising it with All or Slice walks
// the underlying tree left to right.
type Chain[T any] struct {
	n *chainNode[T]
}

type chainNode[T any] struct {
	items       []T
	left, right *chainNode[T]
	size        int
}

// ChainOf returns a chain holding items. The slice is retained.
func ChainOf[T any](items ...T) Chain[T] {
	if len(items) == 0 {
		return Chain[T]{}
	}
	return Chain[T]{&chainNode[T]{items: items, size: len(items)}}
}

// Append returns the concatenation of a and b.
func Append[T any](a, b Chain[T]) Chain[T] {
	if a.n == nil {
		return b
	}
	if b.n == nil {
		return a
	}
	return Chain[T]{&chainNode[T]{left: a.n, right: b.n, size: a.n.size + b.n.size}}
}

// Cons returns x followed by c.
func Cons[T any](x T, c Chain[T]) Chain[T] {
	return Append(ChainOf(x), c)
}

// Len returns the number of items in c.
func (c Chain[T]) Len() int {
	if c.n == nil {
		return 0
	}
	return c.n.size
}

// IsEmpty reports whether c has no items.
func (c Chain[T]) IsEmpty() bool {
	return c.n == nil
}

// All iterates over the items of c in order.
func (c Chain[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if c.n == nil {
			return
		}
		stack := []*chainNode[T]{c.n}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if n.left != nil {
				stack = append(stack, n.right, n.left)
				continue
			}
			for _, item := range n.items {
				if !yield(item) {
					return
				}
			}
		}
	}
}

// Slice realises c into a new slice.
func (c Chain[T]) Slice() []T {
	out := make([]T, 0, c.Len())
	for item := range c.All() {
		out = append(out, item)
	}
	return out
}

// Unique realises c keeping the first occurrence of every item.
func Unique[T comparable](c Chain[T]) []T {
	seen := make(map[T]bool, c.Len())
	var out []T
	for item := range c.All() {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
