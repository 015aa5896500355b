package ebnf

import (
	"errors"
	"fmt"
	"slices"
	"text/scanner"

	"github.com/dhamidi/mend/lexer"
	xebnf "golang.org/x/exp/ebnf"
)

// Check reports problems that keep src from being compiled for start:
// undefined productions, character ranges outside token productions,
// repetitions that can match nothing, and left recursion. All problems
// found are joined into one error.
func Check(src xebnf.Grammar, start string) error {
	prod, ok := src[start]
	if !ok {
		return fmt.Errorf("no start production %s", start)
	}
	if lexer.IsLexical(start) {
		return fmt.Errorf("%s: start production %s is a token", prod.Name.Pos(), start)
	}
	c := &checker{src: src, nullable: map[string]bool{}}
	names := syntactic(src, start)
	c.computeNullable(names)
	for _, name := range names {
		c.expr(src[name].Expr)
	}
	c.leftRecursion(names)
	return errors.Join(c.errs...)
}

type checker struct {
	src      xebnf.Grammar
	nullable map[string]bool
	errs     []error
}

func (c *checker) errorf(pos scanner.Position, format string, args ...any) {
	c.errs = append(c.errs, fmt.Errorf("%s: %s", pos, fmt.Sprintf(format, args...)))
}

func (c *checker) expr(expr xebnf.Expression) {
	switch e := expr.(type) {
	case *xebnf.Name:
		if _, ok := c.src[e.String]; !ok {
			c.errorf(e.Pos(), "undefined production %s", e.String)
		}
	case *xebnf.Range:
		c.errorf(e.Pos(), "character range outside a token production")
	case xebnf.Sequence:
		for _, x := range e {
			c.expr(x)
		}
	case xebnf.Alternative:
		for _, x := range e {
			c.expr(x)
		}
	case *xebnf.Group:
		c.expr(e.Body)
	case *xebnf.Option:
		c.expr(e.Body)
	case *xebnf.Repetition:
		if c.isNullable(e.Body) {
			c.errorf(e.Pos(), "repetition can match empty input")
		}
		c.expr(e.Body)
	}
}

func (c *checker) computeNullable(names []string) {
	for changed := true; changed; {
		changed = false
		for _, name := range names {
			if !c.nullable[name] && c.isNullable(c.src[name].Expr) {
				c.nullable[name] = true
				changed = true
			}
		}
	}
}

func (c *checker) isNullable(expr xebnf.Expression) bool {
	switch e := expr.(type) {
	case nil:
		return true
	case *xebnf.Name:
		return c.nullable[e.String]
	case xebnf.Sequence:
		for _, x := range e {
			if !c.isNullable(x) {
				return false
			}
		}
		return true
	case xebnf.Alternative:
		return slices.ContainsFunc(e, c.isNullable)
	case *xebnf.Group:
		return c.isNullable(e.Body)
	case *xebnf.Option, *xebnf.Repetition:
		return true
	}
	return false
}

// leftCalls lists the syntactic productions expr may enter without
// consuming a token.
func (c *checker) leftCalls(expr xebnf.Expression, out []string) []string {
	switch e := expr.(type) {
	case *xebnf.Name:
		if !lexer.IsLexical(e.String) {
			out = append(out, e.String)
		}
	case xebnf.Sequence:
		for _, x := range e {
			out = c.leftCalls(x, out)
			if !c.isNullable(x) {
				break
			}
		}
	case xebnf.Alternative:
		for _, x := range e {
			out = c.leftCalls(x, out)
		}
	case *xebnf.Group:
		out = c.leftCalls(e.Body, out)
	case *xebnf.Option:
		out = c.leftCalls(e.Body, out)
	case *xebnf.Repetition:
		out = c.leftCalls(e.Body, out)
	}
	return out
}

func (c *checker) leftRecursion(names []string) {
	const (
		unvisited = iota
		active
		done
	)
	state := map[string]int{}
	var visit func(name string, path []string)
	visit = func(name string, path []string) {
		switch state[name] {
		case active:
			i := slices.Index(path, name)
			cycle := append(slices.Clone(path[i:]), name)
			c.errorf(c.src[name].Name.Pos(), "left recursion %v", cycle)
			return
		case done:
			return
		}
		prod, ok := c.src[name]
		if !ok {
			return
		}
		state[name] = active
		for _, next := range c.leftCalls(prod.Expr, nil) {
			visit(next, append(path, name))
		}
		state[name] = done
	}
	for _, name := range names {
		visit(name, nil)
	}
}

// syntactic returns the syntactic productions reachable from start,
// sorted by name. Token productions are not followed.
func syntactic(src xebnf.Grammar, start string) []string {
	seen := map[string]bool{}
	var walk func(xebnf.Expression)
	visit := func(name string) {
		if seen[name] || lexer.IsLexical(name) {
			return
		}
		prod, ok := src[name]
		if !ok {
			return
		}
		seen[name] = true
		walk(prod.Expr)
	}
	walk = func(expr xebnf.Expression) {
		switch e := expr.(type) {
		case *xebnf.Name:
			visit(e.String)
		case xebnf.Sequence:
			for _, x := range e {
				walk(x)
			}
		case xebnf.Alternative:
			for _, x := range e {
				walk(x)
			}
		case *xebnf.Group:
			walk(e.Body)
		case *xebnf.Option:
			walk(e.Body)
		case *xebnf.Repetition:
			walk(e.Body)
		}
	}
	visit(start)
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
