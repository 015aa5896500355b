package lexer

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/exp/ebnf"
)

// LiteralKind is the kind of tokens matched by a quoted string that
// appears in a syntactic production.
const LiteralKind = "literal"

// FromGrammar builds a lexer from g. Every lexical production, one whose
// name starts with an upper case letter, becomes a token kind of that
// name; every quoted string used by the other productions becomes a
// LiteralKind token. Literals win ties against productions, so keywords
// are not lexed as identifiers. Productions named in skip are dropped.
func FromGrammar(g ebnf.Grammar, skip ...string) *Lexer {
	l := &Lexer{}
	if lits := literals(g); len(lits) > 0 {
		l.kinds = append(l.kinds, kind{name: LiteralKind, match: func(src []byte, off int) int {
			best := 0
			for _, lit := range lits {
				if len(lit) > best && strings.HasPrefix(string(src[off:]), lit) {
					best = len(lit)
				}
			}
			return best
		}})
	}
	for _, name := range lexical(g) {
		l.kinds = append(l.kinds, kind{
			name: name,
			skip: slices.Contains(skip, name),
			match: func(src []byte, off int) int {
				m := &matcher{grammar: g, src: src, memo: map[memoKey]int{}, visiting: map[memoKey]bool{}}
				return m.name(name, off)
			},
		})
	}
	return l
}

// IsLexical reports whether a production name denotes a token kind.
func IsLexical(name string) bool {
	return name != "" && unicode.IsUpper(rune(name[0]))
}

func lexical(g ebnf.Grammar) []string {
	var names []string
	for name, prod := range g {
		if prod.Expr != nil && IsLexical(name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

func literals(g ebnf.Grammar) []string {
	seen := map[string]bool{}
	var walk func(ebnf.Expression)
	walk = func(expr ebnf.Expression) {
		switch e := expr.(type) {
		case *ebnf.Token:
			if e.String != "" {
				seen[e.String] = true
			}
		case ebnf.Sequence:
			for _, x := range e {
				walk(x)
			}
		case ebnf.Alternative:
			for _, x := range e {
				walk(x)
			}
		case *ebnf.Group:
			walk(e.Body)
		case *ebnf.Option:
			walk(e.Body)
		case *ebnf.Repetition:
			walk(e.Body)
		}
	}
	for name, prod := range g {
		if !IsLexical(name) && prod.Expr != nil {
			walk(prod.Expr)
		}
	}
	out := make([]string, 0, len(seen))
	for lit := range seen {
		out = append(out, lit)
	}
	slices.Sort(out)
	return out
}

type memoKey struct {
	name   string
	offset int
}

// matcher measures the longest match of a lexical production. memo and
// visiting are keyed by production and offset; visiting breaks left
// recursion.
type matcher struct {
	grammar  ebnf.Grammar
	src      []byte
	memo     map[memoKey]int
	visiting map[memoKey]bool
}

func (m *matcher) expr(expr ebnf.Expression, offset int) int {
	switch e := expr.(type) {
	case *ebnf.Token:
		if strings.HasPrefix(string(m.src[offset:]), e.String) {
			return len(e.String)
		}
		return 0
	case *ebnf.Range:
		if offset >= len(m.src) || len(e.Begin.String) != 1 || len(e.End.String) != 1 {
			return 0
		}
		if ch := m.src[offset]; ch >= e.Begin.String[0] && ch <= e.End.String[0] {
			return 1
		}
		return 0
	case ebnf.Sequence:
		total := 0
		for _, item := range e {
			n := m.expr(item, offset+total)
			if n == 0 && !nullable(item) {
				return 0
			}
			total += n
		}
		return total
	case ebnf.Alternative:
		best := 0
		for _, alt := range e {
			best = max(best, m.expr(alt, offset))
		}
		return best
	case *ebnf.Repetition:
		total := 0
		for {
			n := m.expr(e.Body, offset+total)
			if n == 0 {
				return total
			}
			total += n
		}
	case *ebnf.Option:
		return m.expr(e.Body, offset)
	case *ebnf.Group:
		return m.expr(e.Body, offset)
	case *ebnf.Name:
		return m.name(e.String, offset)
	}
	return 0
}

func (m *matcher) name(name string, offset int) int {
	key := memoKey{name: name, offset: offset}
	if n, ok := m.memo[key]; ok {
		return n
	}
	if m.visiting[key] {
		return 0
	}
	prod, ok := m.grammar[name]
	if !ok || prod.Expr == nil {
		m.memo[key] = 0
		return 0
	}
	m.visiting[key] = true
	n := m.expr(prod.Expr, offset)
	delete(m.visiting, key)
	m.memo[key] = n
	return n
}

func nullable(expr ebnf.Expression) bool {
	switch e := expr.(type) {
	case *ebnf.Option, *ebnf.Repetition:
		return true
	case *ebnf.Group:
		return nullable(e.Body)
	}
	return false
}
