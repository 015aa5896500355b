// Package ebnf compiles EBNF grammars, as read by golang.org/x/exp/ebnf,
// into recovering parsers that build concrete syntax trees.
//
// Productions whose name starts with an upper case letter describe tokens
// and are handled by the lexer; all other productions reachable from the
// start production become parsers. Quoted strings in those productions
// match literal tokens.
package ebnf

import (
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/mend/lexer"
	"github.com/dhamidi/mend/parse"
	xebnf "golang.org/x/exp/ebnf"
)

// Grammar is a compiled EBNF grammar.
type Grammar struct {
	Start  string
	Skip   []string
	source xebnf.Grammar
	lexer  *lexer.Lexer
	prods  map[string]*parse.Delay[*Node]
	parser parse.Parser[*Node]
}

// LoadFile reads and compiles the grammar in filename.
func LoadFile(filename, start string, skip ...string) (*Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()
	return Load(filename, f, start, skip...)
}

// Load reads and compiles a grammar.
func Load(filename string, r io.Reader, start string, skip ...string) (*Grammar, error) {
	src, err := xebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return Compile(src, start, skip...)
}

// Compile checks src and builds the parser for start. Token kinds named
// in skip, typically white space and comments, are dropped by the lexer.
func Compile(src xebnf.Grammar, start string, skip ...string) (*Grammar, error) {
	if err := Check(src, start); err != nil {
		return nil, err
	}
	g := &Grammar{
		Start:  start,
		Skip:   skip,
		source: src,
		lexer:  lexer.FromGrammar(src, skip...),
		prods:  map[string]*parse.Delay[*Node]{},
	}
	names := syntactic(src, start)
	for _, name := range names {
		g.prods[name] = &parse.Delay[*Node]{}
	}
	for _, name := range names {
		body := g.compile(src[name].Expr)
		g.prods[name].Define(parse.Label(parse.Map(body, func(children []*Node) *Node {
			n := NewNonTerminal(name)
			for _, c := range children {
				n.AddChild(c)
			}
			return n
		}), name))
	}
	g.parser = parse.SeqL(parse.Parser[*Node](g.prods[start]), parse.Eof())
	return g, nil
}

// Lexer returns the lexer for the grammar's tokens.
func (g *Grammar) Lexer() *lexer.Lexer {
	return g.lexer
}

// Parser returns the parser for a complete input.
func (g *Grammar) Parser() parse.Parser[*Node] {
	return g.parser
}

// Production returns the parser for a single syntactic production.
func (g *Grammar) Production(name string) (parse.Parser[*Node], bool) {
	d, ok := g.prods[name]
	if !ok {
		return nil, false
	}
	return d, true
}

// Parse lexes and parses src.
func (g *Grammar) Parse(name string, src []byte, opts ...parse.Option) (*parse.ParseResult[*Node], error) {
	toks, err := g.lexer.Tokenize(name, src)
	if err != nil {
		return nil, fmt.Errorf("tokenize %s: %w", name, err)
	}
	return parse.Parse(g.parser, toks, opts...), nil
}

type children = parse.Parser[[]*Node]

func (g *Grammar) compile(expr xebnf.Expression) children {
	switch e := expr.(type) {
	case nil:
		return parse.Pure([]*Node{})
	case *xebnf.Token:
		return leaf(parse.Sym(parse.Tok(lexer.LiteralKind, e.String)))
	case *xebnf.Name:
		if lexer.IsLexical(e.String) {
			kind := e.String
			missing := func(s parse.Stream, pos int) parse.Token {
				loc := parse.StreamLoc(parse.Loc{}, s, pos)
				return parse.Token{Kind: kind, Start: loc, End: loc}
			}
			return leaf(parse.InsertOnError(parse.OfKind(kind), missing, kind))
		}
		name := e.String
		missing := func(s parse.Stream, pos int) *Node {
			return NewError("missing "+name, parse.StreamLoc(parse.Loc{}, s, pos))
		}
		return single(parse.InsertOnError(parse.Parser[*Node](g.prods[name]), missing, name))
	case xebnf.Sequence:
		p := parse.Pure([]*Node{})
		for i := len(e) - 1; i >= 0; i-- {
			p = parse.SeqWith(g.compile(e[i]), p, concat)
		}
		return p
	case xebnf.Alternative:
		alts := make([]children, len(e))
		for i, x := range e {
			alts[i] = g.compile(x)
			if i < len(e)-1 {
				alts[i] = parse.Attempt(alts[i])
			}
		}
		return parse.Choice(alts...)
	case *xebnf.Group:
		return g.compile(e.Body)
	case *xebnf.Option:
		return parse.Default(g.compile(e.Body), []*Node{})
	case *xebnf.Repetition:
		return parse.Map(parse.Many(g.compile(e.Body)), func(xs [][]*Node) []*Node {
			var out []*Node
			for _, x := range xs {
				out = append(out, x...)
			}
			return out
		})
	}
	panic(fmt.Sprintf("ebnf: unexpected expression %T", expr))
}

func leaf(p parse.Parser[parse.Token]) children {
	return parse.Map(p, func(t parse.Token) []*Node { return []*Node{NewTerminal(t)} })
}

func single(p parse.Parser[*Node]) children {
	return parse.Map(p, func(n *Node) []*Node { return []*Node{n} })
}

func concat(a, b []*Node) []*Node {
	out := make([]*Node, 0, len(a)+len(b))
	return append(append(out, a...), b...)
}
