// Package expr is an integer arithmetic grammar with the usual
// precedence: * and / bind tighter than + and -, all left associative.
package expr

import (
	"fmt"
	"strconv"

	"github.com/dhamidi/mend/lexer"
	"github.com/dhamidi/mend/parse"
)

// Lexer splits arithmetic text into number and op tokens.
var Lexer = lexer.MustNew(
	lexer.Rule{Kind: "space", Pattern: `\s+`, Skip: true},
	lexer.Rule{Kind: "number", Pattern: `[0-9]+`},
	lexer.Rule{Kind: "op", Pattern: `[-+*/()]`},
)

var grammar = build()

// Grammar returns the parser for a complete expression.
func Grammar() parse.Parser[int] {
	return grammar
}

// Parse lexes and evaluates src.
func Parse(name string, src []byte, opts ...parse.Option) (*parse.ParseResult[int], error) {
	toks, err := Lexer.Tokenize(name, src)
	if err != nil {
		return nil, fmt.Errorf("tokenize %s: %w", name, err)
	}
	return parse.Parse(grammar, toks, opts...), nil
}

func op(s string) parse.Parser[parse.Token] {
	return parse.Sym(parse.Tok("op", s))
}

func binop(s string, f func(a, b int) int) parse.Parser[func(int, int) int] {
	return parse.As(op(s), f)
}

func build() parse.Parser[int] {
	var expr parse.Delay[int]

	number := parse.Map(parse.OfKind("number"), func(t parse.Token) int {
		n, _ := strconv.Atoi(t.Value)
		return n
	})
	// A missing operand is read as 0.
	factor := parse.InsertOnError(
		parse.Choice(number, parse.Between(op("("), op(")"), parse.Parser[int](&expr))),
		func(parse.Stream, int) int { return 0 },
		"number")

	mulop := parse.Choice(
		binop("*", func(a, b int) int { return a * b }),
		binop("/", func(a, b int) int {
			if b == 0 {
				return 0
			}
			return a / b
		}),
	)
	addop := parse.Choice(
		binop("+", func(a, b int) int { return a + b }),
		binop("-", func(a, b int) int { return a - b }),
	)

	term := parse.Chainl1(factor, mulop)
	expr.Define(parse.Chainl1(term, addop))
	return parse.SeqL(parse.Parser[int](&expr), parse.Eof())
}
