// Package json is a JSON grammar over lexed tokens. Parsed values have
// the shapes encoding/json produces for an any: map[string]any, []any,
// string, float64, bool and nil.
package json

import (
	stdjson "encoding/json"
	"fmt"
	"strconv"

	"github.com/dhamidi/mend/lexer"
	"github.com/dhamidi/mend/parse"
)

// Token kinds.
const (
	Punct   = "punct"
	Keyword = "keyword"
	Number  = "number"
	String  = "string"
)

// Lexer splits JSON text into tokens, dropping white space.
var Lexer = lexer.MustNew(
	lexer.Rule{Kind: "space", Pattern: `[ \t\r\n]+`, Skip: true},
	lexer.Rule{Kind: Punct, Pattern: `[{}\[\]:,]`},
	lexer.Rule{Kind: Keyword, Pattern: `true|false|null`},
	lexer.Rule{Kind: Number, Pattern: `-?(?:0|[1-9][0-9]*)(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?`},
	lexer.Rule{Kind: String, Pattern: `"(?:[^"\\\x00-\x1f]|\\.)*"`},
)

// Missing is the value inserted where a value is expected but absent.
const Missing = float64(1)

var grammar = build()

// Grammar returns the parser for a complete JSON document.
func Grammar() parse.Parser[any] {
	return grammar
}

// Parse lexes and parses src.
func Parse(name string, src []byte, opts ...parse.Option) (*parse.ParseResult[any], error) {
	toks, err := Lexer.Tokenize(name, src)
	if err != nil {
		return nil, fmt.Errorf("tokenize %s: %w", name, err)
	}
	return parse.Parse(grammar, toks, opts...), nil
}

func punct(s string) parse.Parser[parse.Token] {
	return parse.Sym(parse.Tok(Punct, s))
}

func keyword(word string, v any) parse.Parser[any] {
	return parse.As(parse.Sym(parse.Tok(Keyword, word)), v)
}

func build() parse.Parser[any] {
	var value parse.Delay[any]
	ref := parse.Parser[any](&value)

	str := parse.Map(parse.OfKind(String), func(t parse.Token) string {
		return unquote(t.Value)
	})
	number := parse.Map(parse.OfKind(Number), func(t parse.Token) any {
		f, _ := strconv.ParseFloat(t.Value, 64)
		return f
	})

	member := parse.Seq(str, parse.SeqR(punct(":"), ref))
	object := parse.Map(
		parse.Between(punct("{"), punct("}"), parse.SepBy(member, punct(","))),
		func(ms []parse.Pair[string, any]) any {
			out := make(map[string]any, len(ms))
			for _, m := range ms {
				out[m.Left] = m.Right
			}
			return out
		})
	array := parse.Map(
		parse.Between(punct("["), punct("]"), parse.SepBy(ref, punct(","))),
		func(xs []any) any { return xs })

	value.Define(parse.InsertOnError(
		parse.Label(parse.Choice(
			object,
			array,
			parse.Map(str, func(s string) any { return s }),
			number,
			keyword("true", true),
			keyword("false", false),
			keyword("null", nil),
		), "value"),
		func(parse.Stream, int) any { return Missing },
		"value"))

	return parse.SeqL(ref, parse.Eof())
}

// unquote decodes a string token. The lexer accepts any escaped
// character, so invalid escapes fall back to the raw contents.
func unquote(lit string) string {
	var s string
	if err := stdjson.Unmarshal([]byte(lit), &s); err != nil {
		return lit[1 : len(lit)-1]
	}
	return s
}
