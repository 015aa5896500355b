package lexer

import (
	"strings"
	"testing"

	"github.com/dhamidi/mend/parse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/ebnf"
)

func kindsAndValues(toks parse.Tokens) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Kind + ":" + t.Value
	}
	return out
}

func TestLexer_Rules(t *testing.T) {
	l := MustNew(
		Rule{Kind: "ws", Pattern: `\s+`, Skip: true},
		Rule{Kind: "keyword", Pattern: `if|else`},
		Rule{Kind: "ident", Pattern: `[a-z]+`},
		Rule{Kind: "num", Pattern: `[0-9]+`},
	)

	toks, err := l.Tokenize("test", []byte("if x1 elsewhere 2"))
	require.NoError(t, err)
	assert.Equal(t, []string{"keyword:if", "ident:x", "num:1", "ident:elsewhere", "num:2"}, kindsAndValues(toks))
}

func TestLexer_Positions(t *testing.T) {
	l := MustNew(
		Rule{Kind: "ws", Pattern: `\s+`, Skip: true},
		Rule{Kind: "word", Pattern: `\w+`},
	)

	toks, err := l.Tokenize("test", []byte("ab\n  cd\n\nef"))
	require.NoError(t, err)
	require.Len(t, toks, 3)

	assert.Equal(t, parse.Loc{Pos: 0, Line: 1, Col: 0}, toks[0].Start)
	assert.Equal(t, parse.Loc{Pos: 2, Line: 1, Col: 2}, toks[0].End)
	assert.Equal(t, parse.Loc{Pos: 5, Line: 2, Col: 2}, toks[1].Start)
	assert.Equal(t, parse.Loc{Pos: 9, Line: 4, Col: 0}, toks[2].Start)
}

func TestLexer_UnmatchedInput(t *testing.T) {
	l := MustNew(Rule{Kind: "num", Pattern: `[0-9]+`})

	toks, err := l.Tokenize("test", []byte("1é2"))
	require.NoError(t, err)
	assert.Equal(t, []string{"num:1", "ERROR:é", "num:2"}, kindsAndValues(toks))
}

func TestLexer_StrictUnmatchedInput(t *testing.T) {
	l := MustNew(
		Rule{Kind: "ws", Pattern: `\s+`, Skip: true},
		Rule{Kind: "num", Pattern: `[0-9]+`},
	)

	toks, err := l.Strict().Tokenize("test", []byte("1\n é2"))
	assert.Equal(t, []string{"num:1"}, kindsAndValues(toks))
	var lerr *Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, parse.Loc{Pos: 3, Line: 2, Col: 1}, lerr.Loc)
	assert.Equal(t, "é", lerr.Text)
	assert.EqualError(t, err, `test:2:1: no rule matches "é"`)

	toks, err = l.Tokenize("test", []byte("1\n é2"))
	require.NoError(t, err, "the original lexer is not strict")
	assert.Equal(t, []string{"num:1", "ERROR:é", "num:2"}, kindsAndValues(toks))
}

func TestLexer_BadRule(t *testing.T) {
	_, err := New(Rule{Kind: "broken", Pattern: `(`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule broken")
}

const exprGrammar = `
expr = term { ("+" | "-") term } .
term = Number | Identifier | "(" expr ")" | "let" .
Number = digit { digit } .
Identifier = letter { letter | digit } .
WhiteSpace = " " { " " } .
digit = "0" … "9" .
letter = "a" … "z" .
`

func TestFromGrammar(t *testing.T) {
	g, err := ebnf.Parse("expr.ebnf", strings.NewReader(exprGrammar))
	require.NoError(t, err)

	l := FromGrammar(g, "WhiteSpace")
	assert.True(t, l.Skips("WhiteSpace"))
	assert.Equal(t, []string{LiteralKind, "Identifier", "Number", "WhiteSpace"}, l.Kinds())

	toks, err := l.Tokenize("input", []byte("let (x1 + 42) - y"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"literal:let", "literal:(", "Identifier:x1", "literal:+", "Number:42",
		"literal:)", "literal:-", "Identifier:y",
	}, kindsAndValues(toks))
}
