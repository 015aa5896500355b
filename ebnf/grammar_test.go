package ebnf

import (
	"strings"
	"testing"

	"github.com/dhamidi/mend/parse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xebnf "golang.org/x/exp/ebnf"
)

const calc = `
expr = term { ("+" | "-") term } .
term = Number | "(" expr ")" .
Number = digit { digit } .
WhiteSpace = " " { " " } .
digit = "0" … "9" .
`

func load(t *testing.T, src, start string) *Grammar {
	t.Helper()
	g, err := Load("test.ebnf", strings.NewReader(src), start, "WhiteSpace")
	require.NoError(t, err)
	return g
}

func TestGrammar_Parse(t *testing.T) {
	g := load(t, calc, "expr")

	pr, err := g.Parse("input", []byte("1 + (2 - 3)"))
	require.NoError(t, err)
	tree, err := pr.Unwrap(false)
	require.NoError(t, err)

	assert.Equal(t,
		`(expr (term Number:"1") literal:"+" (term literal:"(" (expr (term Number:"2") literal:"-" (term Number:"3")) literal:")"))`,
		tree.String())
	assert.Equal(t, parse.Loc{Pos: 0, Line: 1, Col: 0}, tree.Span.Start)
	assert.Equal(t, parse.Loc{Pos: 11, Line: 1, Col: 11}, tree.Span.End)
	assert.Empty(t, tree.Errors())
}

func TestGrammar_RecoversMissingToken(t *testing.T) {
	g := load(t, calc, "expr")

	pr, err := g.Parse("input", []byte("(1 + 2"))
	require.NoError(t, err)

	_, err = pr.Unwrap(false)
	require.EqualError(t, err, "at 1:6: expected '+', '-', or ')' (inserted ')')")

	tree, err := pr.Unwrap(true)
	require.NoError(t, err)
	errs := tree.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "missing ')'", errs[0].Error)
}

func TestGrammar_RecoversExtraToken(t *testing.T) {
	g := load(t, calc, "expr")

	pr, err := g.Parse("input", []byte("1 + + 2"))
	require.NoError(t, err)

	_, err = pr.Unwrap(false)
	require.EqualError(t, err, "at 1:4: expected term (skipped 1 token)")

	tree, err := pr.Unwrap(true)
	require.NoError(t, err)
	assert.Equal(t, `(expr (term Number:"1") literal:"+" (term Number:"2"))`, tree.String())
}

func TestGrammar_Production(t *testing.T) {
	g := load(t, calc, "expr")

	p, ok := g.Production("term")
	require.True(t, ok)
	toks, err := g.Lexer().Tokenize("input", []byte("42"))
	require.NoError(t, err)
	n, err := parse.Parse(p, toks).Unwrap(false)
	require.NoError(t, err)
	assert.Equal(t, "42", n.Text())

	_, ok = g.Production("Number")
	assert.False(t, ok)
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		start string
		want  string
	}{
		{"missing start", `a = "x" .`, "b", "no start production b"},
		{"token start", `A = "x" .`, "A", "is a token"},
		{"undefined", `a = b .`, "a", "undefined production b"},
		{"range", `a = "0" … "9" .`, "a", "character range outside a token production"},
		{"empty repetition", `a = { [ "x" ] } .`, "a", "repetition can match empty input"},
		{"left recursion", `a = b "x" | "y" . b = [ "z" ] a .`, "a", "left recursion [a b a]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := xebnf.Parse("test.ebnf", strings.NewReader(tt.src))
			require.NoError(t, err)
			err = Check(src, tt.start)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCheck_Valid(t *testing.T) {
	src, err := xebnf.Parse("test.ebnf", strings.NewReader(calc))
	require.NoError(t, err)
	assert.NoError(t, Check(src, "expr"))
}

func TestNode_AddChild(t *testing.T) {
	n := NewNonTerminal("pair")
	a := NewTerminal(parse.Token{Kind: "Number", Value: "1", Start: parse.Loc{Pos: 0, Line: 1}, End: parse.Loc{Pos: 1, Line: 1, Col: 1}})
	b := NewTerminal(parse.Token{Kind: "Number", Value: "2", Start: parse.Loc{Pos: 2, Line: 1, Col: 2}, End: parse.Loc{Pos: 3, Line: 1, Col: 3}})
	n.AddChild(a)
	n.AddChild(nil)
	n.AddChild(b)

	assert.Len(t, n.Children, 2)
	assert.Equal(t, a.Span.Start, n.Span.Start)
	assert.Equal(t, b.Span.End, n.Span.End)
	assert.Equal(t, "1 2", n.Text())
	assert.False(t, a.IsError())
	assert.True(t, a.IsTerminal())

	missing := NewTerminal(parse.Token{Kind: "Number", Start: b.Span.End, End: b.Span.End})
	assert.True(t, missing.IsError())
	assert.Equal(t, "missing Number", missing.Error)

	e := NewError("missing term", parse.Loc{Pos: 3})
	assert.True(t, e.IsError())
	assert.Equal(t, "(ERROR)", e.String())
}
