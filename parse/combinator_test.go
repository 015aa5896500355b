package parse

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func num() Parser[int] {
	return Map(OfKind("num"), func(t Token) int {
		n, _ := strconv.Atoi(t.Value)
		return n
	})
}

func TestSeq_Values(t *testing.T) {
	s := lex("a 1")
	r := Seq(sym("a"), num()).Parse(s, 0, NewCtx(s, nil), false)

	require.Equal(t, KindOk, r.Kind)
	assert.Equal(t, "a", r.Value.Left.Value)
	assert.Equal(t, 1, r.Value.Right)
	assert.Equal(t, 2, r.Pos)
}

func TestSeq_ExpectedFromUnconsumedPrefix(t *testing.T) {
	s := lex("c")
	r := Seq(Maybe(sym("a")), sym("b")).Parse(s, 0, NewCtx(s, nil), false)

	require.Equal(t, KindError, r.Kind)
	assert.False(t, r.Consumed)
	assert.Equal(t, []string{"'a'", "'b'"}, Unique(r.Expected))
}

func TestSeq_RecoversAfterConsuming(t *testing.T) {
	s := lex("a c")
	g := Sequence(sym("a"), sym("b"), sym("c"))
	r := g.Parse(s, 0, NewCtx(s, nil), false)

	require.Equal(t, KindRecovered, r.Kind)
	require.NotNil(t, r.Pending)
	assert.Nil(t, r.Selected)
	assert.Equal(t, []string{"a", "b", "c"}, values(r.Pending.Value))
	assert.True(t, r.Pending.Consumed)
}

func TestAlt_CommitsAfterConsuming(t *testing.T) {
	s := lex("a c")
	g := Alt(SeqR(sym("a"), sym("b")), SeqR(sym("a"), sym("c")))

	pr := Parse(g, s)
	assert.Equal(t, KindRecovered, pr.Result.Kind)

	pr = Parse(Alt(Attempt(SeqR(sym("a"), sym("b"))), SeqR(sym("a"), sym("c"))), s)
	require.Equal(t, KindOk, pr.Result.Kind)
	assert.Equal(t, "c", pr.Result.Value.Value)
}

func TestAlt_MergesExpected(t *testing.T) {
	s := lex("c")
	r := Alt(sym("a"), sym("b")).Parse(s, 0, NewCtx(s, nil), false)

	require.Equal(t, KindError, r.Kind)
	assert.False(t, r.Consumed)
	assert.Equal(t, []string{"'a'", "'b'"}, Unique(r.Expected))
}

func TestAlt_SecondBranchKeepsFirstExpected(t *testing.T) {
	s := lex("c")
	r := Alt(sym("a"), Pure(Tok("sym", "none"))).Parse(s, 0, NewCtx(s, nil), false)

	require.Equal(t, KindOk, r.Kind)
	assert.Equal(t, []string{"'a'"}, Unique(r.Expected))
}

func TestAlt_RecoveryPoolsCandidates(t *testing.T) {
	s := lex("x b")
	r := Alt(sym("a"), sym("b")).Parse(s, 0, NewCtx(s, nil), true)

	require.Equal(t, KindRecovered, r.Kind)
	require.NotNil(t, r.Selected)
	assert.Equal(t, "b", r.Selected.Value.Value)
	require.NotNil(t, r.Pending)
	assert.Equal(t, Insert("'b'"), r.Pending.First.Op, "second branch wins ties")
	assert.Equal(t, []string{"'a'", "'b'"}, Unique(r.Pending.First.Expected))
}

func TestAttempt(t *testing.T) {
	s := lex("a c")
	g := Attempt(SeqR(sym("a"), sym("b")))

	r := g.Parse(s, 0, NewCtx(s, nil), false)
	require.Equal(t, KindError, r.Kind)
	assert.False(t, r.Consumed)

	r = g.Parse(s, 0, NewCtx(s, nil), true)
	require.Equal(t, KindRecovered, r.Kind)
	assert.False(t, r.Committed())
}

func TestLabel(t *testing.T) {
	s := lex("c")
	r := Label(Alt(sym("a"), sym("b")), "letter").Parse(s, 0, NewCtx(s, nil), false)

	require.Equal(t, KindError, r.Kind)
	assert.Equal(t, []string{"letter"}, Unique(r.Expected))
}

func TestLabel_KeepsConsumedRepairs(t *testing.T) {
	s := lex("a c")
	pr := Parse(Label(SeqR(sym("a"), sym("b")), "pair"), s)

	require.Equal(t, KindRecovered, pr.Result.Kind)
	diags := pr.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, []string{"'b'"}, diags[0].Expected)
}

func TestBind(t *testing.T) {
	s := lex("2 a a")
	g := Bind(num(), func(n int) Parser[[]Token] {
		ps := make([]Parser[Token], n)
		for i := range ps {
			ps[i] = sym("a")
		}
		return Sequence(ps...)
	})

	r := g.Parse(s, 0, NewCtx(s, nil), false)
	require.Equal(t, KindOk, r.Kind)
	assert.Equal(t, []string{"a", "a"}, values(r.Value))
}

func TestInsertOnError(t *testing.T) {
	s := lex("]")
	g := InsertOnError(num(), func(Stream, int) int { return 0 }, "number")

	r := g.Parse(s, 0, NewCtx(s, nil), false)
	require.Equal(t, KindError, r.Kind)

	r = g.Parse(s, 0, NewCtx(s, nil), true)
	require.Equal(t, KindRecovered, r.Kind)
	require.NotNil(t, r.Pending)
	assert.Equal(t, 0, r.Pending.Value)
	assert.Equal(t, Insert("number"), r.Pending.First.Op)
}

func TestDelay(t *testing.T) {
	var d Delay[Token]
	s := lex("a")
	requireProgrammerError(t, func() { d.Parse(s, 0, NewCtx(s, nil), false) })

	d.Define(sym("a"))
	r := d.Parse(s, 0, NewCtx(s, nil), false)
	assert.Equal(t, KindOk, r.Kind)

	requireProgrammerError(t, func() { d.Define(sym("b")) })
}

func TestMaybe_Default_Optional(t *testing.T) {
	s := lex("b")
	ctx := NewCtx(s, nil)

	r := Maybe(num()).Parse(s, 0, ctx, false)
	require.Equal(t, KindOk, r.Kind)
	assert.Equal(t, 0, r.Value)

	r = Default(num(), 7).Parse(s, 0, ctx, false)
	require.Equal(t, KindOk, r.Kind)
	assert.Equal(t, 7, r.Value)

	rb := Optional(sym("b")).Parse(s, 0, ctx, false)
	require.Equal(t, KindOk, rb.Kind)
	assert.True(t, rb.Value)
}

func TestSepBy_Between(t *testing.T) {
	g := Between(sym("["), sym("]"), SepBy(num(), sym(",")))

	tests := []struct {
		src  string
		want []int
	}{
		{"[ ]", []int{}},
		{"[ 1 ]", []int{1}},
		{"[ 1 , 2 , 3 ]", []int{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			v, err := Parse(g, lex(tt.src)).Unwrap(false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestChain_Folds(t *testing.T) {
	sub := As(sym("-"), func(a, b int) int { return a - b })
	s := lex("1 - 2 - 3")

	v, err := Parse(Chainl1(num(), sub), s).Unwrap(false)
	require.NoError(t, err)
	assert.Equal(t, -4, v)

	v, err = Parse(Chainr1(num(), sub), s).Unwrap(false)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	v, err = Parse(Chainr1(num(), sub), lex("5")).Unwrap(false)
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestChoice(t *testing.T) {
	g := Choice(sym("a"), sym("b"), sym("c"))

	v, err := Parse(g, lex("c")).Unwrap(false)
	require.NoError(t, err)
	assert.Equal(t, "c", v.Value)

	_, err = Parse(g, lex("d")).Unwrap(false)
	require.EqualError(t, err, "at 1:0: expected 'a', 'b', or 'c'")
}
