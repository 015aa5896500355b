package parse

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/require"
)

// lex splits src on spaces. Digit runs become "num" tokens, everything
// else "sym" tokens, all on line 1.
func lex(src string) Tokens {
	var out Tokens
	off := 0
	for _, f := range strings.Fields(src) {
		start := off + strings.Index(src[off:], f)
		end := start + len(f)
		kind := "sym"
		if unicode.IsDigit(rune(f[0])) {
			kind = "num"
		}
		out = append(out, Token{
			Kind:  kind,
			Value: f,
			Start: Loc{Pos: start, Line: 1, Col: start},
			End:   Loc{Pos: end, Line: 1, Col: end},
		})
		off = end
	}
	return out
}

func sym(v string) Parser[Token] {
	return Sym(Tok("sym", v))
}

func values(ts []Token) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Value
	}
	return out
}

func requireProgrammerError(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		_, ok := r.(*ProgrammerError)
		require.True(t, ok, "expected *ProgrammerError, got %T: %v", r, r)
	}()
	f()
}
