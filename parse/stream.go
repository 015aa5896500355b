package parse

import (
	"fmt"
	"strings"
)

// Stream is an indexable input. Positions run from 0 to Len().
type Stream interface {
	Len() int
}

// Indexed is a Stream whose items can be read by position.
type Indexed[E any] interface {
	Stream
	At(i int) E
}

// Locator is implemented by streams that can map a position to a source
// location. prev is the location most recently computed for the same
// stream and may be used to avoid rescanning.
type Locator interface {
	Loc(prev Loc, pos int) Loc
}

// Token is a lexical item. Two tokens are equal when their Kind and
// Value match; locations are ignored.
type Token struct {
	Kind  string
	Value string
	Start Loc
	End   Loc
}

// Tok returns a token with no location, suitable for Sym.
func Tok(kind, value string) Token {
	return Token{Kind: kind, Value: value}
}

// Equal reports whether t and o have the same kind and value.
func (t Token) Equal(o Token) bool {
	return t.Kind == o.Kind && t.Value == o.Value
}

func (t Token) String() string {
	if t.Value == "" {
		return t.Kind
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Value)
}

// Tokens is a Stream of lexed tokens.
type Tokens []Token

func (t Tokens) Len() int { return len(t) }

func (t Tokens) At(i int) Token { return t[i] }

// Loc returns the start of the token at pos. Past the last token it
// returns the end of the last token.
func (t Tokens) Loc(_ Loc, pos int) Loc {
	var l Loc
	switch {
	case pos < len(t):
		l = t[pos].Start
	case len(t) > 0:
		l = t[len(t)-1].End
	}
	l.Pos = pos
	return l
}

// Text is a Stream of bytes for scannerless grammars.
type Text string

func (t Text) Len() int { return len(t) }

func (t Text) At(i int) byte { return t[i] }

// Loc counts lines forward from prev. Moving backwards rescans from the
// start of the text.
func (t Text) Loc(prev Loc, pos int) Loc {
	pos = min(pos, len(t))
	if prev.Line == 0 || pos < prev.Pos || prev.Pos > len(t) {
		prev = Loc{Line: 1}
	}
	seg := string(t[prev.Pos:pos])
	l := Loc{Pos: pos, Line: prev.Line, Col: prev.Col}
	if n := strings.Count(seg, "\n"); n > 0 {
		l.Line += n
		l.Col = len(seg) - strings.LastIndexByte(seg, '\n') - 1
	} else {
		l.Col += len(seg)
	}
	return l
}

// StreamLoc is the default LocFunc. It defers to the stream when it
// implements Locator and otherwise reports the bare position.
func StreamLoc(prev Loc, s Stream, pos int) Loc {
	if l, ok := s.(Locator); ok {
		return l.Loc(prev, pos)
	}
	return Loc{Pos: pos}
}

func indexed[E any](s Stream, who string) Indexed[E] {
	in, ok := s.(Indexed[E])
	if !ok {
		var zero E
		panic(programmerErrorf("%s: stream %T does not hold %T items", who, s, zero))
	}
	return in
}
