// Package lexer turns source text into parse.Tokens, either from a list
// of regular expression rules or from the lexical productions of an EBNF
// grammar.
package lexer

import (
	"fmt"
	"io"
	"regexp"
	"slices"
	"unicode/utf8"

	"github.com/dhamidi/mend/parse"
	mtoken "modernc.org/token"
)

// ErrorKind is the kind of tokens emitted for input no rule matches.
const ErrorKind = "ERROR"

// Rule describes one token kind by a regular expression. Tokens of Skip
// rules are dropped, which is how whitespace and comments are handled.
type Rule struct {
	Kind    string
	Pattern string
	Skip    bool
}

type kind struct {
	name  string
	skip  bool
	match func(src []byte, off int) int
}

// Lexer holds compiled token kinds. It is safe for concurrent use.
type Lexer struct {
	kinds  []kind
	strict bool
}

// Error reports input that no rule matches. Only strict lexers return it.
type Error struct {
	Filename string
	Loc      parse.Loc
	Text     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%s: no rule matches %q", e.Filename, e.Loc, e.Text)
}

// New compiles rules. On overlapping matches the longest wins, and on
// equal length the rule listed first.
func New(rules ...Rule) (*Lexer, error) {
	l := &Lexer{}
	for _, r := range rules {
		re, err := regexp.Compile(`\A(?:` + r.Pattern + `)`)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", r.Kind, err)
		}
		l.kinds = append(l.kinds, kind{name: r.Kind, skip: r.Skip, match: func(src []byte, off int) int {
			m := re.FindIndex(src[off:])
			if m == nil {
				return 0
			}
			return m[1]
		}})
	}
	return l, nil
}

// MustNew is like New but panics on an invalid rule.
func MustNew(rules ...Rule) *Lexer {
	l, err := New(rules...)
	if err != nil {
		panic(err)
	}
	return l
}

// Strict returns a copy of l that fails with an *Error on unmatched input
// instead of emitting ErrorKind tokens.
func (l *Lexer) Strict() *Lexer {
	c := *l
	c.strict = true
	return &c
}

// Kinds lists the token kinds l produces, in priority order.
func (l *Lexer) Kinds() []string {
	out := make([]string, 0, len(l.kinds))
	for _, k := range l.kinds {
		out = append(out, k.name)
	}
	return out
}

// Skips reports whether tokens of kind are dropped.
func (l *Lexer) Skips(name string) bool {
	return slices.ContainsFunc(l.kinds, func(k kind) bool { return k.name == name && k.skip })
}

// Scanner reads tokens from a single source.
type Scanner struct {
	lexer *Lexer
	name  string
	src   []byte
	file  *mtoken.File
	off   int
	lines int
}

// Scan returns a scanner over src. name is used in positions.
func (l *Lexer) Scan(name string, src []byte) *Scanner {
	return &Scanner{lexer: l, name: name, src: src, file: mtoken.NewFile(name, len(src))}
}

// Loc returns the location of byte offset off. Lines must already have
// been scanned up to off.
func (s *Scanner) Loc(off int) parse.Loc {
	p := s.file.PositionFor(mtoken.Pos(s.file.Base()+off), false)
	return parse.Loc{Pos: off, Line: p.Line, Col: p.Column - 1}
}

// Filename returns the name the scanner was created with.
func (s *Scanner) Filename() string {
	return s.name
}

func (s *Scanner) addLines(end int) {
	for i := s.lines; i < end; i++ {
		if s.src[i] == '\n' && i+1 < len(s.src) {
			s.file.AddLine(i + 1)
		}
	}
	s.lines = max(s.lines, end)
}

// Next returns the next token that is not skipped, or io.EOF. Input that
// no kind matches becomes a single character ErrorKind token, or an
// *Error when the lexer is strict.
func (s *Scanner) Next() (parse.Token, error) {
	for s.off < len(s.src) {
		start := s.off
		best, bestLen := -1, 0
		for i, k := range s.lexer.kinds {
			if n := k.match(s.src, start); n > bestLen {
				best, bestLen = i, n
			}
		}
		kindName, skip := ErrorKind, false
		if best >= 0 {
			kindName, skip = s.lexer.kinds[best].name, s.lexer.kinds[best].skip
		} else {
			_, bestLen = utf8.DecodeRune(s.src[start:])
			if s.lexer.strict {
				return parse.Token{}, &Error{
					Filename: s.name,
					Loc:      s.Loc(start),
					Text:     string(s.src[start : start+bestLen]),
				}
			}
		}
		s.off = start + bestLen
		s.addLines(s.off)
		if skip {
			continue
		}
		return parse.Token{
			Kind:  kindName,
			Value: string(s.src[start:s.off]),
			Start: s.Loc(start),
			End:   s.Loc(s.off),
		}, nil
	}
	return parse.Token{}, io.EOF
}

// Tokenize scans all of src.
func (l *Lexer) Tokenize(name string, src []byte) (parse.Tokens, error) {
	s := l.Scan(name, src)
	var out parse.Tokens
	for {
		tok, err := s.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, tok)
	}
}
