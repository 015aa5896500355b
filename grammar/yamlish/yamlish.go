// Package yamlish parses an indentation sensitive subset of YAML directly
// from text: block mappings, block sequences and plain scalars, with
// comments and blank lines. Mappings decode to map[string]any, sequences
// to []any and scalars to string; an entry with no value decodes to nil.
package yamlish

import (
	"strings"

	"github.com/dhamidi/mend/parse"
)

var grammar = build()

// Grammar returns the parser for a complete document.
func Grammar() parse.Parser[any] {
	return grammar
}

// Parse parses src.
func Parse(src []byte, opts ...parse.Option) *parse.ParseResult[any] {
	return parse.Parse(grammar, parse.Text(src), opts...)
}

const (
	blank = `[ \t]*(?:#[^\n]*)?`
	// eol ends a line and eats any blank lines after it together with the
	// indentation of the next one, so the column is known afterwards.
	eolPattern = `(?:` + blank + `\n)+ *|` + blank + `\z`
)

func build() parse.Parser[any] {
	var node parse.Delay[any]

	eol := parse.Label(parse.Regexp(eolPattern), "end of line")
	key := parse.Label(parse.Regexp(`[A-Za-z_][A-Za-z0-9_\-]*`), "key")
	scalar := parse.Label(parse.Map(parse.Regexp(`[^\s#][^\n#]*`), func(s string) any {
		return strings.TrimRight(s, " \t")
	}), "scalar")

	inline := parse.SeqR(parse.Regexp(`[ \t]+`), parse.SeqL(scalar, eol))
	nested := parse.Bind(parse.Seq(eol, parse.Here()), func(p parse.Pair[string, parse.Ctx]) parse.Parser[any] {
		ctx := p.Right
		if !strings.Contains(p.Left, "\n") || ctx.Loc.Col <= ctx.Anchor {
			return parse.Pure[any](nil)
		}
		return parse.Indented(ctx.Loc.Col-ctx.Anchor, parse.Parser[any](&node))
	})
	value := parse.Alt(inline, nested)

	entry := parse.Seq(key, parse.SeqR(parse.Literal(":"), value))
	mapping := parse.Map(parse.Block(parse.Many1(parse.Same(entry))), func(es []parse.Pair[string, any]) any {
		out := make(map[string]any, len(es))
		for _, e := range es {
			out[e.Left] = e.Right
		}
		return out
	})

	item := parse.SeqR(parse.Literal("-"), value)
	sequence := parse.Map(parse.Block(parse.Many1(parse.Same(item))), func(xs []any) any {
		return xs
	})

	node.Define(parse.Alt(mapping, sequence))

	leading := parse.Regexp(`(?:` + blank + `\n)* *`)
	return parse.SeqR(leading, parse.SeqL(parse.Default[any](&node, nil), parse.Eof()))
}
