package parse

import (
	"regexp"
	"strings"
)

func textOf(s Stream, who string) Text {
	t, ok := s.(Text)
	if !ok {
		panic(programmerErrorf("%s: stream %T is not Text", who, s))
	}
	return t
}

// Literal accepts the exact string lit from a Text stream. In recovery
// mode it offers to skip to the next occurrence and to insert lit.
func Literal(lit string) Parser[string] {
	if lit == "" {
		panic(programmerErrorf("literal: empty string"))
	}
	label := "'" + lit + "'"
	expected := ChainOf(label)
	return Func[string](func(s Stream, pos int, ctx Ctx, rm bool) Result[string] {
		text := textOf(s, "literal")
		if strings.HasPrefix(string(text[pos:]), lit) {
			end := pos + len(lit)
			return Ok(lit, end, ctx.Update(s, end), true)
		}
		if !rm {
			return Fail[string](ctx.Loc, expected, false)
		}
		var sel *Repair[string]
		if pos < len(text) {
			if i := strings.Index(string(text[pos+1:]), lit); i >= 0 {
				found := pos + 1 + i
				sel = skipRepair(lit, pos, found, found+len(lit), ctx, s, expected)
			}
		}
		pend := insertRepair(lit, label, pos, ctx, expected)
		if sel == nil && pend == nil {
			return Fail[string](ctx.Loc, expected, false)
		}
		return Repaired(ctx.Loc, expected, sel, pend)
	})
}

// Regexp accepts the longest leftmost match of pattern at the current
// position of a Text stream and yields the matched text. In recovery mode
// it offers to skip to the next position where the pattern matches.
func Regexp(pattern string) Parser[string] {
	return regexpParser(pattern, "")
}

// RegexpGroup is like Regexp but yields the text of the named capture
// group. A match in which the group did not take part is no match.
func RegexpGroup(pattern, group string) Parser[string] {
	return regexpParser(pattern, group)
}

func regexpParser(pattern, group string) Parser[string] {
	re, err := regexp.Compile(`\A(?:` + pattern + `)`)
	if err != nil {
		panic(programmerErrorf("regexp %q: %v", pattern, err))
	}
	g := 0
	if group != "" {
		if g = re.SubexpIndex(group); g < 0 {
			panic(programmerErrorf("regexp %q has no group %q", pattern, group))
		}
	}
	expected := ChainOf("/" + pattern + "/")
	match := func(text Text, at int) (string, int, bool) {
		m := re.FindStringSubmatchIndex(string(text[at:]))
		if m == nil || m[2*g] < 0 {
			return "", 0, false
		}
		return string(text[at+m[2*g] : at+m[2*g+1]]), at + m[1], true
	}
	return Func[string](func(s Stream, pos int, ctx Ctx, rm bool) Result[string] {
		text := textOf(s, "regexp")
		if v, end, ok := match(text, pos); ok {
			return Ok(v, end, ctx.Update(s, end), end > pos)
		}
		if !rm {
			return Fail[string](ctx.Loc, expected, false)
		}
		for cur := pos + 1; cur < len(text); cur++ {
			if v, end, ok := match(text, cur); ok {
				sel := skipRepair(v, pos, cur, end, ctx, s, expected)
				return Repaired(ctx.Loc, expected, sel, nil)
			}
		}
		return Fail[string](ctx.Loc, expected, false)
	})
}
