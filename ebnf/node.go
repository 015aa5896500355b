package ebnf

import (
	"strconv"
	"strings"

	"github.com/dhamidi/mend/parse"
)

// Span represents a range in source code.
type Span struct {
	Start parse.Loc
	End   parse.Loc
}

// Node represents a node in the concrete syntax tree.
// Leaf nodes have a non-nil Token; interior nodes have Children.
type Node struct {
	Kind     string       // Production name or token kind
	Children []*Node      // Child nodes (nil for terminals)
	Token    *parse.Token // The token (non-nil for terminals)
	Span     Span         // Source span covering this node
	Error    string       // Non-empty for tokens made up by recovery
}

// IsError returns true if this node was fabricated by error recovery.
func (n *Node) IsError() bool {
	return n.Error != ""
}

// IsTerminal returns true if this is a leaf node (token).
func (n *Node) IsTerminal() bool {
	return n.Token != nil
}

// Text returns the token value of a terminal and the concatenated token
// values of a non-terminal, separated by spaces.
func (n *Node) Text() string {
	if n.Token != nil {
		return n.Token.Value
	}
	parts := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		if t := c.Text(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// AddChild appends a child node and updates the span.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	n.Children = append(n.Children, child)
	if len(n.Children) == 1 {
		n.Span.Start = child.Span.Start
	}
	n.Span.End = child.Span.End
}

// Errors returns the fabricated nodes below n in source order.
func (n *Node) Errors() []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(n *Node) {
		if n.IsError() {
			out = append(out, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	return out
}

// String renders n as an s-expression, with terminals as kind:"value".
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	if n.IsTerminal() {
		b.WriteString(n.Kind)
		b.WriteByte(':')
		b.WriteString(strconv.Quote(n.Token.Value))
		if n.IsError() {
			b.WriteByte('!')
		}
		return
	}
	b.WriteByte('(')
	b.WriteString(n.Kind)
	for _, c := range n.Children {
		b.WriteByte(' ')
		c.write(b)
	}
	b.WriteByte(')')
}

// NewTerminal creates a terminal node from a token. A zero width token
// was inserted by recovery and is marked as an error.
func NewTerminal(tok parse.Token) *Node {
	n := &Node{
		Kind:  tok.Kind,
		Token: &tok,
		Span:  Span{Start: tok.Start, End: tok.End},
	}
	if tok.Start == tok.End {
		n.Error = "missing " + describeToken(tok)
	}
	return n
}

// NewNonTerminal creates a non-terminal node.
func NewNonTerminal(kind string) *Node {
	return &Node{
		Kind:     kind,
		Children: make([]*Node, 0),
	}
}

// NewError creates an error node.
func NewError(message string, loc parse.Loc) *Node {
	return &Node{
		Kind:  "ERROR",
		Error: message,
		Span: Span{
			Start: loc,
			End:   loc,
		},
	}
}

func describeToken(tok parse.Token) string {
	if tok.Value == "" {
		return tok.Kind
	}
	return "'" + tok.Value + "'"
}
