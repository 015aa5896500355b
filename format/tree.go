package format

import "github.com/dhamidi/mend/ebnf"

type treeNode struct {
	Kind     string      `json:"kind" yaml:"kind"`
	Span     *treeSpan   `json:"span,omitempty" yaml:"span,omitempty"`
	Token    string      `json:"token,omitempty" yaml:"token,omitempty"`
	Error    string      `json:"error,omitempty" yaml:"error,omitempty"`
	Children []*treeNode `json:"children,omitempty" yaml:"children,omitempty"`
}

type treeSpan struct {
	Start treePosition `json:"start" yaml:"start"`
	End   treePosition `json:"end" yaml:"end"`
}

type treePosition struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func nodeToTree(n *ebnf.Node) *treeNode {
	tn := &treeNode{
		Kind:  n.Kind,
		Error: n.Error,
	}

	if n.Span.Start.Line != 0 || n.Span.End.Line != 0 {
		tn.Span = &treeSpan{
			Start: treePosition{Line: n.Span.Start.Line, Column: n.Span.Start.Col + 1},
			End:   treePosition{Line: n.Span.End.Line, Column: n.Span.End.Col + 1},
		}
	}

	if n.Token != nil {
		tn.Token = n.Token.Value
	}

	if len(n.Children) > 0 {
		tn.Children = make([]*treeNode, len(n.Children))
		for i, child := range n.Children {
			tn.Children[i] = nodeToTree(child)
		}
	}

	return tn
}
