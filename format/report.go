package format

import (
	"github.com/dhamidi/mend/ebnf"
	"github.com/dhamidi/mend/parse"
)

// Status values of a Report.
const (
	StatusOK        = "ok"
	StatusRecovered = "recovered"
	StatusError     = "error"
)

// Report is the encodable outcome of parsing one source.
type Report struct {
	Source      string       `json:"source" yaml:"source"`
	Grammar     string       `json:"grammar" yaml:"grammar"`
	Status      string       `json:"status" yaml:"status"`
	Cost        int          `json:"cost,omitempty" yaml:"cost,omitempty"`
	Value       any          `json:"value,omitempty" yaml:"value,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// Diagnostic is one reported error or repair.
type Diagnostic struct {
	Location string   `json:"location" yaml:"location"`
	Line     int      `json:"line,omitempty" yaml:"line,omitempty"`
	Column   int      `json:"column,omitempty" yaml:"column,omitempty"`
	Pos      int      `json:"pos" yaml:"pos"`
	Message  string   `json:"message" yaml:"message"`
	Expected []string `json:"expected,omitempty" yaml:"expected,omitempty"`
	Repair   string   `json:"repair,omitempty" yaml:"repair,omitempty"`
}

// NewReport summarizes pr. The value of a recovered parse is included
// only when withRepaired is set. CST values are converted to trees.
func NewReport(source, grammar string, pr *parse.ParseResult[any], withRepaired bool) *Report {
	r := &Report{Source: source, Grammar: grammar}
	switch pr.Result.Kind {
	case parse.KindOk:
		r.Status = StatusOK
		r.Value = pr.Result.Value
	case parse.KindRecovered:
		r.Status = StatusRecovered
		r.Cost = pr.Cost()
		if withRepaired {
			r.Value = pr.Best().Value
		}
	default:
		r.Status = StatusError
	}
	if n, ok := r.Value.(*ebnf.Node); ok {
		r.Value = nodeToTree(n)
	}
	for _, item := range pr.Diagnostics() {
		d := Diagnostic{
			Location: item.Location,
			Pos:      item.Loc.Pos,
			Message:  item.Message(),
			Expected: item.Expected,
		}
		if item.Loc.Line != 0 {
			d.Line = item.Loc.Line
			d.Column = item.Loc.Col + 1
		}
		if item.Op != nil {
			d.Repair = item.Op.String()
		}
		r.Diagnostics = append(r.Diagnostics, d)
	}
	return r
}

// OK reports whether the source parsed without errors or repairs.
func (r *Report) OK() bool {
	return r.Status == StatusOK
}
