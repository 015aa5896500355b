package format

import (
	"fmt"
	"io"
	"strings"
)

// LineEncoder writes one "source:location: message" line per diagnostic,
// or a single status line for a clean parse.
type LineEncoder struct {
	w      io.Writer
	report *Report
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(r *Report) error {
	e.report = r
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	r := e.report

	if len(r.Diagnostics) == 0 {
		fmt.Fprintf(&sb, "%s\t%s\t%s\n", r.Source, r.Grammar, r.Status)
		return []byte(sb.String()), nil
	}

	for _, d := range r.Diagnostics {
		fmt.Fprintf(&sb, "%s:%s: %s\n", r.Source, e.location(d), d.Message)
	}
	if r.Status == StatusRecovered {
		fmt.Fprintf(&sb, "%s\t%s\t%s\tcost=%d\n", r.Source, r.Grammar, r.Status, r.Cost)
	}

	return []byte(sb.String()), nil
}

func (e *LineEncoder) location(d Diagnostic) string {
	if d.Line == 0 {
		return fmt.Sprintf("%d", d.Pos)
	}
	return fmt.Sprintf("%d:%d", d.Line, d.Column)
}
