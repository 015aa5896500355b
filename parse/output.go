package parse

import (
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("mend.parse")

// Option configures Parse.
type Option func(*options)

type options struct {
	recover    bool
	locate     LocFunc
	formatLoc  func(Loc) string
	maxInserts int
}

// WithRecovery runs the grammar in recovery mode from the first item.
func WithRecovery() Option {
	return func(o *options) { o.recover = true }
}

// WithRecover sets recovery mode explicitly.
func WithRecover(on bool) Option {
	return func(o *options) { o.recover = on }
}

// WithLocator overrides how positions map to locations.
func WithLocator(f LocFunc) Option {
	return func(o *options) { o.locate = f }
}

// WithLocFormatter overrides how locations are rendered in errors.
func WithLocFormatter(f func(Loc) string) Option {
	return func(o *options) { o.formatLoc = f }
}

// WithMaxInserts bounds how deeply insertions may stack at one position.
func WithMaxInserts(n int) Option {
	return func(o *options) { o.maxInserts = n }
}

// Parse runs g over s from position 0.
func Parse[T any](g Parser[T], s Stream, opts ...Option) *ParseResult[T] {
	o := options{formatLoc: FormatLoc, maxInserts: DefaultMaxInserts}
	for _, opt := range opts {
		opt(&o)
	}
	ctx := NewCtx(s, o.locate).WithMaxInserts(o.maxInserts)
	r := g.Parse(s, 0, ctx, o.recover)
	pr := &ParseResult[T]{Result: r, formatLoc: o.formatLoc}
	log.Debugf("parsed %d items: %s, cost %d", s.Len(), r.Kind, pr.Cost())
	return pr
}

// ParseResult is the outcome of a whole parse.
type ParseResult[T any] struct {
	Result    Result[T]
	formatLoc func(Loc) string
}

// Best returns the candidate a recovered parse settles on: the cheaper
// one, or on equal cost the one whose first repair is furthest into the
// input, preferring a skip. It returns nil unless the parse recovered.
func (pr *ParseResult[T]) Best() *Repair[T] {
	r := pr.Result
	if r.Kind != KindRecovered {
		return nil
	}
	sel, pend := r.Selected, r.Pending
	switch {
	case sel == nil:
		return pend
	case pend == nil:
		return sel
	case pend.Cost != sel.Cost:
		if pend.Cost < sel.Cost {
			return pend
		}
		return sel
	case pend.First.Loc.Pos > sel.First.Loc.Pos:
		return pend
	}
	return sel
}

// Cost returns the total cost of the repairs, or 0 for a parse that did
// not recover.
func (pr *ParseResult[T]) Cost() int {
	if b := pr.Best(); b != nil {
		return b.Cost
	}
	return 0
}

// Ok reports whether the parse succeeded without repairs.
func (pr *ParseResult[T]) Ok() bool {
	return pr.Result.Kind == KindOk
}

// Unwrap returns the parsed value. A plain success always yields its
// value. A recovered parse yields the repaired value when recover is set;
// otherwise, and for a failed parse, it returns a *ParseError.
func (pr *ParseResult[T]) Unwrap(recover bool) (T, error) {
	var zero T
	switch pr.Result.Kind {
	case KindOk:
		return pr.Result.Value, nil
	case KindRecovered:
		if recover {
			return pr.Best().Value, nil
		}
	}
	return zero, pr.Err()
}

// Err returns the errors of a failed or recovered parse as a *ParseError,
// or nil for a plain success.
func (pr *ParseResult[T]) Err() error {
	items := pr.Diagnostics()
	if len(items) == 0 {
		return nil
	}
	return &ParseError{Items: items}
}

// Diagnostics lists the errors of the parse: the failure itself, or every
// repair of the chosen candidate.
func (pr *ParseResult[T]) Diagnostics() []ErrorItem {
	r := pr.Result
	format := pr.formatLoc
	if format == nil {
		format = FormatLoc
	}
	switch r.Kind {
	case KindError:
		return []ErrorItem{{Loc: r.Loc, Location: format(r.Loc), Expected: Unique(r.Expected)}}
	case KindRecovered:
		best := pr.Best()
		var items []ErrorItem
		for _, step := range best.Steps() {
			op := step.Op
			items = append(items, ErrorItem{
				Loc:      step.Loc,
				Location: format(step.Loc),
				Expected: Unique(step.Expected),
				Op:       &op,
			})
		}
		return items
	}
	return nil
}

// MapParseResult applies f to the values of pr.
func MapParseResult[A, B any](pr *ParseResult[A], f func(A) B) *ParseResult[B] {
	return &ParseResult[B]{Result: MapResult(pr.Result, f), formatLoc: pr.formatLoc}
}

// ErrorItem is a single diagnostic. Op is nil for an unrepaired failure.
type ErrorItem struct {
	Loc      Loc
	Location string
	Expected []string
	Op       *Op
}

func (e ErrorItem) Error() string {
	return "at " + e.Location + ": " + e.Message()
}

// Message describes the item without its location.
func (e ErrorItem) Message() string {
	var b strings.Builder
	b.WriteString(describe(e.Expected))
	if e.Op != nil {
		b.WriteString(" (")
		b.WriteString(e.Op.String())
		b.WriteString(")")
	}
	return b.String()
}

func describe(expected []string) string {
	switch n := len(expected); n {
	case 0:
		return "unexpected input"
	case 1:
		return "expected " + expected[0]
	case 2:
		return "expected " + expected[0] + " or " + expected[1]
	default:
		return "expected " + strings.Join(expected[:n-1], ", ") + ", or " + expected[n-1]
	}
}

// ParseError is returned for a parse that failed or needed repairs.
type ParseError struct {
	Items []ErrorItem
}

func (e *ParseError) Error() string {
	msgs := make([]string, len(e.Items))
	for i, item := range e.Items {
		msgs[i] = item.Error()
	}
	return strings.Join(msgs, ", ")
}
