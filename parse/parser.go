package parse

import "fmt"

// Parser recognises a T at a position of a stream. rm switches on
// recovery mode, in which failing primitives offer repairs.
type Parser[T any] interface {
	Parse(s Stream, pos int, ctx Ctx, rm bool) Result[T]
}

// Func adapts a function to the Parser interface.
type Func[T any] func(s Stream, pos int, ctx Ctx, rm bool) Result[T]

func (f Func[T]) Parse(s Stream, pos int, ctx Ctx, rm bool) Result[T] {
	return f(s, pos, ctx, rm)
}

// ProgrammerError reports a grammar that is wrong regardless of the
// input. It is raised with panic.
type ProgrammerError struct {
	Msg string
}

func (e *ProgrammerError) Error() string {
	return "parse: " + e.Msg
}

func programmerErrorf(format string, args ...any) *ProgrammerError {
	return &ProgrammerError{Msg: fmt.Sprintf(format, args...)}
}

// Delay is a parser defined after it is first referenced, for recursive
// grammars. The zero value is ready to be defined. Define must happen
// before the first parse.
type Delay[T any] struct {
	p Parser[T]
}

// Define sets the parser d stands for. It panics when called twice.
func (d *Delay[T]) Define(p Parser[T]) {
	if d.p != nil {
		panic(programmerErrorf("delay is already defined"))
	}
	d.p = p
}

func (d *Delay[T]) Parse(s Stream, pos int, ctx Ctx, rm bool) Result[T] {
	if d.p == nil {
		panic(programmerErrorf("delay is used before it is defined"))
	}
	return d.p.Parse(s, pos, ctx, rm)
}
