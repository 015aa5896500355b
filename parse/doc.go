// Package parse provides parser combinators with automatic error recovery.
//
// A grammar is built by composing primitives (Pure, Sym, Satisfy, Eof,
// Literal, Regexp) with combinators (Map, Bind, Seq, SeqL, SeqR, Alt,
// Many, Attempt, Label, InsertOnError) and the layout combinators Block,
// Same and Indented. Parse runs a grammar against a Stream and returns a
// ParseResult.
//
// When recovery is enabled, or as soon as a sequence has consumed input,
// a failing primitive offers up to two repair candidates: a skip, which
// discards input up to the next acceptable item, and an insertion, which
// fabricates the expected item in place. Sequencing and alternation
// compose the candidates and keep the cheapest of each kind, so a repaired
// parse yields both a value and the chain of repairs that produced it.
//
// Recursive grammars are declared with Delay:
//
//	var expr parse.Delay[int]
//	factor := parse.Alt(number, parse.Between(open, close, parse.Parser[int](&expr)))
//	expr.Define(parse.Chainl1(factor, addop))
package parse
