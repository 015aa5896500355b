// Package grammar names the grammars the mend tools can run and picks
// one for a file by its extension.
package grammar

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/dhamidi/mend/ebnf"
	"github.com/dhamidi/mend/grammar/expr"
	"github.com/dhamidi/mend/grammar/json"
	"github.com/dhamidi/mend/grammar/yamlish"
	"github.com/dhamidi/mend/lexer"
	"github.com/dhamidi/mend/parse"
)

// Grammar parses a whole source into a value.
type Grammar interface {
	Name() string
	Parse(name string, src []byte, opts ...parse.Option) (*parse.ParseResult[any], error)
}

// Tokenizer is implemented by grammars that run over lexed tokens.
type Tokenizer interface {
	Lexer() *lexer.Lexer
	Tokenize(name string, src []byte) (parse.Tokens, error)
}

type lexed[T any] struct {
	name   string
	lexer  *lexer.Lexer
	parser parse.Parser[T]
}

// Lexed returns a grammar that tokenizes with l and parses the tokens
// with p.
func Lexed[T any](name string, l *lexer.Lexer, p parse.Parser[T]) Grammar {
	return &lexed[T]{name: name, lexer: l, parser: p}
}

func (g *lexed[T]) Name() string { return g.name }

func (g *lexed[T]) Lexer() *lexer.Lexer { return g.lexer }

func (g *lexed[T]) Tokenize(name string, src []byte) (parse.Tokens, error) {
	return g.lexer.Tokenize(name, src)
}

func (g *lexed[T]) Parse(name string, src []byte, opts ...parse.Option) (*parse.ParseResult[any], error) {
	toks, err := g.lexer.Tokenize(name, src)
	if err != nil {
		return nil, fmt.Errorf("tokenize %s: %w", name, err)
	}
	return parse.MapParseResult(parse.Parse(g.parser, toks, opts...), toAny[T]), nil
}

type text struct {
	name   string
	parser parse.Parser[any]
}

// Text returns a grammar that parses the source text directly.
func Text(name string, p parse.Parser[any]) Grammar {
	return &text{name: name, parser: p}
}

func (g *text) Name() string { return g.name }

func (g *text) Parse(_ string, src []byte, opts ...parse.Option) (*parse.ParseResult[any], error) {
	return parse.Parse(g.parser, parse.Text(src), opts...), nil
}

// FromEBNF wraps a compiled EBNF grammar. Values are *ebnf.Node trees.
func FromEBNF(name string, g *ebnf.Grammar) Grammar {
	return Lexed(name, g.Lexer(), g.Parser())
}

func toAny[T any](v T) any { return v }

// Registry maps names and file extensions to grammars. It is safe for
// concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Grammar
	byExt  map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: map[string]Grammar{}, byExt: map[string]string{}}
}

// Builtin returns a registry holding the json, expr and yamlish grammars.
func Builtin() *Registry {
	r := NewRegistry()
	r.Register(Lexed("json", json.Lexer, json.Grammar()), ".json")
	r.Register(Lexed("expr", expr.Lexer, expr.Grammar()), ".expr", ".calc")
	r.Register(Text("yamlish", yamlish.Grammar()), ".yaml", ".yml")
	return r
}

// Register adds g under its name, replacing any grammar of that name,
// and claims the given extensions for it.
func (r *Registry) Register(g Grammar, exts ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[g.Name()] = g
	for _, ext := range exts {
		r.byExt[strings.ToLower(ext)] = g.Name()
	}
}

// Lookup returns the grammar called name.
func (r *Registry) Lookup(name string) (Grammar, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.byName[name]
	return g, ok
}

// ForFile returns the grammar registered for the extension of path.
func (r *Registry) ForFile(path string) (Grammar, bool) {
	r.mu.RLock()
	name, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return r.Lookup(name)
}

// Resolve returns the grammar called name or, when name is empty, the
// one for path.
func (r *Registry) Resolve(name, path string) (Grammar, error) {
	if name != "" {
		if g, ok := r.Lookup(name); ok {
			return g, nil
		}
		return nil, fmt.Errorf("unknown grammar %q (known: %s)", name, strings.Join(r.Names(), ", "))
	}
	if g, ok := r.ForFile(path); ok {
		return g, nil
	}
	return nil, fmt.Errorf("no grammar for %q; use --grammar", path)
}

// Names returns the registered grammar names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
