// Package workspace keeps a set of source documents parsed with the
// grammar registered for each, re-parsing a document whenever it changes.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/dhamidi/mend/grammar"
	"github.com/dhamidi/mend/parse"
	"github.com/spf13/afero"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("mend.workspace")

type Workspace struct {
	mu       sync.RWMutex
	fs       afero.Fs
	rootDir  string
	registry *grammar.Registry
	grammar  string
	opts     []parse.Option
	docs     map[string]*Document
}

// Document is the latest parse of one source.
type Document struct {
	Path    string
	Content []byte
	Grammar string
	Result  *parse.ParseResult[any]
	Err     error
}

// Diagnostics returns the errors and repairs of the document's parse.
func (d *Document) Diagnostics() []parse.ErrorItem {
	if d.Result == nil {
		return nil
	}
	return d.Result.Diagnostics()
}

type Option func(*Workspace)

// WithGrammar parses every document with the named grammar instead of
// choosing one by file extension.
func WithGrammar(name string) Option {
	return func(w *Workspace) { w.grammar = name }
}

// WithParseOptions passes opts to every parse.
func WithParseOptions(opts ...parse.Option) Option {
	return func(w *Workspace) { w.opts = append(w.opts, opts...) }
}

func New(rootDir string, fs afero.Fs, registry *grammar.Registry, opts ...Option) *Workspace {
	w := &Workspace{
		fs:       fs,
		rootDir:  rootDir,
		registry: registry,
		docs:     make(map[string]*Document),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

// Handles reports whether the workspace has a grammar for path.
func (w *Workspace) Handles(path string) bool {
	if w.grammar != "" {
		return true
	}
	_, ok := w.registry.ForFile(path)
	return ok
}

// ScanAll parses every file below the root that has a grammar. Hidden
// directories are skipped.
func (w *Workspace) ScanAll() error {
	return afero.Walk(w.fs, w.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != w.rootDir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if w.Handles(path) {
			if _, err := w.ScanFile(path); err != nil {
				log.Warningf("scan %s: %s", path, err)
			}
		}
		return nil
	})
}

// ScanFile reads path and parses it.
func (w *Workspace) ScanFile(path string) (*Document, error) {
	content, err := afero.ReadFile(w.fs, path)
	if err != nil {
		return nil, err
	}
	return w.UpdateFile(path, content)
}

// UpdateFile parses content as the new text of path. A document is
// stored even when no grammar applies; its Err says why.
func (w *Workspace) UpdateFile(path string, content []byte) (*Document, error) {
	doc := &Document{Path: path, Content: content}
	g, err := w.registry.Resolve(w.grammar, path)
	if err == nil {
		doc.Grammar = g.Name()
		doc.Result, err = g.Parse(path, content, w.opts...)
	}
	if err != nil {
		doc.Err = fmt.Errorf("parse %s: %w", path, err)
	} else {
		log.Debugf("parsed %s with %s: %s", path, doc.Grammar, doc.Result.Result.Kind)
	}

	w.mu.Lock()
	w.docs[path] = doc
	w.mu.Unlock()
	return doc, doc.Err
}

func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.docs, path)
}

func (w *Workspace) GetFile(path string) *Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.docs[path]
}

// Paths returns the paths of all documents in sorted order.
func (w *Workspace) Paths() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	paths := make([]string, 0, len(w.docs))
	for p := range w.docs {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}
