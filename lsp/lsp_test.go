package lsp

import (
	"testing"

	"github.com/dhamidi/mend/grammar"
	"github.com/dhamidi/mend/parse"
	"github.com/dhamidi/mend/workspace"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	published []protocol.PublishDiagnosticsParams
}

func (r *recorder) context() *glsp.Context {
	return &glsp.Context{Notify: func(method string, params any) {
		if method == protocol.ServerTextDocumentPublishDiagnostics {
			r.published = append(r.published, params.(protocol.PublishDiagnosticsParams))
		}
	}}
}

func newTestServer(t *testing.T) (*LSPServer, *recorder) {
	t.Helper()
	ls := NewLSPServer("test", afero.NewMemMapFs(), func(rootDir string, fs afero.Fs) *workspace.Workspace {
		return workspace.New(rootDir, fs, grammar.Builtin(), workspace.WithParseOptions(parse.WithRecovery()))
	})
	rec := &recorder{}
	root := "file:///work"
	result, err := ls.initialize(rec.context(), &protocol.InitializeParams{RootURI: &root})
	require.NoError(t, err)
	init, ok := result.(protocol.InitializeResult)
	require.True(t, ok)
	assert.Equal(t, lsName, init.ServerInfo.Name)
	assert.Equal(t, "/work", ls.ws.RootDir())
	return ls, rec
}

func TestLSPServer_PublishesRepairs(t *testing.T) {
	ls, rec := newTestServer(t)
	uri := "file:///work/a.json"

	require.NoError(t, ls.textDocumentDidOpen(rec.context(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "json", Version: 1, Text: "[1 2]"},
	}))
	require.Len(t, rec.published, 1)
	got := rec.published[0]
	assert.Equal(t, uri, got.URI)
	require.Len(t, got.Diagnostics, 1)
	d := got.Diagnostics[0]
	assert.Equal(t, "expected ',' or ']' (skipped 1 token)", d.Message)
	assert.Equal(t, protocol.Position{Line: 0, Character: 3}, d.Range.Start)
	assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)

	require.NoError(t, ls.textDocumentDidChange(rec.context(), &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "[1, 2]"}},
	}))
	require.Len(t, rec.published, 2)
	assert.Empty(t, rec.published[1].Diagnostics)

	require.NoError(t, ls.textDocumentDidClose(rec.context(), &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	require.Len(t, rec.published, 3)
	assert.Empty(t, rec.published[2].Diagnostics)
	assert.Nil(t, ls.ws.GetFile("/work/a.json"))
}

func TestLSPServer_IgnoresUnknownFiles(t *testing.T) {
	ls, rec := newTestServer(t)

	require.NoError(t, ls.textDocumentDidOpen(rec.context(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: "file:///work/README.md", Text: "# hi"},
	}))
	assert.Empty(t, rec.published)
}

func TestLSPServer_SaveWithText(t *testing.T) {
	ls, rec := newTestServer(t)
	text := "1 + "

	require.NoError(t, ls.textDocumentDidSave(rec.context(), &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///work/x.calc"},
		Text:         &text,
	}))
	require.Len(t, rec.published, 1)
	require.Len(t, rec.published[0].Diagnostics, 1)
	assert.Equal(t, "expected number or '(' (inserted number)", rec.published[0].Diagnostics[0].Message)
}

func TestUriToPath(t *testing.T) {
	p, err := uriToPath("file:///a/b%20c/d.json")
	require.NoError(t, err)
	assert.Equal(t, "/a/b c/d.json", p)

	p, err = uriToPath("untitled:1")
	require.NoError(t, err)
	assert.Equal(t, "untitled:1", p)
}
