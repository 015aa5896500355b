// Package lsp is a language server that reports parse errors and the
// repairs recovery applied as diagnostics of open documents.
package lsp

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/dhamidi/mend/parse"
	"github.com/dhamidi/mend/workspace"
	"github.com/spf13/afero"
	"github.com/tliron/commonlog"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

const lsName = "mend"

var log = commonlog.GetLogger("mend.lsp")

// NewWorkspace builds the workspace for a client's root directory.
type NewWorkspace func(rootDir string, fs afero.Fs) *workspace.Workspace

type LSPServer struct {
	newWorkspace NewWorkspace
	fs           afero.Fs
	ws           *workspace.Workspace
	handler      protocol.Handler
	server       *server.Server
	version      string
}

func NewLSPServer(version string, fs afero.Fs, newWorkspace NewWorkspace) *LSPServer {
	ls := &LSPServer{
		version:      version,
		fs:           fs,
		newWorkspace: newWorkspace,
	}

	ls.handler = protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidClose:  ls.textDocumentDidClose,
		TextDocumentDidSave:   ls.textDocumentDidSave,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.ws = ls.newWorkspace(rootDir, ls.fs)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Infof("serving %s", ls.ws.RootDir())
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.update(ctx, params.TextDocument.URI, []byte(params.TextDocument.Text))
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.update(ctx, params.TextDocument.URI, []byte(textChange.Text))
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.ws.RemoveFile(path)
	ls.publish(ctx, params.TextDocument.URI, nil)
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		ls.update(ctx, params.TextDocument.URI, []byte(*params.Text))
		return nil
	}
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if doc, err := ls.ws.ScanFile(path); doc != nil {
		ls.publish(ctx, params.TextDocument.URI, doc)
	} else {
		log.Warningf("rescan %s: %s", path, err)
	}
	return nil
}

func (ls *LSPServer) update(ctx *glsp.Context, uri protocol.DocumentUri, content []byte) {
	path, err := uriToPath(uri)
	if err != nil {
		log.Warningf("bad uri %s: %s", uri, err)
		return
	}
	if !ls.ws.Handles(path) {
		return
	}
	doc, _ := ls.ws.UpdateFile(path, content)
	ls.publish(ctx, uri, doc)
}

func (ls *LSPServer) publish(ctx *glsp.Context, uri protocol.DocumentUri, doc *workspace.Document) {
	diagnostics := []protocol.Diagnostic{}
	if doc != nil {
		for _, item := range doc.Diagnostics() {
			diagnostics = append(diagnostics, toDiagnostic(item))
		}
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func toDiagnostic(item parse.ErrorItem) protocol.Diagnostic {
	var pos protocol.Position
	if item.Loc.Line > 0 {
		pos = protocol.Position{Line: protocol.UInteger(item.Loc.Line - 1), Character: protocol.UInteger(item.Loc.Col)}
	}
	severity := protocol.DiagnosticSeverityError
	source := lsName
	return protocol.Diagnostic{
		Range:    protocol.Range{Start: pos, End: pos},
		Severity: &severity,
		Source:   &source,
		Message:  item.Message(),
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
