// Package lsp exposes SynQ's parser and semantic analyzer to editors as a
// diagnostics-only language server: no hover, no go-to-definition, just
// publish-on-open/change feedback.
package lsp

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/segmentio/ksuid"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/synergy-network-hq/synq-language-sub000/internal/ast"
	"github.com/synergy-network-hq/synq-language-sub000/internal/parser"
	"github.com/synergy-network-hq/synq-language-sub000/internal/semantic"
)

// SemanticTokenTypes and SemanticTokenModifiers form a semantic-token
// legend. Initialize does not advertise them, and the server provides
// no semantic tokens.
var SemanticTokenTypes = []string{
	"namespace", "type", "function", "variable", "parameter", "keyword", "number",
}

var SemanticTokenModifiers = []string{
	"declaration", "readonly", "deprecated",
}

// Handler implements the LSP methods wired up in cmd/synq-cli's "lsp"
// subcommand. It records the last successfully parsed tree per open
// file and drops it on close; publish itself re-reads and re-parses the
// file from disk on every open or change notification.
type Handler struct {
	mu    sync.RWMutex
	trees map[string]*ast.SourceFile
}

func NewHandler() *Handler {
	return &Handler{trees: make(map[string]*ast.SourceFile)}
}

func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("synq-lsp: initialize")
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	return nil
}

func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	return h.publish(ctx, params.TextDocument.URI)
}

func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	return h.publish(ctx, params.TextDocument.URI)
}

func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	h.mu.Lock()
	delete(h.trees, path)
	h.mu.Unlock()
	return nil
}

// publish parses and analyzes the file named by rawURI and sends its
// diagnostics (possibly an empty list, which clears prior ones) to the
// client.
func (h *Handler) publish(ctx *glsp.Context, rawURI protocol.DocumentUri) error {
	correlationID := ksuid.New().String()

	path, err := uriToPath(rawURI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}

	unit, parseErr := parser.ParseSource(path, string(source))
	if parseErr != nil {
		log.Printf("[%s] parse failed for %s: %s", correlationID, path, parseErr)
		sendDiagnostics(ctx, rawURI, ConvertParseError(parseErr))
		return nil
	}

	h.mu.Lock()
	h.trees[path] = unit
	h.mu.Unlock()

	log.Printf("[%s] publishing diagnostics for %s", correlationID, path)

	diagnostics := ConvertSemanticErrors(semantic.Analyze(unit.Units))
	sendDiagnostics(ctx, rawURI, diagnostics)
	return nil
}

func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}
	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func sendDiagnostics(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool { return &b }

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }
