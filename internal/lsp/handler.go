package lsp

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"loopsafe/internal/ast"
	"loopsafe/internal/compiler"
	"loopsafe/internal/config"
	"loopsafe/internal/parser"
)

var log = commonlog.GetLogger("loopsafe.lsp")

// Define the set of supported semantic token types (as required by the LSP spec)
var SemanticTokenTypes = []string{
	"namespace",
	"type",
	"typeParameter",
	"function",
	"variable",
	"parameter",
	"property",
	"keyword",
	"number",
	"operator",
	"modifier",
}

// Define the set of supported semantic token modifiers (for extra tagging like declaration, readonly, etc.)
var SemanticTokenModifiers = []string{
	"declaration",
	"definition",
	"readonly",
	"static",
	"deprecated",
	"abstract",
}

// document is the state of one open file
type document struct {
	text   string
	parsed *parser.ParseResult
	result *compiler.Result // nil unless the file is a contract that parsed
}

// Handler implements the LSP server handlers. Every change re-runs the
// loop analysis for the changed contract and its imports, reading other
// open documents from memory and everything else from disk.
type Handler struct {
	opts config.Options

	mu   sync.RWMutex
	docs map[string]*document
}

func NewHandler(opts config.Options) *Handler {
	opts.Flags.Enable(config.AllErrors)
	return &Handler{
		opts: opts,
		docs: make(map[string]*document),
	}
}

// Initialize responds to the LSP client's initialize request and advertises the server's capabilities
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("LSP Initialize called")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			HoverProvider: true,
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("LSP initialized")
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Info("LSP shutdown")
	return nil
}

func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen handles file open notifications from the editor
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Infof("opened %s", params.TextDocument.URI)
	return h.update(ctx, params.TextDocument.URI, &params.TextDocument.Text)
}

// TextDocumentDidChange handles file change notifications. Only full
// document sync is advertised, so the last change holds the whole text.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Debugf("changed %s", params.TextDocument.URI)
	var text *string
	if n := len(params.ContentChanges); n > 0 {
		switch change := params.ContentChanges[n-1].(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = &change.Text
		case protocol.TextDocumentContentChangeEvent:
			text = &change.Text
		}
	}
	return h.update(ctx, params.TextDocument.URI, text)
}

// TextDocumentDidClose handles file close notifications from the editor
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Infof("closed %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.docs, path)

	return nil
}

// TextDocumentSemanticTokensFull handles semantic token requests for the entire document
func (h *Handler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	doc, err := h.getOrUpdate(ctx, params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	tokens := collectSemanticTokens(doc.parsed.Contract)

	var data []uint32
	var prevLine, prevStart uint32

	// Encode tokens into LSP wire format (using delta-line, delta-start compression)
	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		var deltaStart uint32
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		} else {
			deltaStart = token.StartChar
		}

		data = append(data, deltaLine, deltaStart, token.Length, uint32(token.TokenType), uint32(token.TokenModifiers))

		prevLine = token.Line
		prevStart = token.StartChar
	}

	return &protocol.SemanticTokens{
		Data: data,
	}, nil
}

func (h *Handler) getOrUpdate(ctx *glsp.Context, uri protocol.DocumentUri) (*document, error) {
	path, err := uriToPath(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", uri, err)
	}

	h.mu.RLock()
	doc, ok := h.docs[path]
	h.mu.RUnlock()
	if ok {
		return doc, nil
	}

	if err := h.update(ctx, uri, nil); err != nil {
		return nil, err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.docs[path], nil
}

// update re-analyses the document at uri and publishes its diagnostics.
// A nil text reads the document from disk.
func (h *Handler) update(ctx *glsp.Context, uri protocol.DocumentUri, text *string) error {
	path, err := uriToPath(uri)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", uri, err)
	}
	if text == nil {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", path, err)
		}
		s := string(content)
		text = &s
	}

	doc, diagnostics := h.analyze(path, *text)

	h.mu.Lock()
	h.docs[path] = doc
	h.mu.Unlock()

	sendDiagnosticNotification(ctx, uri, diagnostics)
	return nil
}

func (h *Handler) analyze(path, text string) (*document, []protocol.Diagnostic) {
	file := filepath.Base(path)
	doc := &document{text: text, parsed: parser.ParseSourceWithMetadata(file, text)}
	if doc.parsed.HasErrors() {
		diagnostics := append(ConvertScanErrors(doc.parsed.ScanErrors), ConvertParseErrors(doc.parsed.ParseErrors)...)
		return doc, diagnostics
	}
	if doc.parsed.Contract == nil || doc.parsed.Contract.Kind != ast.ContractUnit {
		return doc, []protocol.Diagnostic{}
	}

	bundle := &overlayBundle{dir: filepath.Dir(path), open: h.openTexts()}
	bundle.open[path] = text
	res, err := compiler.Analyze(file, bundle, h.opts)
	if err != nil {
		log.Errorf("analysing %s: %s", path, err)
		return doc, []protocol.Diagnostic{}
	}
	doc.result = res
	diagnostics := ConvertCompilerErrors(res.Errors, file)
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}
	return doc, diagnostics
}

func (h *Handler) openTexts() map[string]string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	texts := make(map[string]string, len(h.docs))
	for path, doc := range h.docs {
		texts[path] = doc.text
	}
	return texts
}

// overlayBundle serves open documents from memory and everything else
// from the directory of the analysed contract.
type overlayBundle struct {
	dir  string
	open map[string]string
}

func (b *overlayBundle) Read(path string) (string, error) {
	if text, ok := b.open[filepath.Join(b.dir, filepath.FromSlash(path))]; ok {
		return text, nil
	}
	return compiler.FilesystemBundle{Root: b.dir}.Read(path)
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove the leading slash of /C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	if diagnosticsJSON, err := json.Marshal(diagnostics); err == nil {
		log.Debugf("sending diagnostics: %s", diagnosticsJSON)
	}

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
