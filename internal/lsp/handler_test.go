package lsp_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"loopsafe/internal/config"
	"loopsafe/internal/lsp"
)

const mainSource = `contract Main {
    #[storage]
    struct State { xs: U256[3] }

    fn run() -> U256 {
        let mut total: U256 = 0;
        for x: U256 in State.xs {
            total += x;
        }
        return total;
    }
}`

const mutatingSource = `contract Main {
    #[storage]
    struct State { xs: U256[3] }

    fn run() {
        for x: U256 in State.xs {
            State.xs[0] = x;
        }
    }
}`

// notifications records every diagnostics notification the handler sends
type notifications struct {
	published []*protocol.PublishDiagnosticsParams
}

func (n *notifications) context() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			if p, ok := params.(*protocol.PublishDiagnosticsParams); ok && method == protocol.ServerTextDocumentPublishDiagnostics {
				n.published = append(n.published, p)
			}
		},
	}
}

func (n *notifications) last(t *testing.T) []protocol.Diagnostic {
	t.Helper()
	require.NotEmpty(t, n.published, "no diagnostics published")
	return n.published[len(n.published)-1].Diagnostics
}

func uriOf(path string) string {
	return "file://" + filepath.ToSlash(path)
}

func open(t *testing.T, h *lsp.Handler, ctx *glsp.Context, path, text string) {
	t.Helper()
	err := h.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uriOf(path), LanguageID: "loopsafe", Text: text},
	})
	require.NoError(t, err)
}

func TestDidOpenPublishesLoopDiagnostics(t *testing.T) {
	h := lsp.NewHandler(config.Default())
	n := &notifications{}
	path := filepath.Join(t.TempDir(), "main.ka")

	open(t, h, n.context(), path, mainSource)
	assert.Empty(t, n.last(t))

	err := h.TextDocumentDidChange(n.context(), &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uriOf(path)},
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: mutatingSource}},
	})
	require.NoError(t, err)

	diagnostics := n.last(t)
	require.Len(t, diagnostics, 1)
	d := diagnostics[0]
	assert.Contains(t, d.Message, "cannot modify loop variable `xs`")
	assert.Equal(t, uint32(6), d.Range.Start.Line)
	require.NotNil(t, d.Source)
	assert.Equal(t, "loopsafe", *d.Source)
}

func TestOpenModulesResolveFromMemory(t *testing.T) {
	h := lsp.NewHandler(config.Default())
	n := &notifications{}
	dir := t.TempDir()

	open(t, h, n.context(), filepath.Join(dir, "lib1.ka"), `module lib1 {
    #[storage]
    struct State { queue: DynArray<U256, 5> }

    fn popqueue() {
        State.queue.pop();
    }
}`)
	assert.Empty(t, n.last(t))

	open(t, h, n.context(), filepath.Join(dir, "main.ka"), `contract Main {
    use lib1;

    fn run() {
        for x: U256 in lib1::State.queue {
            lib1::popqueue();
        }
    }
}`)
	diagnostics := n.last(t)
	require.Len(t, diagnostics, 1)
	assert.Contains(t, diagnostics[0].Message, "cannot modify loop variable `queue`")
	assert.Contains(t, diagnostics[0].Message, "`lib1::popqueue` may write to `queue`")
}

func TestMissingModuleOnDisk(t *testing.T) {
	h := lsp.NewHandler(config.Default())
	n := &notifications{}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib2.ka"), []byte(`module lib2 {
    const LIMIT: U8 = 4;
}`), 0o644))

	open(t, h, n.context(), filepath.Join(dir, "main.ka"), `contract Main {
    use lib2;
    use lib3;

    fn run() {
        for i: U8 in range(lib2::LIMIT) { }
    }
}`)
	diagnostics := n.last(t)
	require.Len(t, diagnostics, 1)
	assert.Contains(t, diagnostics[0].Message, "lib3")
}

func TestSyntaxErrorsPublishParserDiagnostics(t *testing.T) {
	h := lsp.NewHandler(config.Default())
	n := &notifications{}

	open(t, h, n.context(), filepath.Join(t.TempDir(), "lib.ka"), "module lib {\n    fn f( {\n}")
	diagnostics := n.last(t)
	require.NotEmpty(t, diagnostics)
	require.NotNil(t, diagnostics[0].Source)
	assert.Contains(t, []string{"loopsafe-parser", "loopsafe-scanner"}, *diagnostics[0].Source)
}

func TestHoverShowsLoopSummary(t *testing.T) {
	h := lsp.NewHandler(config.Default())
	n := &notifications{}
	path := filepath.Join(t.TempDir(), "main.ka")
	open(t, h, n.context(), path, mainSource)

	hover, err := h.TextDocumentHover(n.context(), &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uriOf(path)},
			Position:     protocol.Position{Line: 7, Character: 12},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, hover)

	content, ok := hover.Contents.(protocol.MarkupContent)
	require.True(t, ok)
	assert.Contains(t, content.Value, "for x: U256")
	assert.Contains(t, content.Value, "at most 3 iterations")
	assert.Contains(t, content.Value, "`Main::xs`")
	require.NotNil(t, hover.Range)
	assert.Equal(t, uint32(6), hover.Range.Start.Line)

	// outside any loop
	hover, err = h.TextDocumentHover(n.context(), &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uriOf(path)},
			Position:     protocol.Position{Line: 9, Character: 9},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, hover)
}

func TestTextDocumentSemanticTokensFull(t *testing.T) {
	h := lsp.NewHandler(config.Default())
	n := &notifications{}
	path := filepath.Join(t.TempDir(), "main.ka")
	open(t, h, n.context(), path, mainSource)

	tokens, err := h.TextDocumentSemanticTokensFull(n.context(), &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uriOf(path)},
	})
	require.NoError(t, err, "TextDocumentSemanticTokensFull returned error")
	require.NotNil(t, tokens, "Returned tokens should not be nil")

	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err, "Failed to decode semantic tokens")
	require.NotEmpty(t, decoded, "No semantic tokens decoded")

	assertToken(t, findToken(t, decoded, 3, 12), 3, 12, 5, "type", []string{"declaration"})
	assertToken(t, findToken(t, decoded, 3, 20), 3, 20, 2, "property", []string{"declaration"})
	assertToken(t, findToken(t, decoded, 5, 8), 5, 8, 3, "function", []string{"declaration"})
	assertToken(t, findToken(t, decoded, 6, 17), 6, 17, 5, "variable", []string{"declaration"})
	assertToken(t, findToken(t, decoded, 7, 13), 7, 13, 1, "variable", []string{"declaration", "readonly"})
	assertToken(t, findToken(t, decoded, 7, 16), 7, 16, 4, "type", nil)
}

func TestDidCloseForgetsDocument(t *testing.T) {
	h := lsp.NewHandler(config.Default())
	n := &notifications{}
	path := filepath.Join(t.TempDir(), "main.ka")
	open(t, h, n.context(), path, mainSource)

	require.NoError(t, h.TextDocumentDidClose(n.context(), &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uriOf(path)},
	}))

	// the file was never written, so a reload from disk fails
	_, err := h.TextDocumentSemanticTokensFull(n.context(), &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uriOf(path)},
	})
	require.Error(t, err)
}

type DecodedToken struct {
	Index     int
	Line      uint32
	Char      uint32
	Length    uint32
	Type      string
	Modifiers []string
}

func decodeSemanticTokens(raw []uint32) ([]DecodedToken, error) {
	if len(raw)%5 != 0 {
		return nil, fmt.Errorf("raw token data length %d is not a multiple of 5", len(raw))
	}

	var (
		decoded []DecodedToken
		line    uint32
		char    uint32
	)

	for i := 0; i < len(raw); i += 5 {
		deltaLine := raw[i]
		deltaStart := raw[i+1]
		length := raw[i+2]
		tokenTypeIdx := raw[i+3]
		tokenModMask := raw[i+4]

		if deltaLine == 0 {
			char += deltaStart
		} else {
			line += deltaLine
			char = deltaStart
		}

		var modifiers []string
		for j, name := range lsp.SemanticTokenModifiers {
			if tokenModMask&(1<<j) != 0 {
				modifiers = append(modifiers, name)
			}
		}

		decoded = append(decoded, DecodedToken{
			Index:     i / 5,
			Line:      line + 1, // LSP uses 0-based indexing
			Char:      char + 1, // LSP uses 0-based indexing
			Length:    length,
			Type:      lsp.SemanticTokenTypes[tokenTypeIdx],
			Modifiers: modifiers,
		})
	}

	return decoded, nil
}

func findToken(t *testing.T, tokens []DecodedToken, line, char uint32) *DecodedToken {
	t.Helper()
	for i := range tokens {
		if tokens[i].Line == line && tokens[i].Char == char {
			return &tokens[i]
		}
	}
	require.Failf(t, "token not found", "no token at %d:%d", line, char)
	return nil
}

func assertToken(t *testing.T, token *DecodedToken, expectedLine, expectedChar, expectedLength uint32, expectedType string, expectedModifiers []string) {
	require.Equal(t, expectedLine, token.Line, "line mismatch (expected line %d)", expectedLine)
	require.Equal(t, expectedChar, token.Char, "char mismatch (expected char %d)", expectedChar)
	require.Equal(t, expectedLength, token.Length, "length mismatch")
	require.Equal(t, expectedType, token.Type, "type mismatch")
	require.ElementsMatch(t, expectedModifiers, token.Modifiers, "modifiers mismatch")
}
