package lsp

import (
	"fmt"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"loopsafe/internal/ast"
	"loopsafe/internal/semantic"
)

// TextDocumentHover shows the verified summary of the innermost loop
// under the cursor.
func (h *Handler) TextDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc, err := h.getOrUpdate(ctx, params.TextDocument.URI)
	if err != nil || doc == nil || doc.result == nil {
		return nil, err
	}
	pos := positionOf(doc.text, params.Position)
	node := doc.parsed.FindLoopAt(pos)
	if node == nil || doc.result.Main == nil {
		return nil, nil
	}
	loop := annotationFor(doc.result.Loops, doc.result.Main.Name.Value, node.Pos)
	if loop == nil {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: describeLoop(loop)},
		Range: &protocol.Range{
			Start: protocol.Position{Line: uint32(loop.Node.Pos.Line - 1), Character: uint32(loop.Node.Pos.Column - 1)},
			End:   protocol.Position{Line: uint32(loop.Node.EndPos.Line - 1), Character: uint32(loop.Node.EndPos.Column - 1)},
		},
	}, nil
}

// positionOf converts an LSP position into a source position, offset
// included, for lookups in the parse metadata.
func positionOf(text string, p protocol.Position) ast.Position {
	offset := 0
	for line := uint32(0); line < p.Line; line++ {
		i := strings.IndexByte(text[offset:], '\n')
		if i < 0 {
			offset = len(text)
			break
		}
		offset += i + 1
	}
	offset = min(offset+int(p.Character), len(text))
	return ast.Position{Offset: offset, Line: int(p.Line) + 1, Column: int(p.Character) + 1}
}

// annotationFor finds the verified loop of module starting at pos. The
// compiler parses its own copy of the document, so loops match by position.
func annotationFor(loops []*semantic.LoopAnnotation, module string, pos ast.Position) *semantic.LoopAnnotation {
	for _, l := range loops {
		if l.Module == module && l.Node.Pos.Line == pos.Line && l.Node.Pos.Column == pos.Column {
			return l
		}
	}
	return nil
}

func describeLoop(l *semantic.LoopAnnotation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**for %s: %s**\n\n", l.Node.Var.Value, l.Elem)
	fmt.Fprintf(&b, "- iterates: `%s` (%s)\n", l.Space, l.Space.Kind)
	fmt.Fprintf(&b, "- at most %s iterations\n", l.Space.Bound())
	if len(l.Roots) > 0 {
		roots := make([]string, len(l.Roots))
		for i, r := range l.Roots {
			roots[i] = "`" + r.String() + "`"
		}
		fmt.Fprintf(&b, "- protected: %s\n", strings.Join(roots, ", "))
	}
	if l.Materialize {
		b.WriteString("- elements are evaluated once, left to right, before the first iteration\n")
	}
	return b.String()
}
