package parser

import "loopsafe/internal/ast"

// ParseResult contains the full parsing result including metadata
type ParseResult struct {
	Contract        *ast.Contract
	ParseErrors     []ParseError
	ScanErrors      []ScanError
	MetadataVisitor *ast.MetadataVisitor
}

// ParseSourceWithMetadata parses source code and assigns metadata to every node
func ParseSourceWithMetadata(path string, source string) *ParseResult {
	contract, parseErrors, scanErrors := ParseSource(path, source)

	result := &ParseResult{
		Contract:    contract,
		ParseErrors: parseErrors,
		ScanErrors:  scanErrors,
	}
	if contract != nil {
		result.MetadataVisitor = ast.NewMetadataVisitor(source)
		result.MetadataVisitor.AssignMetadata(contract, 0)
	}
	return result
}

// HasErrors reports whether scanning or parsing failed
func (pr *ParseResult) HasErrors() bool {
	return len(pr.ParseErrors) > 0 || len(pr.ScanErrors) > 0
}

// FindNodeByPosition finds the innermost node at a position (for editor tooling)
func (pr *ParseResult) FindNodeByPosition(pos ast.Position) ast.Node {
	if pr.MetadataVisitor == nil {
		return nil
	}
	return pr.MetadataVisitor.FindNodeByPosition(pos)
}

// FindLoopAt returns the innermost for-loop containing pos
func (pr *ParseResult) FindLoopAt(pos ast.Position) *ast.ForStmt {
	if pr.MetadataVisitor == nil {
		return nil
	}
	loop, _ := pr.MetadataVisitor.FindEnclosing(pos, ast.FOR_STMT).(*ast.ForStmt)
	return loop
}
