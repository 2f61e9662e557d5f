package parser

import "loopsafe/internal/ast"

// ParseSource scans and parses one unit. The returned tree may be partial
// when errors are reported.
func ParseSource(path string, source string) (*ast.Contract, []ParseError, []ScanError) {
	scanner := NewScanner(source)
	tokens := scanner.ScanTokens()

	parser := NewParser(path, tokens)
	contract := parser.ParseContract()

	return contract, parser.errors, scanner.errors
}
