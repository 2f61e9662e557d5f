package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"loopsafe/internal/errors"
	"loopsafe/internal/parser"
)

// ConvertParseErrors transforms parser errors into LSP diagnostics.
func ConvertParseErrors(parseErrors []parser.ParseError) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic

	for _, parseErr := range parseErrors {
		diagnostic := protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{
					Line:      uint32(parseErr.Position.Line - 1),   // Convert to 0-based indexing
					Character: uint32(parseErr.Position.Column - 1), // Convert to 0-based indexing
				},
				End: protocol.Position{
					Line:      uint32(parseErr.Position.Line - 1),
					Character: uint32(parseErr.Position.Column + 5), // Rough span for visibility
				},
			},
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("loopsafe-parser"),
			Message:  parseErr.Message,
		}
		diagnostics = append(diagnostics, diagnostic)
	}

	return diagnostics
}

// ConvertScanErrors transforms scanner errors into LSP diagnostics.
func ConvertScanErrors(scanErrors []parser.ScanError) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic

	for _, scanErr := range scanErrors {
		endChar := uint32(scanErr.Position.Column - 1 + scanErr.Length)
		if scanErr.Length == 0 {
			endChar = uint32(scanErr.Position.Column + 3) // Default small span
		}

		diagnostic := protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{
					Line:      uint32(scanErr.Position.Line - 1),
					Character: uint32(scanErr.Position.Column - 1),
				},
				End: protocol.Position{
					Line:      uint32(scanErr.Position.Line - 1),
					Character: endChar,
				},
			},
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("loopsafe-scanner"),
			Message:  scanErr.Message,
		}
		diagnostics = append(diagnostics, diagnostic)
	}

	return diagnostics
}

// ConvertCompilerErrors transforms analysis errors reported in file into
// LSP diagnostics. The error code is the diagnostic code and notes are
// appended to the message.
func ConvertCompilerErrors(errs []errors.CompilerError, file string) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic

	for _, err := range errs {
		if err.Position.Filename != "" && err.Position.Filename != file {
			continue
		}
		line := max(err.Position.Line-1, 0)
		start := max(err.Position.Column-1, 0)
		length := err.Length
		if length == 0 {
			length = 1
		}

		message := string(err.Kind) + ": " + err.Message
		for _, note := range err.Notes {
			message += "\nnote: " + note
		}
		if err.HelpText != "" {
			message += "\nhelp: " + err.HelpText
		}

		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: uint32(line), Character: uint32(start)},
				End:   protocol.Position{Line: uint32(line), Character: uint32(start + length)},
			},
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Code:     &protocol.IntegerOrString{Value: err.Code},
			Source:   ptrString("loopsafe"),
			Message:  message,
		})
	}

	return diagnostics
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
