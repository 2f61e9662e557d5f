package grammar

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"
)

var signatureParser = participle.MustBuild[Catalogue](
	participle.Lexer(SignatureLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

// Parse parses a catalogue of builtin signatures
func Parse(filename, source string) (*Catalogue, error) {
	catalogue, err := signatureParser.ParseString(filename, source)
	if err != nil {
		return nil, err
	}
	for _, sig := range catalogue.Signatures {
		if sig.IsMethod() && len(sig.Path) != 2 {
			return nil, fmt.Errorf("%s: method %s must be declared as Receiver.name", sig.Pos, strings.Join(sig.Path, "."))
		}
		if !sig.IsMethod() && len(sig.Path) != 1 {
			return nil, fmt.Errorf("%s: function %s cannot have a receiver", sig.Pos, strings.Join(sig.Path, "."))
		}
	}
	return catalogue, nil
}

// MustParse is Parse for catalogues compiled into the binary
func MustParse(filename, source string) *Catalogue {
	catalogue, err := Parse(filename, source)
	if err != nil {
		panic(FormatParseError(source, err))
	}
	return catalogue
}

// FormatParseError renders a caret-style parse error message.
func FormatParseError(src string, err error) string {
	pe, ok := err.(participle.Error)
	if !ok {
		return color.RedString("Unexpected error: %s", err)
	}

	pos := pe.Position()
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		return color.RedString("Syntax error at unknown location: %s", err)
	}

	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", max(0, pos.Column-1)) + "^"

	var b strings.Builder
	b.WriteString(color.RedString("Syntax error in %s at line %d, column %d:", pos.Filename, pos.Line, pos.Column))
	b.WriteString("\n")
	b.WriteString(line)
	b.WriteString("\n")
	b.WriteString(color.HiRedString(caret))
	b.WriteString("\n")
	fmt.Fprintf(&b, "→ %s", pe.Message())
	return b.String()
}
