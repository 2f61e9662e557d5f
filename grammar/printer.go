package grammar

import (
	"fmt"
	"strings"
)

func (c *Catalogue) String() string {
	var b strings.Builder
	for _, s := range c.Signatures {
		for _, d := range s.Doc {
			b.WriteString(d.Text)
			b.WriteString("\n")
		}
		b.WriteString(s.String())
		b.WriteString(";\n")
	}
	return b.String()
}

// String prints the signature without its doc comments or the trailing ';'
func (s *Signature) String() string {
	var b strings.Builder
	b.WriteString(s.Kind)
	b.WriteString(" ")
	b.WriteString(strings.Join(s.Path, "."))
	b.WriteString("(")
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString(")")
	if s.Return != nil {
		b.WriteString(" -> ")
		b.WriteString(s.Return.Name)
	}
	for _, f := range s.Flags {
		b.WriteString(" ")
		b.WriteString(f)
	}
	return b.String()
}

func (p *Param) String() string {
	return fmt.Sprintf("%s: %s", p.Name, p.Type.Name)
}

// Docs returns the doc comment text with the leading slashes removed
func (s *Signature) Docs() string {
	lines := make([]string, len(s.Doc))
	for i, d := range s.Doc {
		lines[i] = strings.TrimSpace(strings.TrimPrefix(d.Text, "///"))
	}
	return strings.Join(lines, "\n")
}
