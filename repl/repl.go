// Package repl SPDX-License-Identifier: Apache-2.0
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"loopsafe/internal/ast"
	"loopsafe/internal/compiler"
	"loopsafe/internal/config"
	"loopsafe/internal/errors"
	"loopsafe/internal/parser"
)

const (
	PROMPT       = ">> "
	CONTINUATION = ".. "
)

// Session keeps the modules entered so far. Each pasted module replaces any
// earlier one of the same name; each pasted contract is analysed against
// them.
type Session struct {
	opts    config.Options
	modules compiler.MapBundle
}

func NewSession(opts config.Options) *Session {
	opts.Flags.Enable(config.AllErrors)
	return &Session{opts: opts, modules: compiler.MapBundle{}}
}

// LineReader prompts for and returns one line of input. A
// *liner.State satisfies it.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

// ScannerReader reads lines from a non-interactive input.
type ScannerReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewScannerReader(in io.Reader, out io.Writer) *ScannerReader {
	return &ScannerReader{scanner: bufio.NewScanner(in), out: out}
}

func (r *ScannerReader) Prompt(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

// Start reads units until the reader fails. A unit ends when its braces
// balance. Every complete unit is passed to Eval and recorded with record,
// which may be nil.
func Start(r LineReader, out io.Writer, record func(unit string)) {
	s := NewSession(config.Default())

	for {
		unit, ok := readUnit(r)
		if !ok {
			fmt.Fprintln(out)
			return
		}
		if strings.TrimSpace(unit) == "" {
			continue
		}
		fmt.Fprint(out, s.Eval(unit))
		if record != nil {
			record(unit)
		}
	}
}

func readUnit(r LineReader) (string, bool) {
	var b strings.Builder
	depth := 0
	for {
		prompt := PROMPT
		if b.Len() > 0 {
			prompt = CONTINUATION
		}
		line, err := r.Prompt(prompt)
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth <= 0 && strings.TrimSpace(b.String()) != "" {
			return b.String(), true
		}
		if strings.TrimSpace(b.String()) == "" {
			b.Reset()
		}
	}
}

// Eval stores a module or analyses a contract and returns the output to
// print.
func (s *Session) Eval(src string) string {
	unit, parseErrs, scanErrs := parser.ParseSource("repl", src)
	switch {
	case len(scanErrs) > 0:
		e := scanErrs[0]
		return color.RedString("error") + fmt.Sprintf(": %d:%d: %s\n", e.Position.Line, e.Position.Column, e.Message)
	case len(parseErrs) > 0:
		e := parseErrs[0]
		return color.RedString("error") + fmt.Sprintf(": %d:%d: %s\n", e.Position.Line, e.Position.Column, e.Message)
	case unit == nil:
		return ""
	}

	file := unit.Name.Value + s.opts.Extension
	if unit.Kind == ast.ModuleUnit {
		s.modules[file] = src
		return fmt.Sprintf("module %s stored\n", unit.Name.Value)
	}

	bundle := compiler.MapBundle{file: src}
	for name, text := range s.modules {
		if name != file {
			bundle[name] = text
		}
	}
	res, err := compiler.Analyze(file, bundle, s.opts)
	if err != nil {
		return color.RedString("error") + ": " + err.Error() + "\n"
	}

	var b strings.Builder
	for _, e := range res.Errors {
		source, _ := bundle.Read(e.Position.Filename)
		b.WriteString(errors.NewErrorReporter(e.Position.Filename, source).FormatError(e))
	}
	if len(res.Errors) > 0 {
		return b.String()
	}
	for _, loop := range res.Loops {
		fmt.Fprintf(&b, "%d:%d: for %s: %s over %s, at most %s iterations\n",
			loop.Node.Pos.Line, loop.Node.Pos.Column, loop.Node.Var.Value, loop.Elem, loop.Space, loop.Space.Bound())
	}
	b.WriteString(color.GreenString("ok") + fmt.Sprintf(": %d loop(s) verified\n", len(res.Loops)))
	return b.String()
}
