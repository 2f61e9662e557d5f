// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"loopsafe/internal/compiler"
	"loopsafe/internal/config"
	"loopsafe/internal/errors"
	"loopsafe/internal/semantic"
)

func main() {
	opts := config.Default()
	annotate := flag.Bool("annotate", false, "print the verified summary of every loop")
	sequential := flag.Bool("sequential", false, "parse and build call graphs on one goroutine")
	verbose := flag.Bool("v", false, "enable debug logging")
	all := flag.Bool("all", false, "report every error instead of stopping at the first")
	flag.StringVar(&opts.Extension, "ext", opts.Extension, "source file extension of imported modules")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: loopsafe [flags] <main.ka>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	opts.Flags.Set(config.Annotate, *annotate)
	opts.Flags.Set(config.Parallel, !*sequential)
	opts.Flags.Set(config.Verbose, *verbose)
	opts.Flags.Set(config.AllErrors, *all)
	commonlog.Configure(opts.Verbosity(), nil)

	os.Exit(run(flag.Arg(0), opts))
}

func run(path string, opts config.Options) int {
	startTime := time.Now()
	bundle := compiler.FilesystemBundle{Root: filepath.Dir(path)}

	res, err := compiler.Analyze(filepath.Base(path), bundle, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", color.RedString("error"), err)
		return 1
	}

	formattedDuration := formatDuration(time.Since(startTime))

	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			fmt.Print(report(bundle, e))
		}
		color.Red("Analysis failed with %d error(s) after %s", len(res.Errors), formattedDuration)
		return 1
	}

	if opts.Enabled(config.Annotate) {
		for _, loop := range res.Loops {
			fmt.Println(describe(res, loop))
		}
	}
	color.Green("Checked %d loop(s) in %d unit(s) of %s in %s", len(res.Loops), len(res.Units), path, formattedDuration)
	return 0
}

// report renders e against the file it was reported in
func report(bundle compiler.InputBundle, e errors.CompilerError) string {
	source, err := bundle.Read(e.Position.Filename)
	if err != nil {
		source = ""
	}
	return errors.NewErrorReporter(e.Position.Filename, source).FormatError(e)
}

func describe(res *compiler.Result, loop *semantic.LoopAnnotation) string {
	var b strings.Builder
	pos := loop.Node.Pos
	fmt.Fprintf(&b, "%s:%d:%d: %s::%s: for %s: %s in %s",
		res.Paths[loop.Module], pos.Line, pos.Column, loop.Module, loop.Function,
		loop.Node.Var.Value, loop.Elem, loop.Space)
	fmt.Fprintf(&b, " (%s, at most %s)", loop.Space.Kind, loop.Space.Bound())
	if len(loop.Roots) > 0 {
		roots := make([]string, len(loop.Roots))
		for i, r := range loop.Roots {
			roots[i] = r.String()
		}
		fmt.Fprintf(&b, " protects %s", strings.Join(roots, ", "))
	}
	if loop.Materialize {
		b.WriteString(" [materialized]")
	}
	return b.String()
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
