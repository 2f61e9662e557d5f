package compiler

import (
	stderrors "errors"
	"fmt"
	"path"
	"sync"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"loopsafe/internal/ast"
	"loopsafe/internal/callgraph"
	"loopsafe/internal/config"
	"loopsafe/internal/errors"
	"loopsafe/internal/parser"
	"loopsafe/internal/semantic"
)

var log = commonlog.GetLogger("loopsafe.compiler")

// Result is a checked compilation. Units are ordered dependencies first.
type Result struct {
	Main   *ast.Contract
	Units  []*ast.Contract
	Loops  []*semantic.LoopAnnotation
	Errors []errors.CompilerError

	// Sources by module name, for diagnostics rendering
	Sources map[string]string
	Paths   map[string]string
}

// Compile loads the unit at mainPath and every unit it imports from
// bundle, then checks all loops. It returns the first diagnostic as a
// *errors.CompilerError; I/O failures are returned wrapped.
func Compile(mainPath string, bundle InputBundle, opts config.Options) (*Result, error) {
	res, err := Analyze(mainPath, bundle, opts)
	if err != nil {
		return nil, err
	}
	if len(res.Errors) > 0 {
		first := res.Errors[0]
		return res, &first
	}
	return res, nil
}

// Analyze is Compile without the first-error cut off: every diagnostic
// found is in Result.Errors. Loading stops at the first failing unit, since
// later stages need all units.
func Analyze(mainPath string, bundle InputBundle, opts config.Options) (*Result, error) {
	l := &loader{
		bundle: bundle,
		opts:   opts,
		res: &Result{
			Sources: make(map[string]string),
			Paths:   make(map[string]string),
		},
		units: make(map[string]*ast.Contract),
	}
	main, err := l.load(mainPath)
	if err != nil {
		return l.fail(err)
	}
	l.res.Main = main

	if cycle := findImportCycle(main.Name.Value, l.units); cycle != nil {
		return l.fail(cycle)
	}
	l.res.Units = topoOrder(main.Name.Value, l.units)
	log.Infof("loaded %d units from %s", len(l.res.Units), mainPath)

	l.check()
	return l.res, nil
}

type loader struct {
	bundle InputBundle
	opts   config.Options
	res    *Result

	mu    sync.Mutex
	units map[string]*ast.Contract
}

// fail turns a diagnostic into a result; any other error is returned.
func (l *loader) fail(err error) (*Result, error) {
	var ce *errors.CompilerError
	if stderrors.As(err, &ce) {
		l.res.Errors = append(l.res.Errors, *ce)
		return l.res, nil
	}
	return nil, err
}

// load parses the unit at mainPath and then every imported unit, one
// import level at a time. Units of a level are parsed concurrently when
// the Parallel option is set.
func (l *loader) load(mainPath string) (*ast.Contract, error) {
	main, err := l.parse(mainPath)
	if err != nil {
		return nil, err
	}
	if main.Kind != ast.ContractUnit {
		return nil, diagnostic(errors.NewSemanticError(errors.ErrorSyntax,
			fmt.Sprintf("%s must declare a contract, found module '%s'", mainPath, main.Name.Value), main.Name.Pos).Build())
	}
	if err := l.register(main, mainPath); err != nil {
		return nil, err
	}

	dir := path.Dir(mainPath)
	level := []*ast.Contract{main}
	for len(level) > 0 {
		var wanted []*ast.Use
		queued := make(map[string]bool)
		for _, unit := range level {
			for _, use := range uses(unit) {
				name := use.Module.Value
				if l.units[name] == nil && !queued[name] {
					queued[name] = true
					wanted = append(wanted, use)
				}
			}
		}

		next := make([]*ast.Contract, len(wanted))
		var g errgroup.Group
		if !l.opts.Enabled(config.Parallel) {
			g.SetLimit(1)
		}
		for i, use := range wanted {
			g.Go(func() error {
				unit, err := l.loadModule(dir, use)
				next[i] = unit
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		level = next
	}
	return main, nil
}

func (l *loader) loadModule(dir string, use *ast.Use) (*ast.Contract, error) {
	name := use.Module.Value
	file := path.Join(dir, name+l.opts.Extension)
	unit, err := l.parse(file)
	if stderrors.Is(err, ErrNotFound) {
		return nil, diagnostic(errors.ModuleNotFound(name, use.Module.Pos))
	}
	if err != nil {
		return nil, err
	}
	if unit.Kind != ast.ModuleUnit || unit.Name.Value != name {
		return nil, diagnostic(errors.NewSemanticError(errors.ErrorModuleNotFound,
			fmt.Sprintf("%s does not declare module '%s'", file, name), use.Module.Pos).
			WithNote(fmt.Sprintf("found %s '%s'", unit.Kind, unit.Name.Value)).
			Build())
	}
	return unit, l.register(unit, file)
}

func (l *loader) register(unit *ast.Contract, file string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := unit.Name.Value
	if _, exists := l.units[name]; exists {
		return diagnostic(errors.DuplicateDeclaration(name, unit.Name.Pos))
	}
	l.units[name] = unit
	l.res.Paths[name] = file
	return nil
}

// parse reads and parses one file. The first scan or parse error becomes a
// syntax diagnostic.
func (l *loader) parse(file string) (*ast.Contract, error) {
	src, err := l.bundle.Read(file)
	if err != nil {
		return nil, err
	}
	log.Debugf("parsing %s", file)
	unit, parseErrs, scanErrs := parser.ParseSource(file, src)
	switch {
	case len(scanErrs) > 0:
		e := scanErrs[0]
		return nil, diagnostic(errors.NewSemanticError(errors.ErrorSyntax, e.Message,
			ast.Position{Filename: file, Line: e.Position.Line, Column: e.Position.Column, Offset: e.Position.Offset}).
			WithLength(e.Length).Build())
	case len(parseErrs) > 0:
		e := parseErrs[0]
		return nil, diagnostic(errors.Syntax(e.Message,
			ast.Position{Filename: file, Line: e.Position.Line, Column: e.Position.Column, Offset: e.Position.Offset}))
	case unit == nil:
		return nil, diagnostic(errors.Syntax("empty source", ast.Position{Filename: file}))
	}
	l.mu.Lock()
	l.res.Sources[unit.Name.Value] = src
	l.mu.Unlock()
	return unit, nil
}

func diagnostic(err errors.CompilerError) error {
	return &err
}

// check runs the analysis over the loaded units. Call graph fragments are
// built concurrently; everything after the merge is sequential.
func (l *loader) check() {
	units := l.res.Units
	program, errs := semantic.NewProgram(units...)
	if len(errs) > 0 {
		l.res.Errors = errs
		return
	}

	fragments := make([]*callgraph.Fragment, len(units))
	var g errgroup.Group
	if !l.opts.Enabled(config.Parallel) {
		g.SetLimit(1)
	}
	for i, unit := range units {
		g.Go(func() error {
			fragments[i] = callgraph.BuildFragment(unit, program)
			return nil
		})
	}
	_ = g.Wait()

	graph, err := callgraph.Merge(fragments...)
	if err != nil {
		l.res.Errors = []errors.CompilerError{errors.NewSemanticError(errors.ErrorDuplicateDeclaration, err.Error(), ast.Position{}).Build()}
		return
	}
	sets := callgraph.Solve(graph)
	log.Debugf("solved mutation sets for %d functions", graph.NumNodes())

	a := semantic.NewAnalyzer(program, sets)
	for _, unit := range units {
		a.AnalyzeUnit(unit)
		if len(a.Errors()) > 0 && !l.opts.Enabled(config.AllErrors) {
			break
		}
	}
	l.res.Loops = a.Loops()
	l.res.Errors = a.Errors()
}
