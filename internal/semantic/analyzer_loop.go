package semantic

import (
	"fmt"

	"loopsafe/internal/ast"
	"loopsafe/internal/errors"
	"loopsafe/internal/storage"
	"loopsafe/internal/types"
)

// LoopAnnotation is the verified summary of one for-loop
type LoopAnnotation struct {
	Node     *ast.ForStmt
	Module   string
	Function string

	Space IterationSpace
	Elem  types.Type
	Roots []storage.Root

	// Materialize is set when the iterable's elements are evaluated into a
	// snapshot before the first iteration
	Materialize bool
	Plan        *MaterializationPlan
}

// Metadata renders the annotation for the AST node
func (l *LoopAnnotation) Metadata() *ast.LoopMetadata {
	roots := make([]string, len(l.Roots))
	for i, r := range l.Roots {
		roots[i] = r.String()
	}
	return &ast.LoopMetadata{
		SpaceKind:    l.Space.Kind.String(),
		ElementType:  l.Elem.String(),
		Bound:        l.Space.Bound().String(),
		Roots:        roots,
		Materialized: l.Materialize,
	}
}

func (a *Analyzer) analyzeForStatement(loop *ast.ForStmt) {
	before := len(a.errors)
	name := loop.Var.Value

	var declared types.Type
	if loop.Type == nil {
		a.addCompilerError(errors.Syntax(fmt.Sprintf("loop variable '%s' needs a type annotation", name), loop.Var.EndPos))
	} else {
		declared = a.resolveType(loop.Type)
	}

	res, ok := a.resolveIterable(loop.Iter, declared)
	if ok && declared != nil {
		a.checkLoopVariableType(declared, res.Space.Elem, loop.Type.Pos)
	}

	var roots []storage.Root
	if res != nil {
		roots = res.Roots
	}
	if a.program.IsConstant(a.module, name) {
		a.addCompilerError(errors.LoopNameCollision(name, "a constant", loop.Var.Pos))
	}
	binding := &LoopBinding{Name: name, Type: declared, SourceRoots: roots, Position: loop.Var.Pos}
	if err := a.scope.enter(binding); err != nil {
		a.addCompilerError(*err)
	}
	a.env.PushLoop(name, roots)
	log.Debugf("loop %s at depth %d over %d roots", name, binding.Depth, len(roots))

	a.analyzeFunctionBlock(loop.Body)

	a.env.PopLoop()
	a.scope.exit()

	if res == nil || len(a.errors) > before {
		return
	}
	ann := &LoopAnnotation{
		Node:        loop,
		Module:      a.module,
		Function:    a.fn.Name.Value,
		Space:       res.Space,
		Elem:        res.Space.Elem,
		Roots:       roots,
		Materialize: res.Plan.Snapshot(),
		Plan:        res.Plan,
	}
	ast.AnnotateLoop(loop, ann.Metadata())
	a.loops = append(a.loops, ann)
}
