package semantic

import (
	"github.com/tliron/commonlog"

	"loopsafe/internal/ast"
	"loopsafe/internal/callgraph"
	"loopsafe/internal/errors"
	"loopsafe/internal/types"
)

var log = commonlog.GetLogger("loopsafe.semantic")

// Analyzer checks the units of a Program. Mutation sets come from the call
// graph of the whole compilation and are only read here.
type Analyzer struct {
	program *Program
	sets    callgraph.MutationSets
	errors  []errors.CompilerError
	loops   []*LoopAnnotation

	constants map[string]*operand
	folding   map[string]bool

	// State of the function being analysed
	module string
	fn     *ast.Function
	ret    types.Type
	scope  *scopeManager
	env    *callgraph.Env
}

func NewAnalyzer(program *Program, sets callgraph.MutationSets) *Analyzer {
	return &Analyzer{
		program:   program,
		sets:      sets,
		constants: make(map[string]*operand),
		folding:   make(map[string]bool),
	}
}

// Errors returns every error recorded so far, in the order found
func (a *Analyzer) Errors() []errors.CompilerError {
	return a.errors
}

// Loops returns the annotations of every loop that passed all checks
func (a *Analyzer) Loops() []*LoopAnnotation {
	return a.loops
}

// Check runs the whole analysis sequentially: declarations, call graph,
// mutation sets, then every unit in order.
func Check(units ...*ast.Contract) ([]*LoopAnnotation, []errors.CompilerError) {
	program, errs := NewProgram(units...)
	if len(errs) > 0 {
		return nil, errs
	}
	fragments := make([]*callgraph.Fragment, len(units))
	for i, unit := range units {
		fragments[i] = callgraph.BuildFragment(unit, program)
	}
	graph, err := callgraph.Merge(fragments...)
	if err != nil {
		return nil, []errors.CompilerError{errors.NewSemanticError(errors.ErrorDuplicateDeclaration, err.Error(), ast.Position{}).Build()}
	}
	a := NewAnalyzer(program, callgraph.Solve(graph))
	for _, unit := range units {
		a.AnalyzeUnit(unit)
	}
	return a.Loops(), a.Errors()
}

// AnalyzeUnit checks the declarations and function bodies of one unit
func (a *Analyzer) AnalyzeUnit(unit *ast.Contract) {
	module := unit.Name.Value
	log.Debugf("analysing %s %s", unit.Kind, module)

	for _, item := range unit.Items {
		switch node := item.(type) {
		case *ast.Use:
			if a.program.Unit(node.Module.Value) == nil {
				a.addCompilerError(errors.ModuleNotFound(node.Module.Value, node.Module.Pos))
			}
		case *ast.Struct:
			if _, err := a.program.Registry.Struct(module, node.Name.Value); err != nil {
				a.addTypeError(err)
			}
		case *ast.ConstDecl:
			a.inUnit(module, func() { a.constant(module, node.Name.Value) })
		}
	}

	for _, item := range unit.Items {
		if fn, ok := item.(*ast.Function); ok {
			a.analyzeFunction(module, fn)
		}
	}
}

// inUnit runs f with an empty function context in module, as needed for
// unit-level constant expressions.
func (a *Analyzer) inUnit(module string, f func()) {
	savedModule, savedFn, savedRet, savedScope, savedEnv := a.module, a.fn, a.ret, a.scope, a.env
	a.module, a.fn, a.ret = module, nil, nil
	a.scope = newScopeManager()
	a.scope.pushBlock()
	a.env = callgraph.NewEnv(module, "", a.program)
	f()
	a.module, a.fn, a.ret, a.scope, a.env = savedModule, savedFn, savedRet, savedScope, savedEnv
}

func (a *Analyzer) analyzeFunction(module string, fn *ast.Function) {
	a.module = module
	a.fn = fn
	a.ret = nil
	a.scope = newScopeManager()
	a.env = callgraph.NewEnv(module, fn.Name.Value, a.program)

	for _, param := range fn.Params {
		typ := a.resolveType(param.Type)
		sym := &Symbol{Name: param.Name.Value, Type: typ, Position: param.Name.Pos}
		if !a.scope.defineParam(sym) {
			a.addCompilerError(errors.DuplicateDeclaration(param.Name.Value, param.Name.Pos))
		}
	}
	if fn.Return != nil {
		a.ret = a.resolveType(fn.Return)
	}

	if fn.Body == nil {
		return
	}
	a.analyzeFunctionBlock(fn.Body)
}

// analyzeFunctionBlock analyses a block in a fresh lexical scope. The tail
// expression of a function body with a return type is its return value.
func (a *Analyzer) analyzeFunctionBlock(block *ast.FunctionBlock) {
	if block == nil {
		return
	}
	a.scope.pushBlock()
	defer a.scope.popBlock()

	for _, item := range block.Items {
		a.analyzeFunctionBlockItem(item)
	}
	if tail := block.TailExpr; tail != nil {
		if block == a.fn.Body && a.fn.Return != nil {
			a.checkReturnValue(tail.Expr, tail.Expr.NodePos())
		} else {
			a.expr(tail.Expr)
		}
	}
}

func (a *Analyzer) analyzeFunctionBlockItem(item ast.FunctionBlockItem) {
	switch node := item.(type) {
	case *ast.ExprStmt:
		a.expr(node.Expr)
	case *ast.LetStmt:
		a.analyzeLetStatement(node)
	case *ast.AssignStmt:
		a.analyzeAssignStatement(node)
	case *ast.ReturnStmt:
		a.checkReturnValue(node.Value, node.Pos)
	case *ast.AssertStmt:
		for _, arg := range node.Args {
			a.expr(arg)
		}
	case *ast.IfStmt:
		a.analyzeIfStatement(node)
	case *ast.ForStmt:
		a.analyzeForStatement(node)
	case *ast.BreakStmt:
		if !a.scope.inLoop() {
			a.addCompilerError(errors.JumpOutsideLoop("break", node.Pos))
		}
	case *ast.ContinueStmt:
		if !a.scope.inLoop() {
			a.addCompilerError(errors.JumpOutsideLoop("continue", node.Pos))
		}
	case *ast.FunctionBlock:
		a.analyzeFunctionBlock(node)
	}
}

func (a *Analyzer) analyzeLetStatement(let *ast.LetStmt) {
	var typ types.Type
	if let.Type != nil {
		typ = a.resolveType(let.Type)
		if let.Expr != nil {
			a.checkValue(typ, let.Expr)
		}
	} else if let.Expr != nil {
		o := a.expr(let.Expr)
		typ = defaultType(o)
	}

	sym := &Symbol{Name: let.Name.Value, Type: typ, Mutable: let.Mut, Position: let.Name.Pos}
	if a.program.IsConstant(a.module, sym.Name) {
		a.addCompilerError(errors.LoopNameCollision(sym.Name, "a constant", sym.Position))
		return
	}
	if err := a.scope.define(sym); err != nil {
		a.addCompilerError(*err)
	}
}

// defaultType is the type given to a local declared without annotation
func defaultType(o operand) types.Type {
	if !o.untyped() {
		return o.typ
	}
	if o.value.Sign() < 0 {
		return &types.IntegerType{Bits: 256, Signed: true}
	}
	return types.U256T
}

func (a *Analyzer) analyzeAssignStatement(assign *ast.AssignStmt) {
	target := a.expr(assign.Target)
	if assign.Operator == ast.ASSIGN {
		a.checkValue(target.typ, assign.Value)
	} else {
		value := a.expr(assign.Value)
		a.checkArithmeticAssign(target, value, assign.Value.NodePos())
	}
	a.checkWrite(assign.Target, assign.Pos)
}

func (a *Analyzer) analyzeIfStatement(stmt *ast.IfStmt) {
	a.checkCondition(stmt.Cond)
	a.analyzeFunctionBlock(stmt.Then)
	switch e := stmt.Else.(type) {
	case nil:
	case *ast.FunctionBlock:
		a.analyzeFunctionBlock(e)
	default:
		a.analyzeFunctionBlockItem(e)
	}
}

func (a *Analyzer) checkCondition(cond ast.Expr) {
	o := a.expr(cond)
	if o.typ != nil && !types.Identical(o.typ, types.BoolT) {
		a.addTypeMismatchError(types.BoolT.String(), o.describe(), cond.NodePos())
	} else if o.untyped() {
		a.addTypeMismatchError(types.BoolT.String(), o.describe(), cond.NodePos())
	}
}

func (a *Analyzer) checkReturnValue(value ast.Expr, pos ast.Position) {
	name := a.fn.Name.Value
	switch {
	case value == nil && a.fn.Return != nil:
		a.addCompilerError(errors.NewSemanticError(errors.ErrorInvalidReturnType,
			"function '"+name+"' must return a value of type "+a.fn.Return.String(), pos).Build())
	case value != nil && a.fn.Return == nil:
		a.expr(value)
		a.addCompilerError(errors.NewSemanticError(errors.ErrorInvalidReturnType,
			"function '"+name+"' does not return a value", value.NodePos()).
			WithSuggestion("add a return type to the function signature").
			Build())
	case value != nil:
		a.checkValue(a.ret, value)
	}
}

// resolveType resolves a type annotation in the current unit and reports
// failures. It returns nil when the type does not resolve.
func (a *Analyzer) resolveType(vt *ast.VariableType) types.Type {
	typ, err := a.program.Registry.Resolve(vt, types.Scope{Module: a.module, Imports: a.program.Imports(a.module)})
	if err != nil {
		a.addTypeError(err)
		return nil
	}
	return typ
}
