package semantic

import (
	"fmt"
	"math/big"

	"loopsafe/internal/ast"
	"loopsafe/internal/callgraph"
	"loopsafe/internal/errors"
	"loopsafe/internal/stdlib"
	"loopsafe/internal/types"
)

// expr analyses an expression: names resolve, calls are checked against
// the active loops, and constant integer expressions fold.
func (a *Analyzer) expr(e ast.Expr) operand {
	switch node := e.(type) {
	case nil:
		return operand{}
	case *ast.LiteralExpr:
		return a.literal(node)
	case *ast.IdentExpr:
		return a.ident(node)
	case *ast.CalleePath:
		return a.path(node)
	case *ast.FieldAccessExpr:
		return a.fieldAccess(node)
	case *ast.IndexExpr:
		return a.index(node)
	case *ast.CallExpr:
		return a.call(node)
	case *ast.BinaryExpr:
		return a.binary(node)
	case *ast.UnaryExpr:
		return a.unary(node)
	case *ast.ParenExpr:
		return a.expr(node.Value)
	case *ast.TupleExpr:
		for _, el := range node.Elements {
			a.expr(el)
		}
	case *ast.ListExpr:
		for _, el := range node.Elements {
			a.expr(el)
		}
	case *ast.StructLiteralExpr:
		return a.structLiteral(node)
	case *ast.IfExpr:
		a.checkCondition(node.Cond)
		then := a.expr(node.Then)
		other := a.expr(node.Else)
		if then.typ != nil && other.typ != nil && types.Identical(then.typ, other.typ) {
			return operand{typ: then.typ}
		}
	}
	return operand{}
}

func (a *Analyzer) literal(lit *ast.LiteralExpr) operand {
	switch lit.Kind {
	case ast.IntLiteral, ast.HexLiteral:
		v, ok := parseIntLiteral(lit.Value)
		if !ok {
			a.addCompilerError(errors.Syntax(fmt.Sprintf("malformed integer literal %s", lit.Value), lit.Pos))
			return operand{}
		}
		return operand{value: v}
	case ast.BoolLiteral:
		return operand{typ: types.BoolT}
	case ast.StringLiteral:
		return operand{typ: &types.StringType{MaxLen: max(len(lit.Value), 1)}}
	case ast.BytesLiteral:
		return operand{typ: &types.BytesType{MaxLen: max(len(lit.Value), 1)}}
	}
	return operand{}
}

func (a *Analyzer) ident(id *ast.IdentExpr) operand {
	if sym := a.scope.resolve(id.Name); sym != nil {
		return operand{typ: sym.Type}
	}
	if a.program.IsConstant(a.module, id.Name) {
		return a.constant(a.module, id.Name)
	}
	if name, ok := a.program.StorageStruct(a.module); ok && name == id.Name {
		return operand{}
	}
	if a.program.Registry.IsUserDefinedType(a.module, id.Name) || types.IsBuiltinType(id.Name) {
		return operand{}
	}
	candidates := append(a.scope.names(), a.program.constantNames(a.module)...)
	a.addCompilerError(errors.UndefinedVariable(id.Name, id.Pos, errors.SimilarNames(id.Name, candidates)))
	return operand{}
}

// path resolves "module::NAME" in value position
func (a *Analyzer) path(p *ast.CalleePath) operand {
	if len(p.Parts) != 2 {
		a.addCompilerError(errors.UndefinedVariable(pathString(p), p.Pos, nil))
		return operand{}
	}
	module, name := p.Parts[0].Value, p.Parts[1].Value
	if !a.imports(module, p.Parts[0].Pos) {
		return operand{}
	}
	if a.program.IsConstant(module, name) {
		return a.constant(module, name)
	}
	if storage, ok := a.program.StorageStruct(module); ok && storage == name {
		return operand{}
	}
	a.addCompilerError(errors.UndefinedVariable(pathString(p), p.Parts[1].Pos, errors.SimilarNames(name, a.program.constantNames(module))))
	return operand{}
}

// imports reports whether module is visible from the current unit
func (a *Analyzer) imports(module string, pos ast.Position) bool {
	if table := a.program.Imports(a.module); table != nil && table.Has(module) {
		return true
	}
	a.addCompilerError(errors.UndefinedModule(module, pos))
	return false
}

func (a *Analyzer) fieldAccess(fa *ast.FieldAccessExpr) operand {
	if module, ok := a.env.StorageBase(fa.Target); ok {
		if module != a.module && !a.imports(module, fa.Target.NodePos()) {
			return operand{}
		}
		st, err := a.program.Registry.StorageStruct(module)
		if err != nil || st == nil {
			return operand{}
		}
		return a.field(st, fa)
	}

	target := a.expr(fa.Target)
	switch t := target.typ.(type) {
	case nil:
		return operand{}
	case *types.StructType:
		return a.field(t, fa)
	default:
		a.addCompilerError(errors.FieldNotFound(t.String(), fa.Field, fa.EndPos, nil))
		return operand{}
	}
}

func (a *Analyzer) field(st *types.StructType, fa *ast.FieldAccessExpr) operand {
	f, ok := st.Field(fa.Field)
	if !ok {
		a.addCompilerError(errors.FieldNotFound(st.String(), fa.Field, fa.Pos, st.FieldNames()))
		return operand{}
	}
	return operand{typ: f.Type}
}

func (a *Analyzer) index(ix *ast.IndexExpr) operand {
	target := a.expr(ix.Target)
	idx := a.expr(ix.Index)
	if idx.typ != nil && !types.IsInteger(idx.typ) {
		a.addTypeMismatchError("an integer index", idx.typ.String(), ix.Index.NodePos())
	}
	if target.typ == nil {
		return operand{}
	}
	elem, ok := types.ElementOf(target.typ)
	if !ok {
		a.addCompilerError(errors.NewSemanticError(errors.ErrorTypeMismatch,
			fmt.Sprintf("type %s cannot be indexed", target.typ), ix.Pos).Build())
		return operand{}
	}
	if arr, fixed := target.typ.(*types.ArrayType); fixed && idx.isConstant() {
		if idx.value.Sign() < 0 || idx.value.Cmp(bigInt(arr.Len)) >= 0 {
			a.addCompilerError(errors.NewSemanticError(errors.ErrorNumericOverflow,
				fmt.Sprintf("index %s is out of bounds for %s", idx.value, arr), ix.Index.NodePos()).Build())
		}
	}
	return operand{typ: elem}
}

func (a *Analyzer) unary(u *ast.UnaryExpr) operand {
	o := a.expr(u.Value)
	switch u.Op {
	case "!":
		if o.typ != nil && !types.Identical(o.typ, types.BoolT) {
			a.addTypeMismatchError(types.BoolT.String(), o.describe(), u.Value.NodePos())
		}
		return operand{typ: types.BoolT}
	case "-":
		if it, ok := o.typ.(*types.IntegerType); ok && !it.Signed {
			a.addCompilerError(errors.NewSemanticError(errors.ErrorTypeMismatch,
				fmt.Sprintf("cannot negate a value of unsigned type %s", it), u.Pos).Build())
			return operand{typ: it}
		}
		return a.typedConstant(o.typ, foldUnary(u.Op, o.value), u.Pos)
	}
	return o
}

func (a *Analyzer) binary(b *ast.BinaryExpr) operand {
	l := a.expr(b.Left)
	r := a.expr(b.Right)

	switch {
	case isLogical(b.Op):
		for _, side := range []struct {
			o   operand
			pos ast.Position
		}{{l, b.Left.NodePos()}, {r, b.Right.NodePos()}} {
			if side.o.untyped() || (side.o.typ != nil && !types.Identical(side.o.typ, types.BoolT)) {
				a.addTypeMismatchError(types.BoolT.String(), side.o.describe(), side.pos)
			}
		}
		return operand{typ: types.BoolT}
	case isComparison(b.Op):
		a.unify(l, r, b.Right.NodePos())
		return operand{typ: types.BoolT}
	case isArithmetic(b.Op):
		typ := a.unify(l, r, b.Right.NodePos())
		if typ != nil && !types.IsInteger(typ) {
			a.addCompilerError(errors.NewSemanticError(errors.ErrorTypeMismatch,
				fmt.Sprintf("operator '%s' is not defined for %s", b.Op, typ), b.Pos).Build())
			return operand{}
		}
		if !l.isConstant() || !r.isConstant() {
			return operand{typ: typ}
		}
		v, ok := foldBinary(b.Op, l.value, r.value)
		if !ok {
			a.addCompilerError(errors.NewSemanticError(errors.ErrorNotConstant, "division by zero in constant expression", b.Right.NodePos()).Build())
			return operand{typ: typ}
		}
		return a.typedConstant(typ, v, b.Pos)
	}
	return operand{}
}

// unify returns the common type of two operands. An untyped constant takes
// the type of the other side when it fits; typed sides must be identical.
func (a *Analyzer) unify(l, r operand, pos ast.Position) types.Type {
	switch {
	case l.typ == nil && r.typ == nil:
		return nil
	case l.typ == nil:
		a.compatible(r.typ, l, pos)
		return r.typ
	case r.typ == nil:
		a.compatible(l.typ, r, pos)
		return l.typ
	}
	if !types.Identical(l.typ, r.typ) {
		a.addTypeMismatchError(l.typ.String(), r.typ.String(), pos)
	}
	return l.typ
}

// typedConstant builds a folded operand and checks that a typed constant
// fits its type. A nil value yields a plain typed operand.
func (a *Analyzer) typedConstant(typ types.Type, v *big.Int, pos ast.Position) operand {
	if v == nil {
		return operand{typ: typ}
	}
	if it, ok := typ.(*types.IntegerType); ok && !it.Fits(v) {
		a.addCompilerError(errors.NumericOverflow(v.String(), it.String(), pos))
		return operand{typ: typ}
	}
	return operand{typ: typ, value: v}
}

func (a *Analyzer) structLiteral(lit *ast.StructLiteralExpr) operand {
	vt := &ast.VariableType{Pos: lit.Pos, EndPos: lit.Pos, Name: ast.Ident{Pos: lit.Pos, Value: lit.Name}}
	if lit.Type != nil && len(lit.Type.Parts) == 2 {
		module := lit.Type.Parts[0]
		vt.Module = &module
		vt.Name = lit.Type.Parts[1]
	}
	typ := a.resolveType(vt)
	st, ok := typ.(*types.StructType)
	if !ok {
		for _, f := range lit.Fields {
			a.expr(f.Value)
		}
		return operand{}
	}

	seen := make(map[string]bool)
	for _, f := range lit.Fields {
		field, exists := st.Field(f.Name.Value)
		if !exists {
			a.addCompilerError(errors.FieldNotFound(st.String(), f.Name.Value, f.Name.Pos, st.FieldNames()))
			a.expr(f.Value)
			continue
		}
		if seen[f.Name.Value] {
			a.addCompilerError(errors.DuplicateDeclaration(f.Name.Value, f.Name.Pos))
		}
		seen[f.Name.Value] = true
		a.checkValue(field.Type, f.Value)
	}
	for _, name := range st.FieldNames() {
		if !seen[name] {
			a.addCompilerError(errors.NewSemanticError(errors.ErrorFieldNotFound,
				fmt.Sprintf("missing field '%s' in struct literal for '%s'", name, st), lit.Pos).
				WithSuggestion(fmt.Sprintf("add '%s: <value>' to the struct literal", name)).
				Build())
		}
	}
	return operand{typ: st}
}

func (a *Analyzer) call(call *ast.CallExpr) operand {
	switch callee := call.Callee.(type) {
	case *ast.IdentExpr:
		if fn := a.program.Function(a.module, callee.Name); fn != nil {
			return a.userCall(a.module, fn, call)
		}
		if stdlib.IsBuiltinFunction(callee.Name) {
			return a.builtinCall(callee.Name, call)
		}
		a.addCompilerError(errors.UndefinedFunction(callee.Name, callee.Pos,
			errors.SimilarNames(callee.Name, append(a.program.FunctionNames(a.module), stdlib.FunctionNames()...)),
			a.program.ModulesDefining(callee.Name, a.module)))

	case *ast.CalleePath:
		if len(callee.Parts) == 2 {
			module, name := callee.Parts[0].Value, callee.Parts[1].Value
			if !a.imports(module, callee.Parts[0].Pos) {
				break
			}
			if fn := a.program.Function(module, name); fn != nil {
				return a.userCall(module, fn, call)
			}
			a.addCompilerError(errors.UndefinedFunction(pathString(callee), callee.Parts[1].Pos,
				errors.SimilarNames(name, a.program.FunctionNames(module)), nil))
		} else {
			a.addCompilerError(errors.UndefinedFunction(pathString(callee), callee.Pos, nil, nil))
		}

	case *ast.FieldAccessExpr:
		return a.methodCall(callee, call)

	default:
		a.expr(call.Callee)
		a.addCompilerError(errors.IteratorForm("expression is not callable", call.Pos))
	}

	for _, arg := range call.Args {
		a.expr(arg)
	}
	return operand{}
}

func (a *Analyzer) userCall(module string, fn *ast.Function, call *ast.CallExpr) operand {
	name := fn.Name.Value
	if module != a.module {
		name = module + "::" + name
	}
	if len(call.Args) != len(fn.Params) {
		a.addCompilerError(errors.InvalidArguments(name, len(fn.Params), len(call.Args), call.Pos))
	}

	for i, arg := range call.Args {
		var want types.Type
		if i < len(fn.Params) {
			want = a.signatureType(module, fn.Params[i].Type)
		}
		a.checkValue(want, arg)
	}
	var ret types.Type
	if fn.Return != nil {
		ret = a.signatureType(module, fn.Return)
	}

	a.checkCallWrites(callgraph.ID(module, fn.Name.Value), name, call.Pos)
	return operand{typ: ret}
}

// signatureType resolves a type from the signature of a function declared
// in module. Failures are reported when that function itself is analysed.
func (a *Analyzer) signatureType(module string, vt *ast.VariableType) types.Type {
	typ, err := a.program.Registry.Resolve(vt, types.Scope{Module: module, Imports: a.program.Imports(module)})
	if err != nil {
		return nil
	}
	return typ
}

func (a *Analyzer) builtinCall(name string, call *ast.CallExpr) operand {
	def, ok := stdlib.GetFunctionByArity(name, len(call.Args))
	if !ok {
		if name == "range" {
			a.addCompilerError(errors.RangeArguments(len(call.Args), call.Pos))
		} else {
			a.addCompilerError(errors.InvalidArguments(name, stdlib.GetFunction(name)[0].Arity(), len(call.Args), call.Pos))
		}
		for _, arg := range call.Args {
			a.expr(arg)
		}
		return operand{}
	}

	switch def.ReturnType {
	case stdlib.RangeType:
		for _, arg := range call.Args {
			a.expr(arg)
		}
		a.addCompilerError(errors.IteratorForm("range() can only be used as the iterable of a for loop", call.Pos))
		return operand{}
	case stdlib.TypeResult:
		vt, ok := typeArgument(call.Args[0])
		if !ok {
			a.addCompilerError(errors.InvalidTypeDecl(name+"() expects a type argument", call.Args[0].NodePos()))
			return operand{}
		}
		typ := a.resolveType(vt)
		if typ == nil {
			return operand{}
		}
		if !def.Const {
			return operand{typ: typ}
		}
		it, isInt := typ.(*types.IntegerType)
		if !isInt {
			a.addTypeMismatchError("an integer type", typ.String(), call.Args[0].NodePos())
			return operand{}
		}
		if name == "min_value" {
			return operand{typ: it, value: it.Min()}
		}
		return operand{typ: it, value: it.Max()}
	}

	// len(seq)
	seq := a.expr(call.Args[0])
	switch seq.typ.(type) {
	case nil, *types.ArrayType, *types.DynArrayType, *types.StringType, *types.BytesType:
	default:
		a.addTypeMismatchError("a sequence", seq.typ.String(), call.Args[0].NodePos())
	}
	if arr, fixed := seq.typ.(*types.ArrayType); fixed {
		return operand{typ: types.U256T, value: bigInt(arr.Len)}
	}
	return operand{typ: types.U256T}
}

// methodCall checks a builtin method call such as "State.queue.pop()".
// Every builtin method mutates its receiver.
func (a *Analyzer) methodCall(callee *ast.FieldAccessExpr, call *ast.CallExpr) operand {
	recv := a.expr(callee.Target)
	def, ok := stdlib.GetMethod(callee.Field)
	if !ok {
		a.addCompilerError(errors.UndefinedFunction(callee.Field, callee.EndPos,
			errors.SimilarNames(callee.Field, stdlib.MethodNames()), nil))
		for _, arg := range call.Args {
			a.expr(arg)
		}
		return operand{}
	}

	var elem types.Type
	if recv.typ != nil {
		dyn, isDyn := recv.typ.(*types.DynArrayType)
		if !isDyn {
			a.addTypeMismatchError(def.Receiver, recv.typ.String(), callee.Target.NodePos())
		} else {
			elem = dyn.Elem
		}
	}
	if len(call.Args) != def.Arity() {
		a.addCompilerError(errors.InvalidArguments(def.Name, def.Arity(), len(call.Args), call.Pos))
	}
	for i, arg := range call.Args {
		var want types.Type
		if i < def.Arity() {
			switch def.Parameters[i].Type {
			case stdlib.ElemType:
				want = elem
			default:
				want = types.U256T
			}
		}
		a.checkValue(want, arg)
	}

	if def.Mutating {
		a.checkWrite(callee.Target, call.Pos)
	}
	if def.ReturnType == stdlib.ElemType {
		return operand{typ: elem}
	}
	return operand{}
}

func pathString(p *ast.CalleePath) string {
	s := ""
	for i, part := range p.Parts {
		if i > 0 {
			s += "::"
		}
		s += part.Value
	}
	return s
}
