package semantic

import (
	"fmt"

	"loopsafe/internal/ast"
	"loopsafe/internal/errors"
	"loopsafe/internal/types"
)

// checkValue analyses expr in a context expecting type want. List literals
// are checked element by element against the element type, so untyped
// integer literals adopt it. A nil want only analyses expr.
func (a *Analyzer) checkValue(want types.Type, expr ast.Expr) {
	if list, ok := ast.Unparen(expr).(*ast.ListExpr); ok && want != nil {
		a.checkList(want, list)
		return
	}
	if cond, ok := ast.Unparen(expr).(*ast.IfExpr); ok && want != nil {
		a.checkCondition(cond.Cond)
		a.checkValue(want, cond.Then)
		a.checkValue(want, cond.Else)
		return
	}
	a.compatible(want, a.expr(expr), expr.NodePos())
}

func (a *Analyzer) checkList(want types.Type, list *ast.ListExpr) {
	var elem types.Type
	switch t := want.(type) {
	case *types.ArrayType:
		elem = t.Elem
		if len(list.Elements) != t.Len {
			a.addCompilerError(errors.NewSemanticError(errors.ErrorTypeMismatch,
				fmt.Sprintf("type mismatch: expected %s, found a list of %d elements", t, len(list.Elements)), list.Pos).Build())
		}
	case *types.DynArrayType:
		elem = t.Elem
		if len(list.Elements) > t.MaxLen {
			a.addCompilerError(errors.NewSemanticError(errors.ErrorTypeMismatch,
				fmt.Sprintf("type mismatch: %d elements exceed the capacity of %s", len(list.Elements), t), list.Pos).Build())
		}
	default:
		a.expr(list)
		a.addTypeMismatchError(want.String(), "a list", list.Pos)
		return
	}
	for _, el := range list.Elements {
		a.checkValue(elem, el)
	}
}

// compatible reports an error unless o can be stored in want. Untyped
// constants must fit; typed values must be identical, except that shorter
// strings and byte strings fit longer ones.
func (a *Analyzer) compatible(want types.Type, o operand, pos ast.Position) bool {
	if want == nil {
		return true
	}
	if o.untyped() {
		it, ok := want.(*types.IntegerType)
		if !ok {
			a.addTypeMismatchError(want.String(), o.describe(), pos)
			return false
		}
		if !it.Fits(o.value) {
			a.addCompilerError(errors.NumericOverflow(o.value.String(), it.String(), pos))
			return false
		}
		return true
	}
	if o.typ == nil || types.Identical(want, o.typ) {
		return true
	}
	switch w := want.(type) {
	case *types.StringType:
		if s, ok := o.typ.(*types.StringType); ok && s.MaxLen <= w.MaxLen {
			return true
		}
	case *types.BytesType:
		if b, ok := o.typ.(*types.BytesType); ok && b.MaxLen <= w.MaxLen {
			return true
		}
	}
	a.addTypeMismatchError(want.String(), o.typ.String(), pos)
	return false
}

func (a *Analyzer) checkArithmeticAssign(target, value operand, pos ast.Position) {
	if target.typ == nil {
		return
	}
	if !types.IsInteger(target.typ) {
		a.addCompilerError(errors.NewSemanticError(errors.ErrorTypeMismatch,
			fmt.Sprintf("compound assignment is not defined for %s", target.typ), pos).Build())
		return
	}
	a.compatible(target.typ, value, pos)
}

// constant returns the folded value of module::name. Results are cached so
// each constant is checked and reported once.
func (a *Analyzer) constant(module, name string) operand {
	key := module + "::" + name
	if o, ok := a.constants[key]; ok {
		return *o
	}
	decl := a.program.Constant(module, name)
	if decl == nil {
		return operand{}
	}
	if a.folding[key] {
		a.addCompilerError(errors.NotConstant(fmt.Sprintf("constant '%s', which refers to itself,", name), decl.Name.Pos))
		return operand{}
	}
	a.folding[key] = true
	defer delete(a.folding, key)

	var o operand
	a.inUnit(module, func() {
		var typ types.Type
		if decl.Type != nil {
			typ = a.resolveType(decl.Type)
		}
		switch typ.(type) {
		case nil, *types.IntegerType:
			v := a.expr(decl.Value)
			switch {
			case !v.isConstant():
				a.addCompilerError(errors.NotConstant(fmt.Sprintf("value of constant '%s'", name), decl.Value.NodePos()))
				o = operand{typ: typ}
			case typ == nil:
				o = v
			case a.compatible(typ, v, decl.Value.NodePos()):
				o = operand{typ: typ, value: v.value}
			default:
				o = operand{typ: typ}
			}
		default:
			a.checkValue(typ, decl.Value)
			o = operand{typ: typ}
		}
	})
	a.constants[key] = &o
	return o
}
