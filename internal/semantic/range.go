package semantic

import (
	"fmt"
	"math/big"

	"loopsafe/internal/ast"
	"loopsafe/internal/errors"
	"loopsafe/internal/types"
)

// validateRange checks range(stop) or range(start, stop). Bounds must fold
// to constants and describe a non-empty space. The element type is the
// declared loop type when that is an integer, otherwise the type of a typed
// bound, otherwise the smallest integer holding every produced value.
func (a *Analyzer) validateRange(call *ast.CallExpr, declared types.Type) (IterationSpace, bool) {
	n := len(call.Args)
	if n == 0 || n > 2 {
		for _, arg := range call.Args {
			a.expr(arg)
		}
		a.addCompilerError(errors.RangeArguments(n, call.Pos))
		return IterationSpace{}, false
	}

	bounds := make([]operand, n)
	folded := true
	for i, arg := range call.Args {
		before := len(a.errors)
		bounds[i] = a.expr(arg)
		if !bounds[i].isConstant() {
			// a bound that failed to fold has already been reported
			if len(a.errors) == before {
				a.addCompilerError(errors.RangeNotConstant(arg.NodePos()))
			}
			folded = false
		}
	}
	if !folded {
		return IterationSpace{}, false
	}

	start, end := operand{value: new(big.Int)}, bounds[0]
	if n == 2 {
		start, end = bounds[0], bounds[1]
	}
	if end.value.Cmp(start.value) <= 0 {
		msg := fmt.Sprintf("range(%s) produces no values", end.value)
		if n == 2 {
			msg = fmt.Sprintf("range(%s, %s) produces no values: stop must be greater than start", start.value, end.value)
		}
		a.addCompilerError(errors.EmptyIteration(msg, call.Pos))
		return IterationSpace{}, false
	}

	// typed bounds come from typed constants and max_value/min_value
	var bound *types.IntegerType
	var boundPos ast.Position
	for i, b := range bounds {
		if b.typ == nil {
			continue
		}
		it, ok := b.typ.(*types.IntegerType)
		if !ok {
			a.addTypeMismatchError("an integer type", b.typ.String(), call.Args[i].NodePos())
			return IterationSpace{}, false
		}
		if bound != nil && !types.Identical(bound, it) {
			a.addTypeMismatchError(bound.String(), it.String(), call.Args[i].NodePos())
			return IterationSpace{}, false
		}
		bound, boundPos = it, call.Args[i].NodePos()
	}

	last := new(big.Int).Sub(end.value, big.NewInt(1))
	var elem *types.IntegerType
	if it, ok := declared.(*types.IntegerType); ok {
		if bound != nil && !types.Identical(it, bound) {
			a.addTypeMismatchError(it.String(), bound.String(), boundPos)
			return IterationSpace{}, false
		}
		elem = it
	} else if bound != nil {
		elem = bound
	} else {
		elem = types.SmallestInteger(start.value, last)
		if elem == nil {
			a.addCompilerError(errors.NumericOverflow(last.String(), "any integer type", call.Pos))
			return IterationSpace{}, false
		}
	}

	for _, v := range []*big.Int{start.value, last} {
		if !elem.Fits(v) {
			a.addCompilerError(errors.NumericOverflow(v.String(), elem.String(), call.Pos))
			return IterationSpace{}, false
		}
	}
	return IterationSpace{
		Kind:  RangeSpace,
		Elem:  elem,
		Start: new(big.Int).Set(start.value),
		End:   new(big.Int).Set(end.value),
		Step:  big.NewInt(1),
	}, true
}
