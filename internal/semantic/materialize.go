package semantic

import (
	"loopsafe/internal/ast"
)

// MaterializationPlan describes how the elements of an iterable are
// produced before the first iteration. Exactly one form is set:
//   - Elements: a list literal, evaluated left to right
//   - Source: an existing array, iterated in place unless producing it
//     calls a function, in which case it is copied as a snapshot
//   - Cond: a conditional, where only the selected branch is evaluated
//
// Ranges have no plan.
type MaterializationPlan struct {
	Elements []ast.Expr
	Source   ast.Expr

	Cond ast.Expr
	Then *MaterializationPlan
	Else *MaterializationPlan
}

// Snapshot reports whether the plan evaluates expressions to produce the
// iterable, so it must be copied into a fixed snapshot before the first
// iteration.
func (p *MaterializationPlan) Snapshot() bool {
	if p == nil {
		return false
	}
	return p.Elements != nil || p.Cond != nil || (p.Source != nil && containsCall(p.Source))
}

// Evaluator computes values for Materialize; code generation and the tests
// supply their own.
type Evaluator[V any] interface {
	Value(expr ast.Expr) (V, error)
	Cond(expr ast.Expr) (bool, error)
	Elements(expr ast.Expr) ([]V, error)
}

// Materialize evaluates every element of plan exactly once, in source
// order, and returns the snapshot the loop iterates. A nil plan yields no
// elements.
func Materialize[V any](plan *MaterializationPlan, eval Evaluator[V]) ([]V, error) {
	switch {
	case plan == nil:
		return nil, nil
	case plan.Cond != nil:
		c, err := eval.Cond(plan.Cond)
		if err != nil {
			return nil, err
		}
		if c {
			return Materialize(plan.Then, eval)
		}
		return Materialize(plan.Else, eval)
	case plan.Source != nil:
		vs, err := eval.Elements(plan.Source)
		if err != nil {
			return nil, err
		}
		return append([]V(nil), vs...), nil
	}

	out := make([]V, 0, len(plan.Elements))
	for _, el := range plan.Elements {
		v, err := eval.Value(el)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// HasSideEffects reports whether producing the elements may call a
// function, in which case evaluating them more than once would be visible.
func HasSideEffects(plan *MaterializationPlan) bool {
	if plan == nil {
		return false
	}
	exprs := append([]ast.Expr{plan.Source, plan.Cond}, plan.Elements...)
	for _, e := range exprs {
		if e != nil && containsCall(e) {
			return true
		}
	}
	return HasSideEffects(plan.Then) || HasSideEffects(plan.Else)
}

func containsCall(e ast.Expr) bool {
	found := false
	ast.Inspect(e, func(n ast.Node) bool {
		if _, ok := n.(*ast.CallExpr); ok {
			found = true
		}
		return !found
	})
	return found
}
