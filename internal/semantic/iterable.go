package semantic

import (
	"fmt"
	"math/big"

	"loopsafe/internal/ast"
	"loopsafe/internal/errors"
	"loopsafe/internal/storage"
	"loopsafe/internal/types"
)

type SpaceKind int

const (
	FixedArraySpace SpaceKind = iota
	DynamicArraySpace
	RangeSpace
)

func (k SpaceKind) String() string {
	switch k {
	case FixedArraySpace:
		return "fixed"
	case DynamicArraySpace:
		return "dynamic"
	case RangeSpace:
		return "range"
	}
	return "unknown"
}

// IterationSpace is the statically known shape of the values a loop
// produces. Elem is always a concrete type. Length is set for fixed arrays,
// MaxLength for dynamic arrays, and Start, End, Step for ranges.
type IterationSpace struct {
	Kind      SpaceKind
	Elem      types.Type
	Length    int
	MaxLength int
	Start     *big.Int
	End       *big.Int
	Step      *big.Int
}

func (s IterationSpace) String() string {
	switch s.Kind {
	case FixedArraySpace:
		return fmt.Sprintf("%s[%d]", s.Elem, s.Length)
	case DynamicArraySpace:
		return fmt.Sprintf("DynArray<%s, %d>", s.Elem, s.MaxLength)
	case RangeSpace:
		return fmt.Sprintf("range(%s, %s) of %s", s.Start, s.End, s.Elem)
	}
	return "unknown"
}

// Bound is the maximum number of iterations: the length of a fixed array,
// the capacity of a dynamic one, or the number of values in a range.
func (s IterationSpace) Bound() *big.Int {
	switch s.Kind {
	case FixedArraySpace:
		return bigInt(s.Length)
	case DynamicArraySpace:
		return bigInt(s.MaxLength)
	case RangeSpace:
		n := new(big.Int).Sub(s.End, s.Start)
		if s.Step != nil && s.Step.Cmp(big.NewInt(1)) > 0 {
			n.Add(n, new(big.Int).Sub(s.Step, big.NewInt(1)))
			n.Quo(n, s.Step)
		}
		return n
	}
	return new(big.Int)
}

func sameSpace(x, y IterationSpace) bool {
	if x.Kind != y.Kind || !types.Identical(x.Elem, y.Elem) {
		return false
	}
	switch x.Kind {
	case FixedArraySpace:
		return x.Length == y.Length
	case DynamicArraySpace:
		return x.MaxLength == y.MaxLength
	default:
		return x.Start.Cmp(y.Start) == 0 && x.End.Cmp(y.End) == 0 && x.Step.Cmp(y.Step) == 0
	}
}

// spaceFromType returns the iteration space of a value of type t
func spaceFromType(t types.Type) (IterationSpace, bool) {
	switch x := t.(type) {
	case *types.ArrayType:
		return IterationSpace{Kind: FixedArraySpace, Elem: x.Elem, Length: x.Len}, true
	case *types.DynArrayType:
		return IterationSpace{Kind: DynamicArraySpace, Elem: x.Elem, MaxLength: x.MaxLen}, true
	}
	return IterationSpace{}, false
}

// Resolution is a resolved iterable: its space, the roots it reads from
// and how its elements are produced.
type Resolution struct {
	Space IterationSpace
	Roots []storage.Root
	Plan  *MaterializationPlan
}

// isRangeCall reports whether call is the range builtin. A unit function
// named range shadows it.
func (a *Analyzer) isRangeCall(call *ast.CallExpr) bool {
	id, ok := call.Callee.(*ast.IdentExpr)
	return ok && id.Name == "range" && a.program.Function(a.module, "range") == nil
}

// resolveIterable classifies the iterable of a loop whose variable is
// declared with type declared, which is nil when the annotation did not
// resolve. Errors are recorded; ok is false when no space could be derived.
func (a *Analyzer) resolveIterable(expr ast.Expr, declared types.Type) (*Resolution, bool) {
	switch x := ast.Unparen(expr).(type) {
	case *ast.CallExpr:
		if a.isRangeCall(x) {
			space, ok := a.validateRange(x, declared)
			if !ok {
				return nil, false
			}
			return &Resolution{Space: space}, true
		}
		a.expr(x)
		a.addCompilerError(errors.IteratorForm("cannot iterate over the result of a function call", x.Pos))
		return nil, false

	case *ast.ListExpr:
		if len(x.Elements) == 0 {
			a.addCompilerError(errors.EmptyIteration("cannot iterate over an empty list", x.Pos))
			return nil, false
		}
		for _, el := range x.Elements {
			a.checkValue(declared, el)
		}
		if declared == nil {
			return nil, false
		}
		return &Resolution{
			Space: IterationSpace{Kind: FixedArraySpace, Elem: declared, Length: len(x.Elements)},
			Plan:  &MaterializationPlan{Elements: x.Elements},
		}, true

	case *ast.IfExpr:
		return a.resolveConditional(x, declared)
	}

	before := len(a.errors)
	o := a.expr(expr)
	if o.typ == nil {
		switch {
		case o.untyped():
			a.addCompilerError(errors.NotIterable(o.describe(), expr.NodePos()))
		case len(a.errors) == before:
			a.addCompilerError(errors.NotAValue(a.describeUntyped(expr), expr.NodePos()))
		}
		return nil, false
	}
	space, ok := spaceFromType(o.typ)
	if !ok {
		a.addCompilerError(errors.NotIterable(o.typ.String(), expr.NodePos()))
		return nil, false
	}
	if decl := a.namedConstant(expr); decl != nil {
		if list, ok := ast.Unparen(decl.Value).(*ast.ListExpr); ok && len(list.Elements) == 0 {
			a.addCompilerError(errors.EmptyIteration(
				fmt.Sprintf("cannot iterate over '%s': the constant is an empty list", decl.Name.Value), expr.NodePos()))
			return nil, false
		}
	}
	return &Resolution{Space: space, Roots: a.env.Roots(expr), Plan: &MaterializationPlan{Source: expr}}, true
}

// namedConstant returns the unit constant expr names, if any
func (a *Analyzer) namedConstant(expr ast.Expr) *ast.ConstDecl {
	switch x := ast.Unparen(expr).(type) {
	case *ast.IdentExpr:
		if a.scope.resolve(x.Name) == nil {
			return a.program.Constant(a.module, x.Name)
		}
	case *ast.CalleePath:
		if len(x.Parts) == 2 {
			return a.program.Constant(x.Parts[0].Value, x.Parts[1].Value)
		}
	}
	return nil
}

// describeUntyped names an expression that resolved without error but has
// no value type
func (a *Analyzer) describeUntyped(expr ast.Expr) string {
	switch x := ast.Unparen(expr).(type) {
	case *ast.TupleExpr:
		return fmt.Sprintf("a tuple of %d values", len(x.Elements))
	case *ast.IdentExpr:
		return a.describeName(a.module, x.Name)
	case *ast.CalleePath:
		if len(x.Parts) == 2 {
			return a.describeName(x.Parts[0].Value, x.Parts[1].Value)
		}
	case *ast.CallExpr:
		return "a call without a return value"
	}
	return "an expression without a value"
}

func (a *Analyzer) describeName(module, name string) string {
	if st, ok := a.program.StorageStruct(module); ok && st == name {
		return fmt.Sprintf("the storage struct '%s'", name)
	}
	if a.program.Registry.IsUserDefinedType(module, name) || types.IsBuiltinType(name) {
		return fmt.Sprintf("the type name '%s'", name)
	}
	return fmt.Sprintf("'%s'", name)
}

// resolveConditional resolves both branches of "if c { xs } else { ys }".
// Exactly one branch is evaluated, so the spaces must agree and the loop
// depends on the roots of both.
func (a *Analyzer) resolveConditional(x *ast.IfExpr, declared types.Type) (*Resolution, bool) {
	a.checkCondition(x.Cond)
	then, thenOK := a.resolveBranch(x.Then, declared)
	other, otherOK := a.resolveBranch(x.Else, declared)
	if !thenOK || !otherOK {
		return nil, false
	}
	if !sameSpace(then.Space, other.Space) {
		a.addCompilerError(errors.NewSemanticError(errors.ErrorNotIterable,
			fmt.Sprintf("branches of a conditional iterable differ: %s and %s", then.Space, other.Space), x.Pos).
			WithNote("both branches must have the same element type and length").
			Build())
		return nil, false
	}
	return &Resolution{
		Space: then.Space,
		Roots: append(append([]storage.Root(nil), then.Roots...), other.Roots...),
		Plan:  &MaterializationPlan{Cond: x.Cond, Then: then.Plan, Else: other.Plan},
	}, true
}

// resolveBranch resolves one branch of a conditional iterable. Unlike a
// loop header, a branch may be a call, resolved through its return type.
func (a *Analyzer) resolveBranch(expr ast.Expr, declared types.Type) (*Resolution, bool) {
	call, ok := ast.Unparen(expr).(*ast.CallExpr)
	if !ok || a.isRangeCall(call) {
		return a.resolveIterable(expr, declared)
	}
	before := len(a.errors)
	o := a.expr(call)
	if o.typ == nil {
		if len(a.errors) == before {
			a.addCompilerError(errors.NotAValue(a.describeUntyped(call), expr.NodePos()))
		}
		return nil, false
	}
	space, ok := spaceFromType(o.typ)
	if !ok {
		a.addCompilerError(errors.NotIterable(o.typ.String(), expr.NodePos()))
		return nil, false
	}
	return &Resolution{Space: space, Plan: &MaterializationPlan{Source: expr}}, true
}
