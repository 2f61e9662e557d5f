package errors

import (
	"fmt"

	"loopsafe/internal/ast"
)

// NotIterable reports a value whose type is not an array, dynamic array or range.
func NotIterable(typeName string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorNotIterable, fmt.Sprintf("value of type %s is not iterable", typeName), pos).
		WithNote("only fixed arrays, dynamic arrays, list literals and range() can be iterated").
		Build()
}

// NotAValue reports an iterable expression that names something other than
// a value, such as a type, the storage struct or a tuple.
func NotAValue(what string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorNotIterable, fmt.Sprintf("%s is not iterable", what), pos).
		WithNote("only fixed arrays, dynamic arrays, list literals and range() can be iterated").
		Build()
}

// IteratorForm reports an iterable expression that can never be iterated,
// such as a bare function call.
func IteratorForm(message string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorIteratorForm, message, pos).
		WithSuggestion("assign the result to a local variable and iterate over that").
		Build()
}

// RangeArguments reports a range() call with an unsupported argument list.
func RangeArguments(count int, pos ast.Position) CompilerError {
	msg := fmt.Sprintf("range() expects 1 or 2 arguments, got %d", count)
	builder := NewSemanticError(ErrorRangeArguments, msg, pos)
	if count > 2 {
		builder = builder.WithNote("a step argument is not supported")
	}
	return builder.Build()
}

// RangeNotConstant reports a range() bound that does not fold at compile time.
func RangeNotConstant(pos ast.Position) CompilerError {
	return NewSemanticError(ErrorRangeNotConstant, "range bound must be a constant", pos).
		WithHelp("iterate over a fixed-size array to loop a runtime number of times").
		Build()
}

// EmptyIteration reports an iteration space with no elements.
func EmptyIteration(message string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorEmptyIteration, message, pos).Build()
}

// LoopTypeMismatch reports a loop variable annotation that differs from the element type.
func LoopTypeMismatch(declared, element string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorLoopTypeMismatch,
		fmt.Sprintf("loop variable declared as %s but elements are %s", declared, element), pos).
		WithReplacement("annotate the loop variable with the element type", element, pos, len(declared)).
		Build()
}

// LoopNameCollision reports a loop variable name already bound on the enclosing chain.
func LoopNameCollision(name, existing string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorLoopNameCollision,
		fmt.Sprintf("'%s' is already declared as %s", name, existing), pos).
		WithLength(len(name)).
		WithSuggestion("choose a different name for the loop variable").
		Build()
}

// LoopVariableAssignment reports a write to the loop variable itself.
func LoopVariableAssignment(name string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorLoopVariableAssignment,
		fmt.Sprintf("cannot assign to loop variable `%s`", name), pos).
		WithLength(len(name)).
		Build()
}

// IterableMutation reports a statement or call that may modify the iterated storage.
// via names the callee when the write happens in another function.
func IterableMutation(rootName, via string, pos ast.Position) CompilerError {
	builder := NewSemanticError(ErrorIterableMutation,
		fmt.Sprintf("cannot modify loop variable `%s`", rootName), pos)
	if via != "" {
		builder = builder.WithNote(fmt.Sprintf("`%s` may write to `%s`", via, rootName))
	}
	return builder.WithHelp("collect the changes and apply them after the loop").Build()
}

// JumpOutsideLoop reports break or continue with no enclosing loop.
func JumpOutsideLoop(keyword string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorJumpOutsideLoop, fmt.Sprintf("'%s' outside of a loop", keyword), pos).
		WithLength(len(keyword)).
		Build()
}
