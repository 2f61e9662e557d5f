package semantic

import (
	stderrors "errors"

	"loopsafe/internal/ast"
	"loopsafe/internal/errors"
)

func (a *Analyzer) addCompilerError(err errors.CompilerError) {
	log.Debugf("%s", err.Error())
	a.errors = append(a.errors, err)
}

// addTypeError records an error returned by the type registry
func (a *Analyzer) addTypeError(err error) {
	var ce errors.CompilerError
	if stderrors.As(err, &ce) {
		a.addCompilerError(ce)
		return
	}
	a.addCompilerError(errors.InvalidTypeDecl(err.Error(), ast.Position{}))
}

func (a *Analyzer) addTypeMismatchError(expected, actual string, pos ast.Position) {
	a.addCompilerError(errors.TypeMismatch(expected, actual, pos))
}

func (a *Analyzer) addImmutableVariableAssignmentError(name string, pos ast.Position) {
	err := errors.NewSemanticError(errors.ErrorInvalidAssignment,
		"cannot assign to immutable variable '"+name+"'", pos).
		WithHelp("variable '" + name + "' is declared as immutable").
		WithSuggestion("change 'let " + name + "' to 'let mut " + name + "' to make it mutable").
		Build()
	a.addCompilerError(err)
}
