package semantic

import (
	"loopsafe/internal/ast"
	"loopsafe/internal/errors"
	"loopsafe/internal/types"
)

// checkLoopVariableType requires the declared loop type to be exactly the
// element type of the space. No widening: a U248 variable cannot range
// over U256 elements, even when every value would fit.
func (a *Analyzer) checkLoopVariableType(declared, elem types.Type, pos ast.Position) bool {
	if types.Identical(declared, elem) {
		return true
	}
	a.addCompilerError(errors.LoopTypeMismatch(declared.String(), elem.String(), pos))
	return false
}
