package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"loopsafe/internal/ast"
)

func TestErrorReporter(t *testing.T) {
	source := `contract Test {
    ext fn test() -> U256 {
        let x = unknownVar;
        return x;
    }
}`

	reporter := NewErrorReporter("test.ka", source)

	err := UndefinedVariable("unknownVar", ast.Position{Line: 3, Column: 17}, []string{"knownVar", "anotherVar"})
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "error["+ErrorUndefinedVariable+"]")
	assert.Contains(t, formatted, "undefined variable")
	assert.Contains(t, formatted, "unknownVar")
	assert.Contains(t, formatted, "test.ka:3:17")
	assert.Contains(t, formatted, "did you mean")
	assert.Contains(t, formatted, "knownVar")
}

func TestFormatErrorShowsKind(t *testing.T) {
	source := `for x: U256 in State.queue {
    State.queue.pop();
}`
	reporter := NewErrorReporter("main.ka", source)

	err := IterableMutation("queue", "", ast.Position{Line: 2, Column: 5})
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "ImmutableViolation")
	assert.Contains(t, formatted, "cannot modify loop variable `queue`")
	assert.Contains(t, formatted, "help:")
}

func TestUndefinedVariableError(t *testing.T) {
	pos := ast.Position{Line: 1, Column: 5}

	err := UndefinedVariable("balace", pos, []string{"balance"})
	assert.Equal(t, ErrorUndefinedVariable, err.Code)
	assert.Equal(t, UndeclaredDefinition, err.Kind)
	assert.Contains(t, err.Message, "balace")
	assert.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0].Message, "did you mean 'balance'")

	err = UndefinedVariable("xyz", pos, []string{})
	assert.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0].Message, "make sure the variable is declared")
}

func TestUndefinedFunctionError(t *testing.T) {
	pos := ast.Position{Line: 1, Column: 5}

	err := UndefinedFunction("popqeue", pos, []string{"popqueue"}, []string{"lib1"})
	assert.Equal(t, ErrorUndefinedFunction, err.Code)
	assert.Contains(t, err.Message, "popqeue")
	assert.Len(t, err.Suggestions, 2)
	assert.Contains(t, err.Suggestions[0].Message, "did you mean 'popqueue'")
	assert.Contains(t, err.Suggestions[1].Message, "try importing: use lib1;")
}

func TestTypeMismatchError(t *testing.T) {
	pos := ast.Position{Line: 1, Column: 5}

	err := TypeMismatch("U256", "U64", pos)
	assert.Equal(t, ErrorTypeMismatch, err.Code)
	assert.Equal(t, TypeMismatchKind, err.Kind)
	assert.Contains(t, err.Message, "expected U256, found U64")
	assert.Empty(t, err.Suggestions)
	assert.Contains(t, err.Notes[0], "never converted implicitly")

	err = TypeMismatch("Bool", "U64", pos)
	assert.Contains(t, err.Suggestions[0].Message, "comparison operator")
}

func TestFieldNotFoundError(t *testing.T) {
	pos := ast.Position{Line: 1, Column: 5}

	err := FieldNotFound("Person", "nam", pos, []string{"name", "age", "email"})
	assert.Equal(t, ErrorFieldNotFound, err.Code)
	assert.Contains(t, err.Message, "struct 'Person' has no field 'nam'")
	assert.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0].Message, "did you mean 'name'")
	assert.Len(t, err.Notes, 1)
	assert.Contains(t, err.Notes[0], "available fields: name, age, email")
}

func TestLoopErrorKinds(t *testing.T) {
	pos := ast.Position{Line: 1, Column: 1}

	tests := []struct {
		err  CompilerError
		kind Kind
		msg  string
	}{
		{NotIterable("U256", pos), InvalidType, "not iterable"},
		{NotAValue("the type name 'U256'", pos), InvalidType, "the type name 'U256' is not iterable"},
		{IteratorForm("cannot iterate over the result of a function call", pos), IteratorException, "function call"},
		{RangeArguments(0, pos), ArgumentException, "got 0"},
		{RangeNotConstant(pos), StructureException, "range bound must be a constant"},
		{EmptyIteration("range is empty", pos), StructureException, "empty"},
		{LoopTypeMismatch("U8", "U256", pos), TypeMismatchKind, "declared as U8"},
		{LoopNameCollision("i", "a loop variable", pos), NamespaceCollision, "'i' is already declared"},
		{LoopVariableAssignment("i", pos), ImmutableViolation, "cannot assign to loop variable `i`"},
		{IterableMutation("queue", "lib1::popqueue", pos), ImmutableViolation, "cannot modify loop variable `queue`"},
		{JumpOutsideLoop("break", pos), StructureException, "'break' outside"},
		{ImportCycle([]string{"lib1", "lib2", "lib1"}, pos), ImportCycleKind, "lib1 -> lib2 -> lib1"},
		{ModuleNotFound("lib9", pos), ModuleNotFoundKind, "'lib9' not found"},
		{DuplicateImport("lib1", pos), DuplicateImportKind, "more than once"},
		{Syntax("Expect ';'", pos), SyntaxException, "Expect"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Code, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind)
			assert.Contains(t, tt.err.Message, tt.msg)
		})
	}
}

func TestErrorCategories(t *testing.T) {
	assert.Equal(t, "Loop Safety", GetErrorCategory(ErrorIterableMutation))
	assert.Equal(t, "Import/Module", GetErrorCategory(ErrorImportCycle))
	assert.Equal(t, "Parser", GetErrorCategory(ErrorSyntax))
	assert.Equal(t, SemanticError, KindOf("E9999"))
	assert.Equal(t, "Unknown error code", GetErrorDescription("E9999"))
}

func TestRangeArgumentsNotesStep(t *testing.T) {
	err := RangeArguments(3, ast.Position{})
	assert.Contains(t, err.Notes[0], "step")
	assert.Empty(t, RangeArguments(0, ast.Position{}).Notes)
}

func TestCompilerErrorAsError(t *testing.T) {
	err := IterableMutation("queue", "", ast.Position{Filename: "main.ka", Line: 4, Column: 9})
	assert.Equal(t, "main.ka:4:9: ImmutableViolation: cannot modify loop variable `queue`", err.Error())

	wrapped := fmt.Errorf("compile: %w", err)
	assert.True(t, stderrors.Is(wrapped, Of(ImmutableViolation)))
	assert.False(t, stderrors.Is(wrapped, Of(TypeMismatchKind)))

	var ce CompilerError
	assert.True(t, stderrors.As(wrapped, &ce))
	assert.Equal(t, ErrorIterableMutation, ce.Code)
}

func TestErrorMarkerCreation(t *testing.T) {
	source := `let variable = value;`
	reporter := NewErrorReporter("test.ka", source)

	marker := reporter.createMarker(5, 8, Error)

	spaces := strings.Count(marker, " ")
	assert.Equal(t, 4, spaces)
	carets := strings.Count(marker, "^")
	assert.Equal(t, 8, carets)
}

func TestMultipleSuggestions(t *testing.T) {
	pos := ast.Position{Line: 1, Column: 5}

	err := UndefinedFunction("unknownFunc", pos,
		[]string{"knownFunc1", "knownFunc2"},
		[]string{"lib1", "lib2"})

	assert.True(t, len(err.Suggestions) >= 3)

	suggestionTexts := make([]string, len(err.Suggestions))
	for i, s := range err.Suggestions {
		suggestionTexts[i] = s.Message
	}

	suggestionText := strings.Join(suggestionTexts, " ")
	assert.Contains(t, suggestionText, "knownFunc1")
	assert.Contains(t, suggestionText, "knownFunc2")
	assert.Contains(t, suggestionText, "use lib1;")
	assert.Contains(t, suggestionText, "use lib2;")
}

func TestSimilarNameFinding(t *testing.T) {
	candidates := []string{"balance", "amount", "total", "balanceOf", "xyz"}

	similar := SimilarNames("balace", candidates)
	assert.Contains(t, similar, "balance")
	assert.NotContains(t, similar, "xyz")

	similar = SimilarNames("verydifferent", candidates)
	assert.Empty(t, similar)

	// closest first, duplicates once
	similar = SimilarNames("tota", []string{"totals", "total", "total"})
	assert.Equal(t, []string{"total", "totals"}, similar)
}

func TestErrorLevels(t *testing.T) {
	source := `test`
	reporter := NewErrorReporter("test.ka", source)
	pos := ast.Position{Line: 1, Column: 1}

	errorErr := CompilerError{Level: Error, Message: "test error", Position: pos}
	warningErr := CompilerError{Level: Warning, Message: "test warning", Position: pos}

	assert.Contains(t, reporter.FormatError(errorErr), "error:")
	assert.Contains(t, reporter.FormatError(warningErr), "warning:")
}
