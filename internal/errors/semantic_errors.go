package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"loopsafe/internal/ast"
)

// SemanticErrorBuilder provides a fluent interface for creating semantic errors with suggestions
type SemanticErrorBuilder struct {
	err CompilerError
}

// NewSemanticError creates a new semantic error builder
func NewSemanticError(code, message string, pos ast.Position) *SemanticErrorBuilder {
	return &SemanticErrorBuilder{
		err: CompilerError{
			Level:    Error,
			Code:     code,
			Kind:     KindOf(code),
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// WithLength sets the length of the error span
func (b *SemanticErrorBuilder) WithLength(length int) *SemanticErrorBuilder {
	b.err.Length = length
	return b
}

// WithKind overrides the kind derived from the error code
func (b *SemanticErrorBuilder) WithKind(kind Kind) *SemanticErrorBuilder {
	b.err.Kind = kind
	return b
}

// WithSuggestion adds a suggestion to the error
func (b *SemanticErrorBuilder) WithSuggestion(message string) *SemanticErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

// WithReplacement adds a suggestion with replacement text
func (b *SemanticErrorBuilder) WithReplacement(message, replacement string, pos ast.Position, length int) *SemanticErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{
		Message:     message,
		Replacement: replacement,
		Position:    pos,
		Length:      length,
	})
	return b
}

// WithNote adds a note to the error
func (b *SemanticErrorBuilder) WithNote(note string) *SemanticErrorBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp adds help text to the error
func (b *SemanticErrorBuilder) WithHelp(help string) *SemanticErrorBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed compiler error
func (b *SemanticErrorBuilder) Build() CompilerError {
	return b.err
}

// Common semantic error constructors with suggestions

func didYouMean(builder *SemanticErrorBuilder, similarNames []string) *SemanticErrorBuilder {
	switch len(similarNames) {
	case 0:
		return builder
	case 1:
		return builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similarNames[0]))
	default:
		suggestions := strings.Join(similarNames, "', '")
		return builder.WithSuggestion(fmt.Sprintf("did you mean one of: '%s'?", suggestions))
	}
}

// Syntax wraps a scanner or parser message.
func Syntax(message string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorSyntax, message, pos).Build()
}

// UndefinedVariable creates an error for undefined variables with suggestions
func UndefinedVariable(name string, pos ast.Position, similarNames []string) CompilerError {
	builder := NewSemanticError(ErrorUndefinedVariable, fmt.Sprintf("undefined variable '%s'", name), pos).
		WithLength(len(name))

	if len(similarNames) > 0 {
		builder = didYouMean(builder, similarNames)
	} else {
		builder = builder.WithSuggestion("make sure the variable is declared before use").
			WithNote("variables must be declared with 'let' or 'let mut'")
	}

	return builder.Build()
}

// UndefinedFunction creates an error for undefined functions with suggestions
func UndefinedFunction(name string, pos ast.Position, similarNames []string, availableImports []string) CompilerError {
	builder := NewSemanticError(ErrorUndefinedFunction, fmt.Sprintf("function '%s' is not imported or defined", name), pos).
		WithLength(len(name))

	builder = didYouMean(builder, similarNames)
	for _, imp := range availableImports {
		builder = builder.WithSuggestion(fmt.Sprintf("try importing: use %s;", imp))
	}

	return builder.WithHelp("functions must be defined in this unit or called through an imported module").Build()
}

// UndefinedModule creates an error for a module path that was never imported
func UndefinedModule(name string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorUndefinedModule, fmt.Sprintf("module '%s' is not imported", name), pos).
		WithLength(len(name)).
		WithReplacement("import it at the top of the unit", fmt.Sprintf("use %s;", name), pos, 0).
		Build()
}

// TypeMismatch creates an error for type mismatches. There are no implicit
// conversions between integer widths or signedness.
func TypeMismatch(expected, actual string, pos ast.Position) CompilerError {
	builder := NewSemanticError(ErrorTypeMismatch, fmt.Sprintf("type mismatch: expected %s, found %s", expected, actual), pos)

	if isIntegerName(expected) && isIntegerName(actual) {
		builder = builder.WithNote("integer types are never converted implicitly")
	} else if expected == "Bool" && actual != "Bool" {
		builder = builder.WithSuggestion("use a comparison operator to create a boolean value")
	}

	return builder.Build()
}

// NumericOverflow creates an error for a constant that does not fit its type
func NumericOverflow(value, typeName string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorNumericOverflow, fmt.Sprintf("value %s does not fit in %s", value, typeName), pos).
		WithLength(len(value)).
		Build()
}

// NotConstant creates an error for an expression that must fold at compile time
func NotConstant(what string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorNotConstant, fmt.Sprintf("%s must be a compile-time constant", what), pos).
		WithHelp("only literals, constants and arithmetic on them are allowed here").
		Build()
}

// UnknownTypeName creates an error for a type name that does not resolve
func UnknownTypeName(name string, pos ast.Position, similarNames []string) CompilerError {
	builder := NewSemanticError(ErrorUnknownType, fmt.Sprintf("unknown type '%s'", name), pos).
		WithLength(len(name))
	return didYouMean(builder, similarNames).Build()
}

// InvalidTypeDecl creates an error for a malformed type
func InvalidTypeDecl(message string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorInvalidTypeDecl, message, pos).Build()
}

// FieldNotFound creates an error for missing struct fields with suggestions
func FieldNotFound(structName, fieldName string, pos ast.Position, availableFields []string) CompilerError {
	builder := NewSemanticError(ErrorFieldNotFound, fmt.Sprintf("struct '%s' has no field '%s'", structName, fieldName), pos).
		WithLength(len(fieldName))

	if len(availableFields) > 0 {
		builder = didYouMean(builder, SimilarNames(fieldName, availableFields))

		// Show available fields
		fields := strings.Join(availableFields, ", ")
		builder = builder.WithNote(fmt.Sprintf("available fields: %s", fields))
	}

	return builder.Build()
}

// DuplicateDeclaration creates an error for duplicate declarations
func DuplicateDeclaration(name string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorDuplicateDeclaration, fmt.Sprintf("duplicate declaration: %s", name), pos).
		WithSuggestion(fmt.Sprintf("rename the duplicate '%s' to a unique name", name)).
		WithNote("identifiers must be unique within their scope").
		Build()
}

// InvalidArguments creates an error for function call argument mismatches
func InvalidArguments(functionName string, expected, actual int, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorInvalidArguments,
		fmt.Sprintf("function '%s' expects %d arguments, got %d", functionName, expected, actual), pos).
		WithSuggestion(fmt.Sprintf("provide exactly %d argument(s)", expected)).
		WithHelp("check the function signature for the correct number of parameters").
		Build()
}

// InvalidAssignment creates an error for invalid assignment operations
func InvalidAssignment(message string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorInvalidAssignment, message, pos).
		WithSuggestion("check that the variable is declared as 'let mut' for mutability").
		Build()
}

// ModuleNotFound creates an error for a `use` that names no known module
func ModuleNotFound(name string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorModuleNotFound, fmt.Sprintf("module '%s' not found", name), pos).
		WithLength(len(name)).
		WithNote(fmt.Sprintf("expected a file named %s.ka next to the main unit", name)).
		Build()
}

// ImportCycle creates an error for modules that import each other
func ImportCycle(chain []string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorImportCycle, fmt.Sprintf("import cycle: %s", strings.Join(chain, " -> ")), pos).
		WithHelp("move the shared declarations into a module both can import").
		Build()
}

// DuplicateImport creates an error for a module imported twice by one unit
func DuplicateImport(name string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorDuplicateImport, fmt.Sprintf("module '%s' is imported more than once", name), pos).
		WithLength(len(name)).
		WithSuggestion("remove the duplicate use statement").
		Build()
}

// Helper functions

func isIntegerName(typeName string) bool {
	if len(typeName) < 2 || (typeName[0] != 'U' && typeName[0] != 'I') {
		return false
	}
	for _, c := range typeName[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// SimilarNames returns the candidates within edit distance two of target,
// closest first.
func SimilarNames(target string, candidates []string) []string {
	var similar []string
	distance := make(map[string]int)

	for _, candidate := range candidates {
		if len(candidate) <= 2 {
			continue
		}
		if d := fuzzy.LevenshteinDistance(target, candidate); d <= 2 {
			if _, seen := distance[candidate]; !seen {
				similar = append(similar, candidate)
			}
			distance[candidate] = d
		}
	}

	sort.SliceStable(similar, func(i, j int) bool {
		return distance[similar[i]] < distance[similar[j]]
	})
	return similar
}
