package errors

// Kind is the exception class a diagnostic belongs to. Callers match on the
// kind; the code identifies the precise rule.
type Kind string

const (
	SyntaxException      Kind = "SyntaxException"
	UnknownType          Kind = "UnknownType"
	InvalidType          Kind = "InvalidType"
	IteratorException    Kind = "IteratorException"
	ArgumentException    Kind = "ArgumentException"
	StructureException   Kind = "StructureException"
	TypeMismatchKind     Kind = "TypeMismatch"
	NamespaceCollision   Kind = "NamespaceCollision"
	ImmutableViolation   Kind = "ImmutableViolation"
	ImportCycleKind      Kind = "ImportCycle"
	ModuleNotFoundKind   Kind = "ModuleNotFound"
	DuplicateImportKind  Kind = "DuplicateImport"
	UndeclaredDefinition Kind = "UndeclaredDefinition"
	SemanticError        Kind = "SemanticError"
)

var kindByCode = map[string]Kind{
	ErrorUndefinedVariable:      UndeclaredDefinition,
	ErrorUndefinedFunction:      UndeclaredDefinition,
	ErrorUndefinedModule:        UndeclaredDefinition,
	ErrorTypeMismatch:           TypeMismatchKind,
	ErrorInvalidReturnType:      TypeMismatchKind,
	ErrorNumericOverflow:        TypeMismatchKind,
	ErrorFieldNotFound:          UnknownType,
	ErrorDuplicateDeclaration:   NamespaceCollision,
	ErrorInvalidArguments:       ArgumentException,
	ErrorInvalidAssignment:      ImmutableViolation,
	ErrorNotConstant:            StructureException,
	ErrorSyntax:                 SyntaxException,
	ErrorUnknownType:            UnknownType,
	ErrorInvalidTypeDecl:        InvalidType,
	ErrorModuleNotFound:         ModuleNotFoundKind,
	ErrorImportCycle:            ImportCycleKind,
	ErrorDuplicateImport:        DuplicateImportKind,
	ErrorNotIterable:            InvalidType,
	ErrorIteratorForm:           IteratorException,
	ErrorRangeArguments:         ArgumentException,
	ErrorRangeNotConstant:       StructureException,
	ErrorEmptyIteration:         StructureException,
	ErrorLoopTypeMismatch:       TypeMismatchKind,
	ErrorLoopNameCollision:      NamespaceCollision,
	ErrorLoopVariableAssignment: ImmutableViolation,
	ErrorIterableMutation:       ImmutableViolation,
	ErrorJumpOutsideLoop:        StructureException,
}

// KindOf returns the kind associated with an error code.
func KindOf(code string) Kind {
	if k, ok := kindByCode[code]; ok {
		return k
	}
	return SemanticError
}
