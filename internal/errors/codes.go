package errors

// Error codes for the loopsafe compiler
// These codes are used in error messages and documentation
// to provide consistent error identification across the toolchain.
//
// Error code ranges:
// E0001-E0099: Semantic analysis errors
// E0100-E0199: Parser errors
// E0200-E0299: Type system errors
// E0300-E0399: Import/module errors
// E0700-E0799: Loop iteration safety errors
// E0900-E0999: Reserved for tooling errors

const (
	// E0001: Variable resolution errors
	ErrorUndefinedVariable = "E0001"

	// E0002: Function resolution errors
	ErrorUndefinedFunction = "E0002"

	// E0003: Type compatibility errors
	ErrorTypeMismatch = "E0003"

	// E0004: Function return type errors
	ErrorInvalidReturnType = "E0004"

	// E0005: Struct field access errors
	ErrorFieldNotFound = "E0005"

	// E0009: Duplicate declaration errors
	ErrorDuplicateDeclaration = "E0009"

	// E0013: Function call argument errors
	ErrorInvalidArguments = "E0013"

	// E0014: Assignment validation errors
	ErrorInvalidAssignment = "E0014"

	// E0018: Numeric overflow errors
	ErrorNumericOverflow = "E0018"

	// E0021: Module not imported errors
	ErrorUndefinedModule = "E0021"

	// E0022: Constant expression errors
	ErrorNotConstant = "E0022"

	// E0100: Scanner or parser rejected the source
	ErrorSyntax = "E0100"

	// E0200: Type name does not resolve
	ErrorUnknownType = "E0200"

	// E0201: Type is malformed (bad array length, wrong generic arity)
	ErrorInvalidTypeDecl = "E0201"

	// E0300: Imported module not found in the input bundle
	ErrorModuleNotFound = "E0300"

	// E0301: Modules import each other
	ErrorImportCycle = "E0301"

	// E0302: The same module is imported twice
	ErrorDuplicateImport = "E0302"

	// E0700: Iterable is not an ordered bounded sequence
	ErrorNotIterable = "E0700"

	// E0701: Iterable is a call or other form that cannot be iterated
	ErrorIteratorForm = "E0701"

	// E0702: range() called with the wrong number of arguments or a step
	ErrorRangeArguments = "E0702"

	// E0703: range() bound is not a compile-time constant
	ErrorRangeNotConstant = "E0703"

	// E0704: Iteration would be empty or of negative length
	ErrorEmptyIteration = "E0704"

	// E0705: Loop variable type differs from the element type
	ErrorLoopTypeMismatch = "E0705"

	// E0706: Loop variable name already active on the nesting chain
	ErrorLoopNameCollision = "E0706"

	// E0707: Assignment to the loop variable itself
	ErrorLoopVariableAssignment = "E0707"

	// E0708: The loop body may mutate the iterated storage
	ErrorIterableMutation = "E0708"

	// E0709: break/continue outside a loop
	ErrorJumpOutsideLoop = "E0709"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorUndefinedVariable:
		return "Variable is used but not defined in the current scope"
	case ErrorUndefinedFunction:
		return "Function is called but not imported or defined"
	case ErrorTypeMismatch:
		return "Expression type does not match expected type"
	case ErrorInvalidReturnType:
		return "Function return value type does not match declared return type"
	case ErrorFieldNotFound:
		return "Struct field does not exist"
	case ErrorDuplicateDeclaration:
		return "Duplicate declaration found"
	case ErrorInvalidArguments:
		return "Function call has invalid arguments"
	case ErrorInvalidAssignment:
		return "Invalid assignment operation"
	case ErrorNumericOverflow:
		return "Constant does not fit its type"
	case ErrorUndefinedModule:
		return "Module is referenced but not imported"
	case ErrorNotConstant:
		return "Expression must be a compile-time constant"
	case ErrorSyntax:
		return "Source could not be scanned or parsed"
	case ErrorUnknownType:
		return "Type name does not resolve to any known type"
	case ErrorInvalidTypeDecl:
		return "Type declaration is malformed"
	case ErrorModuleNotFound:
		return "Imported module could not be found"
	case ErrorImportCycle:
		return "Modules import each other in a cycle"
	case ErrorDuplicateImport:
		return "Module is imported more than once"
	case ErrorNotIterable:
		return "Value is not an iterable sequence"
	case ErrorIteratorForm:
		return "Expression form can never be iterated"
	case ErrorRangeArguments:
		return "range() takes one or two arguments and no step"
	case ErrorRangeNotConstant:
		return "range() bounds must be compile-time constants"
	case ErrorEmptyIteration:
		return "Iteration is empty or has negative length"
	case ErrorLoopTypeMismatch:
		return "Loop variable type must equal the element type exactly"
	case ErrorLoopNameCollision:
		return "Loop variable name is already in use in an enclosing scope"
	case ErrorLoopVariableAssignment:
		return "Loop variables cannot be assigned"
	case ErrorIterableMutation:
		return "Iterated storage may be modified during iteration"
	case ErrorJumpOutsideLoop:
		return "break or continue used outside a loop"
	default:
		return "Unknown error code"
	}
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case code >= "E0001" && code < "E0100":
		return "Semantic Analysis"
	case code >= "E0100" && code < "E0200":
		return "Parser"
	case code >= "E0200" && code < "E0300":
		return "Type System"
	case code >= "E0300" && code < "E0400":
		return "Import/Module"
	case code >= "E0700" && code < "E0800":
		return "Loop Safety"
	default:
		return "Unknown"
	}
}
