package stdlib

import (
	"sort"
	"sync"

	"loopsafe/grammar"
)

// catalogueSource declares every builtin callable. Type names in signatures
// are either concrete types or one of the placeholders below.
//
//	Int    any integer constant
//	Seq    an array, dynamic array, string or bytes value
//	Type   a type name passed as an argument
//	T      the type named by the Type argument
//	Elem   the element type of the receiver
//	Range  an iteration space, only valid as a loop iterable
const catalogueSource = `
/// Iterates 0, 1, ..., stop-1
fn range(stop: Int) -> Range const;
/// Iterates start, start+1, ..., stop-1
fn range(start: Int, stop: Int) -> Range const;
/// Number of elements currently held
fn len(seq: Seq) -> U256;
/// Zero value of a type
fn empty(t: Type) -> T;
/// Largest value of an integer type
fn max_value(t: Type) -> T const;
/// Smallest value of an integer type
fn min_value(t: Type) -> T const;

/// Appends a value to the end of the array
method DynArray.append(value: Elem) mutating;
/// Removes and returns the last element
method DynArray.pop() -> Elem mutating;
/// Inserts a value at an index, shifting later elements
method DynArray.insert(index: U256, value: Elem) mutating;
/// Removes and returns the element at an index
method DynArray.remove(index: U256) -> Elem mutating;
/// Removes every element
method DynArray.clear() mutating;
`

// Placeholder type names used in signatures
const (
	IntParam   = "Int"
	SeqParam   = "Seq"
	TypeParam  = "Type"
	TypeResult = "T"
	ElemType   = "Elem"
	RangeType  = "Range"
)

// FunctionDefinition defines a builtin function or method signature
type FunctionDefinition struct {
	Name       string                // Function name (e.g., "range", "pop")
	Receiver   string                // Receiver type for methods (e.g., "DynArray")
	Parameters []ParameterDefinition // Function parameters
	ReturnType string                // Return type name (empty if void)
	Mutating   bool                  // Whether a method modifies its receiver
	Const      bool                  // Whether calls with constant arguments fold at compile time
	Doc        string
	Signature  string
}

// ParameterDefinition defines a function parameter
type ParameterDefinition struct {
	Name string // Parameter name
	Type string // Parameter type name
}

// Arity returns the number of parameters
func (f FunctionDefinition) Arity() int {
	return len(f.Parameters)
}

// IsMethod reports whether the definition is called with receiver syntax
func (f FunctionDefinition) IsMethod() bool {
	return f.Receiver != ""
}

type catalogue struct {
	functions map[string][]FunctionDefinition
	methods   map[string]FunctionDefinition
}

var (
	loadOnce sync.Once
	builtins *catalogue
)

func load() *catalogue {
	loadOnce.Do(func() {
		parsed := grammar.MustParse("builtins", catalogueSource)
		builtins = &catalogue{
			functions: make(map[string][]FunctionDefinition),
			methods:   make(map[string]FunctionDefinition),
		}
		for _, sig := range parsed.Signatures {
			def := FunctionDefinition{
				Name:      sig.Name(),
				Receiver:  sig.Receiver(),
				Mutating:  sig.HasFlag("mutating"),
				Const:     sig.HasFlag("const"),
				Doc:       sig.Docs(),
				Signature: sig.String(),
			}
			for _, p := range sig.Params {
				def.Parameters = append(def.Parameters, ParameterDefinition{Name: p.Name, Type: p.Type.Name})
			}
			if sig.Return != nil {
				def.ReturnType = sig.Return.Name
			}
			if def.IsMethod() {
				builtins.methods[def.Name] = def
			} else {
				builtins.functions[def.Name] = append(builtins.functions[def.Name], def)
			}
		}
	})
	return builtins
}

// IsBuiltinFunction checks if a name refers to a builtin function
func IsBuiltinFunction(name string) bool {
	_, ok := load().functions[name]
	return ok
}

// GetFunction returns the overloads of a builtin function, ordered by arity
func GetFunction(name string) []FunctionDefinition {
	return load().functions[name]
}

// GetFunctionByArity returns the overload of name taking argc arguments
func GetFunctionByArity(name string, argc int) (FunctionDefinition, bool) {
	for _, def := range load().functions[name] {
		if def.Arity() == argc {
			return def, true
		}
	}
	return FunctionDefinition{}, false
}

// GetMethod returns a builtin method by name
func GetMethod(name string) (FunctionDefinition, bool) {
	def, ok := load().methods[name]
	return def, ok
}

// IsMutatingMethod reports whether calling the named method modifies its receiver
func IsMutatingMethod(name string) bool {
	def, ok := GetMethod(name)
	return ok && def.Mutating
}

// FunctionNames lists the builtin function names in sorted order
func FunctionNames() []string {
	var names []string
	for name := range load().functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MethodNames lists the builtin method names in sorted order
func MethodNames() []string {
	var names []string
	for name := range load().methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
