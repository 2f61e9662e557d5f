package types

import (
	"fmt"
	"sort"
	"strconv"

	"loopsafe/internal/ast"
	"loopsafe/internal/errors"
)

// Scope is the viewpoint a type expression is resolved from: the unit it
// appears in and the modules that unit imports.
type Scope struct {
	Module  string
	Imports *ImportTable
}

// TypeRegistry manages the user-defined structs of every unit in a compilation
type TypeRegistry struct {
	decls     map[string]map[string]*ast.Struct // module -> struct name -> declaration
	resolved  map[string]*StructType
	resolving map[string]bool
	storage   map[string]*ast.Struct
	imports   map[string]*ImportTable
}

// NewTypeRegistry creates an empty type registry
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		decls:     make(map[string]map[string]*ast.Struct),
		resolved:  make(map[string]*StructType),
		resolving: make(map[string]bool),
		storage:   make(map[string]*ast.Struct),
		imports:   make(map[string]*ImportTable),
	}
}

// SetImports records the import table used to resolve the fields of a module's structs
func (tr *TypeRegistry) SetImports(module string, imports *ImportTable) {
	tr.imports[module] = imports
}

// AddUserDefinedType adds a struct declared in module to the registry
func (tr *TypeRegistry) AddUserDefinedType(module string, def *ast.Struct) *errors.CompilerError {
	name := def.Name.Value
	if IsBuiltinType(name) {
		err := errors.DuplicateDeclaration(name, def.Name.Pos)
		err.Notes = append(err.Notes, fmt.Sprintf("'%s' is a built-in type", name))
		return &err
	}
	structs := tr.decls[module]
	if structs == nil {
		structs = make(map[string]*ast.Struct)
		tr.decls[module] = structs
	}
	if _, exists := structs[name]; exists {
		err := errors.DuplicateDeclaration(name, def.Name.Pos)
		return &err
	}
	if def.IsStorage() {
		if prev, exists := tr.storage[module]; exists {
			err := errors.NewSemanticError(errors.ErrorDuplicateDeclaration,
				fmt.Sprintf("unit '%s' declares more than one storage struct", module), def.Name.Pos).
				WithNote(fmt.Sprintf("'%s' is already the storage struct", prev.Name.Value)).
				Build()
			return &err
		}
		tr.storage[module] = def
	}
	structs[name] = def
	return nil
}

// IsUserDefinedType checks if module declares a struct with the given name
func (tr *TypeRegistry) IsUserDefinedType(module, name string) bool {
	_, ok := tr.decls[module][name]
	return ok
}

// GetUserDefinedType returns the declaration of a struct
func (tr *TypeRegistry) GetUserDefinedType(module, name string) *ast.Struct {
	return tr.decls[module][name]
}

// StorageStruct returns the #[storage] struct declared in module, or nil
func (tr *TypeRegistry) StorageStruct(module string) (*StructType, error) {
	def, ok := tr.storage[module]
	if !ok {
		return nil, nil
	}
	return tr.Struct(module, def.Name.Value)
}

// TypeNames lists the type names visible in module, for suggestions
func (tr *TypeRegistry) TypeNames(module string) []string {
	names := BuiltinTypeNames()
	for name := range tr.decls[module] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Struct resolves a declared struct and its field types
func (tr *TypeRegistry) Struct(module, name string) (*StructType, error) {
	key := module + "::" + name
	if st, ok := tr.resolved[key]; ok {
		return st, nil
	}
	def, ok := tr.decls[module][name]
	if !ok {
		return nil, errors.UnknownTypeName(name, ast.Position{}, nil)
	}
	if tr.resolving[key] {
		return nil, errors.InvalidTypeDecl(fmt.Sprintf("struct '%s' contains itself", name), def.Name.Pos)
	}
	tr.resolving[key] = true
	defer delete(tr.resolving, key)

	scope := Scope{Module: module, Imports: tr.imports[module]}
	st := &StructType{Module: module, Name: name, Storage: def.IsStorage()}
	seen := make(map[string]bool)
	for _, field := range def.Fields {
		if seen[field.Name.Value] {
			return nil, errors.DuplicateDeclaration(field.Name.Value, field.Name.Pos)
		}
		seen[field.Name.Value] = true
		ft, err := tr.Resolve(field.VariableType, scope)
		if err != nil {
			return nil, err
		}
		st.Fields = append(st.Fields, Field{Name: field.Name.Value, Type: ft})
	}
	tr.resolved[key] = st
	return st, nil
}

// Resolve turns a type expression into a Type. Errors are errors.CompilerError
// values of kind UnknownType or InvalidType.
func (tr *TypeRegistry) Resolve(vt *ast.VariableType, scope Scope) (Type, error) {
	if vt == nil {
		return nil, errors.InvalidTypeDecl("missing type", ast.Position{})
	}
	if vt.IsArray() {
		elem, err := tr.Resolve(vt.Elem, scope)
		if err != nil {
			return nil, err
		}
		n, err := parseSize(vt.Len)
		if err != nil {
			return nil, errors.InvalidTypeDecl(fmt.Sprintf("array length must be a positive integer, got %s", vt.Len), vt.Pos)
		}
		return &ArrayType{Elem: elem, Len: n}, nil
	}
	if vt.Size != "" {
		return nil, errors.InvalidTypeDecl(fmt.Sprintf("expected a type, found %s", vt.Size), vt.Pos)
	}

	name := vt.Name.Value
	if vt.Module != nil {
		module := vt.Module.Value
		if scope.Imports != nil && !scope.Imports.Has(module) {
			return nil, errors.UndefinedModule(module, vt.Module.Pos)
		}
		return tr.resolveStruct(module, vt, scope)
	}

	if it, ok := ParseIntegerName(name); ok {
		return it, tr.noGenerics(vt)
	}

	switch BuiltinType(name) {
	case Bool:
		return BoolT, tr.noGenerics(vt)
	case Address:
		return AddressT, tr.noGenerics(vt)
	case String, Bytes:
		if len(vt.Generics) != 1 || vt.Generics[0].Size == "" {
			return nil, errors.InvalidTypeDecl(fmt.Sprintf("%s takes exactly one length parameter, as in %s<32>", name, name), vt.Pos)
		}
		n, err := parseSize(vt.Generics[0].Size)
		if err != nil {
			return nil, errors.InvalidTypeDecl(fmt.Sprintf("%s length must be a positive integer", name), vt.Generics[0].Pos)
		}
		if name == string(String) {
			return &StringType{MaxLen: n}, nil
		}
		return &BytesType{MaxLen: n}, nil
	case DynArray:
		if len(vt.Generics) != 2 || vt.Generics[0].Size != "" || vt.Generics[1].Size == "" {
			return nil, errors.InvalidTypeDecl("DynArray takes an element type and a maximum length, as in DynArray<U256, 10>", vt.Pos)
		}
		elem, err := tr.Resolve(vt.Generics[0], scope)
		if err != nil {
			return nil, err
		}
		n, err := parseSize(vt.Generics[1].Size)
		if err != nil {
			return nil, errors.InvalidTypeDecl("DynArray maximum length must be a positive integer", vt.Generics[1].Pos)
		}
		return &DynArrayType{Elem: elem, MaxLen: n}, nil
	}

	return tr.resolveStruct(scope.Module, vt, scope)
}

func (tr *TypeRegistry) resolveStruct(module string, vt *ast.VariableType, scope Scope) (Type, error) {
	name := vt.Name.Value
	if !tr.IsUserDefinedType(module, name) {
		return nil, errors.UnknownTypeName(vt.String(), vt.Pos, errors.SimilarNames(name, tr.TypeNames(module)))
	}
	if err := tr.noGenerics(vt); err != nil {
		return nil, err
	}
	return tr.Struct(module, name)
}

func (tr *TypeRegistry) noGenerics(vt *ast.VariableType) error {
	if len(vt.Generics) > 0 {
		return errors.InvalidTypeDecl(fmt.Sprintf("type %s does not accept type parameters", vt.Name.Value), vt.Pos)
	}
	return nil
}

func parseSize(s string) (int, error) {
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("size %d is not positive", n)
	}
	return int(n), nil
}
