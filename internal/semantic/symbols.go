package semantic

import (
	"sort"

	"loopsafe/internal/ast"
	"loopsafe/internal/errors"
	"loopsafe/internal/types"
)

// Program is the symbol table of a whole compilation: every unit with its
// imports, structs, constants and functions. It answers the callgraph
// resolver questions so roots and callees resolve the same way everywhere.
type Program struct {
	Registry *types.TypeRegistry

	units     map[string]*ast.Contract
	order     []string
	imports   map[string]*types.ImportTable
	functions map[string]map[string]*ast.Function
	constants map[string]map[string]*ast.ConstDecl
	storage   map[string]string
}

// NewProgram registers the declarations of every unit. Units are kept in
// the order given; duplicate declarations are reported and the first wins.
func NewProgram(units ...*ast.Contract) (*Program, []errors.CompilerError) {
	p := &Program{
		Registry:  types.NewTypeRegistry(),
		units:     make(map[string]*ast.Contract),
		imports:   make(map[string]*types.ImportTable),
		functions: make(map[string]map[string]*ast.Function),
		constants: make(map[string]map[string]*ast.ConstDecl),
		storage:   make(map[string]string),
	}
	var errs []errors.CompilerError
	for _, unit := range units {
		errs = append(errs, p.add(unit)...)
	}
	return p, errs
}

func (p *Program) add(unit *ast.Contract) []errors.CompilerError {
	module := unit.Name.Value
	if _, exists := p.units[module]; exists {
		return []errors.CompilerError{errors.DuplicateDeclaration(module, unit.Name.Pos)}
	}
	p.units[module] = unit
	p.order = append(p.order, module)

	imports, errs := types.ImportsOf(unit)
	p.imports[module] = imports
	p.Registry.SetImports(module, imports)

	functions := make(map[string]*ast.Function)
	constants := make(map[string]*ast.ConstDecl)
	p.functions[module] = functions
	p.constants[module] = constants

	for _, item := range unit.Items {
		switch node := item.(type) {
		case *ast.Struct:
			if err := p.Registry.AddUserDefinedType(module, node); err != nil {
				errs = append(errs, *err)
				continue
			}
			if node.IsStorage() {
				p.storage[module] = node.Name.Value
			}
		case *ast.Function:
			if _, exists := functions[node.Name.Value]; exists {
				errs = append(errs, errors.DuplicateDeclaration(node.Name.Value, node.Name.Pos))
				continue
			}
			functions[node.Name.Value] = node
		case *ast.ConstDecl:
			if _, exists := constants[node.Name.Value]; exists {
				errs = append(errs, errors.DuplicateDeclaration(node.Name.Value, node.Name.Pos))
				continue
			}
			constants[node.Name.Value] = node
		}
	}
	return errs
}

// Units returns the registered units in registration order
func (p *Program) Units() []*ast.Contract {
	units := make([]*ast.Contract, len(p.order))
	for i, name := range p.order {
		units[i] = p.units[name]
	}
	return units
}

// Unit returns the unit named module
func (p *Program) Unit(module string) *ast.Contract {
	return p.units[module]
}

// Imports returns the import table of module
func (p *Program) Imports(module string) *types.ImportTable {
	return p.imports[module]
}

// Function returns module::name, or nil
func (p *Program) Function(module, name string) *ast.Function {
	return p.functions[module][name]
}

// Constant returns the constant module::name, or nil
func (p *Program) Constant(module, name string) *ast.ConstDecl {
	return p.constants[module][name]
}

// FunctionNames lists the functions of module in sorted order
func (p *Program) FunctionNames(module string) []string {
	names := make([]string, 0, len(p.functions[module]))
	for name := range p.functions[module] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p *Program) constantNames(module string) []string {
	names := make([]string, 0, len(p.constants[module]))
	for name := range p.constants[module] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ModulesDefining lists the units other than module that declare a function
// called name, for import suggestions.
func (p *Program) ModulesDefining(name, module string) []string {
	var out []string
	for _, m := range p.order {
		if m != module && p.functions[m][name] != nil {
			out = append(out, m)
		}
	}
	return out
}

func (p *Program) StorageStruct(module string) (string, bool) {
	name, ok := p.storage[module]
	return name, ok
}

func (p *Program) HasFunction(module, name string) bool {
	return p.functions[module][name] != nil
}

func (p *Program) IsConstant(module, name string) bool {
	return p.constants[module][name] != nil
}
