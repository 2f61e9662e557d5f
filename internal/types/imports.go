package types

import (
	"sort"

	"loopsafe/internal/ast"
	"loopsafe/internal/errors"
)

// ImportTable records the modules a unit brings into scope with `use`
type ImportTable struct {
	unit    string
	modules map[string]*ast.Use
}

// NewImportTable creates an empty import table for the named unit
func NewImportTable(unit string) *ImportTable {
	return &ImportTable{
		unit:    unit,
		modules: make(map[string]*ast.Use),
	}
}

// ImportsOf collects the use statements of a unit. Duplicate imports are
// reported and the first occurrence wins.
func ImportsOf(unit *ast.Contract) (*ImportTable, []errors.CompilerError) {
	table := NewImportTable(unit.Name.Value)
	var errs []errors.CompilerError
	for _, item := range unit.Items {
		use, ok := item.(*ast.Use)
		if !ok {
			continue
		}
		if err := table.Add(use); err != nil {
			errs = append(errs, *err)
		}
	}
	return table, errs
}

// Add records a use statement
func (it *ImportTable) Add(use *ast.Use) *errors.CompilerError {
	name := use.Module.Value
	if _, exists := it.modules[name]; exists {
		err := errors.DuplicateImport(name, use.Module.Pos)
		return &err
	}
	it.modules[name] = use
	return nil
}

// Unit returns the name of the importing unit
func (it *ImportTable) Unit() string {
	return it.unit
}

// Has reports whether a module is imported or is the unit itself
func (it *ImportTable) Has(module string) bool {
	if module == it.unit {
		return true
	}
	_, ok := it.modules[module]
	return ok
}

// Use returns the statement that imported module
func (it *ImportTable) Use(module string) *ast.Use {
	return it.modules[module]
}

// Names returns the imported module names in sorted order
func (it *ImportTable) Names() []string {
	names := make([]string, 0, len(it.modules))
	for name := range it.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
