package compiler

import (
	"sort"

	"loopsafe/internal/ast"
	"loopsafe/internal/errors"
)

// uses lists the use statements of a unit in source order
func uses(unit *ast.Contract) []*ast.Use {
	var out []*ast.Use
	for _, item := range unit.Items {
		if use, ok := item.(*ast.Use); ok {
			out = append(out, use)
		}
	}
	return out
}

// findImportCycle reports the first cycle reachable from root. Units are
// keyed by module name; imports of missing units are ignored here.
func findImportCycle(root string, units map[string]*ast.Contract) *errors.CompilerError {
	const (
		unvisited = iota
		active
		finished
	)
	state := make(map[string]int, len(units))
	var stack []string

	var visit func(name string) *errors.CompilerError
	visit = func(name string) *errors.CompilerError {
		state[name] = active
		stack = append(stack, name)
		for _, use := range uses(units[name]) {
			dep := use.Module.Value
			if units[dep] == nil {
				continue
			}
			switch state[dep] {
			case active:
				chain := []string{dep}
				for i := len(stack) - 1; i >= 0 && stack[i] != dep; i-- {
					chain = append(chain, stack[i])
				}
				chain = append(chain, dep)
				reverse(chain)
				err := errors.ImportCycle(chain, use.Module.Pos)
				return &err
			case unvisited:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = finished
		return nil
	}
	return visit(root)
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// topoOrder lists the units dependencies first, ties broken by name, so
// the analysis order does not depend on load order.
func topoOrder(root string, units map[string]*ast.Contract) []*ast.Contract {
	seen := make(map[string]bool, len(units))
	var out []*ast.Contract
	var visit func(name string)
	visit = func(name string) {
		if seen[name] || units[name] == nil {
			return
		}
		seen[name] = true
		var deps []string
		for _, use := range uses(units[name]) {
			deps = append(deps, use.Module.Value)
		}
		sort.Strings(deps)
		for _, dep := range deps {
			visit(dep)
		}
		out = append(out, units[name])
	}
	visit(root)
	return out
}
