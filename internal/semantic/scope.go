package semantic

import (
	"loopsafe/internal/ast"
	"loopsafe/internal/errors"
	"loopsafe/internal/storage"
	"loopsafe/internal/types"
)

type SymbolKind int

const (
	SymbolParameter SymbolKind = iota
	SymbolVariable
	SymbolLoopVariable
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolParameter:
		return "a parameter"
	case SymbolLoopVariable:
		return "an enclosing loop variable"
	default:
		return "a local variable"
	}
}

// Symbol is a name bound inside a function body
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Type     types.Type // nil when the declaration did not resolve
	Mutable  bool
	Position ast.Position
}

// LoopBinding is the active binding of a loop variable. SourceRoots are the
// roots of the iterable; a loop over a literal or a range has none.
type LoopBinding struct {
	Name        string
	Type        types.Type
	Depth       int
	SourceRoots []storage.Root
	Position    ast.Position
}

// scopeManager tracks the names visible at a point of one function body.
// Loop bindings live on their own stack so the enclosing loop chain can be
// searched independently of block-local variables.
type scopeManager struct {
	params map[string]*Symbol
	blocks []map[string]*Symbol
	loops  []*LoopBinding
}

func newScopeManager() *scopeManager {
	return &scopeManager{params: make(map[string]*Symbol)}
}

func (sm *scopeManager) pushBlock() {
	sm.blocks = append(sm.blocks, make(map[string]*Symbol))
}

func (sm *scopeManager) popBlock() {
	sm.blocks = sm.blocks[:len(sm.blocks)-1]
}

func (sm *scopeManager) defineParam(sym *Symbol) bool {
	if _, exists := sm.params[sym.Name]; exists {
		return false
	}
	sym.Kind = SymbolParameter
	sm.params[sym.Name] = sym
	return true
}

// define declares a local in the innermost block. A local may not reuse a
// name that is visible anywhere in the function.
func (sm *scopeManager) define(sym *Symbol) *errors.CompilerError {
	if b := sm.loop(sym.Name); b != nil {
		err := errors.LoopNameCollision(sym.Name, SymbolLoopVariable.String(), sym.Position)
		return &err
	}
	if existing := sm.lookup(sym.Name); existing != nil {
		err := errors.DuplicateDeclaration(sym.Name, sym.Position)
		err.Notes = append(err.Notes, "'"+sym.Name+"' is already declared as "+existing.Kind.String())
		return &err
	}
	sym.Kind = SymbolVariable
	sm.blocks[len(sm.blocks)-1][sym.Name] = sym
	return nil
}

// enter pushes a loop binding. The name must be free on the whole chain:
// enclosing loops, parameters and visible locals. The binding is pushed
// even on a collision so the body still sees the loop variable; the caller
// always pairs enter with exit.
func (sm *scopeManager) enter(b *LoopBinding) *errors.CompilerError {
	var collision *errors.CompilerError
	if sm.loop(b.Name) != nil {
		err := errors.LoopNameCollision(b.Name, SymbolLoopVariable.String(), b.Position)
		collision = &err
	} else if existing := sm.lookup(b.Name); existing != nil {
		err := errors.LoopNameCollision(b.Name, existing.Kind.String(), b.Position)
		collision = &err
	}
	b.Depth = len(sm.loops)
	sm.loops = append(sm.loops, b)
	return collision
}

// exit pops the innermost loop binding; its name becomes free again.
func (sm *scopeManager) exit() {
	sm.loops = sm.loops[:len(sm.loops)-1]
}

func (sm *scopeManager) loop(name string) *LoopBinding {
	for i := len(sm.loops) - 1; i >= 0; i-- {
		if sm.loops[i].Name == name {
			return sm.loops[i]
		}
	}
	return nil
}

// lookup finds a parameter or local; loop bindings are reported through
// resolve.
func (sm *scopeManager) lookup(name string) *Symbol {
	for i := len(sm.blocks) - 1; i >= 0; i-- {
		if sym, ok := sm.blocks[i][name]; ok {
			return sym
		}
	}
	return sm.params[name]
}

// resolve finds any name bound in the function, loop variables first.
func (sm *scopeManager) resolve(name string) *Symbol {
	if b := sm.loop(name); b != nil {
		return &Symbol{Name: b.Name, Kind: SymbolLoopVariable, Type: b.Type, Position: b.Position}
	}
	return sm.lookup(name)
}

// names lists every visible name, for suggestions.
func (sm *scopeManager) names() []string {
	var names []string
	for _, b := range sm.loops {
		names = append(names, b.Name)
	}
	for _, block := range sm.blocks {
		for name := range block {
			names = append(names, name)
		}
	}
	for name := range sm.params {
		names = append(names, name)
	}
	return names
}

func (sm *scopeManager) inLoop() bool {
	return len(sm.loops) > 0
}
