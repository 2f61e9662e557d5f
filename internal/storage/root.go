// Package storage names the places an expression reads from or writes to.
//
// A Root is a symbol (a persistent storage field or a function-local
// variable) plus an access path of field names and any-index markers.
// Aliasing is decided structurally on roots, never by reference identity,
// and is conservative: indices are never told apart.
package storage

import (
	"sort"
	"strings"
)

// SymbolKind separates persistent state from function-local memory
type SymbolKind int

const (
	Persistent SymbolKind = iota
	Memory
)

func (k SymbolKind) String() string {
	if k == Memory {
		return "memory"
	}
	return "storage"
}

// Symbol identifies a root variable. Persistent symbols are unique per
// (Module, Name); memory symbols additionally carry their function.
type Symbol struct {
	Kind     SymbolKind
	Module   string
	Function string
	Name     string
}

// PersistentSymbol returns the symbol of a storage field declared in module
func PersistentSymbol(module, name string) Symbol {
	return Symbol{Kind: Persistent, Module: module, Name: name}
}

// MemorySymbol returns the symbol of a local variable or parameter of function
func MemorySymbol(module, function, name string) Symbol {
	return Symbol{Kind: Memory, Module: module, Function: function, Name: name}
}

func (s Symbol) String() string {
	if s.Kind == Memory {
		return s.Module + "::" + s.Function + "::" + s.Name
	}
	return s.Module + "::" + s.Name
}

// Step is one element of an access path: a field name or any index
type Step struct {
	Field string
	Index bool
}

// AnyIndex stands for every subscript
var AnyIndex = Step{Index: true}

// FieldStep selects a struct field
func FieldStep(name string) Step {
	return Step{Field: name}
}

func (s Step) String() string {
	if s.Index {
		return "[*]"
	}
	return "." + s.Field
}

// Root is a symbol plus the path accessed from it
type Root struct {
	Symbol Symbol
	Path   []Step
}

// NewRoot returns the root of an entire symbol
func NewRoot(sym Symbol) Root {
	return Root{Symbol: sym}
}

// Child extends the path by one step. The receiver is left untouched.
func (r Root) Child(step Step) Root {
	path := make([]Step, len(r.Path), len(r.Path)+1)
	copy(path, r.Path)
	return Root{Symbol: r.Symbol, Path: append(path, step)}
}

// Name is the declared symbol name reported in diagnostics
func (r Root) Name() string {
	return r.Symbol.Name
}

// IsPersistent reports whether the root is storage state
func (r Root) IsPersistent() bool {
	return r.Symbol.Kind == Persistent
}

func (r Root) String() string {
	var b strings.Builder
	b.WriteString(r.Symbol.String())
	for _, s := range r.Path {
		b.WriteString(s.String())
	}
	return b.String()
}

// Key is a canonical string for map keys and ordering
func (r Root) Key() string {
	return r.Symbol.Kind.String() + ":" + r.String()
}

// Equal reports whether two roots have the same symbol and path
func (r Root) Equal(o Root) bool {
	if r.Symbol != o.Symbol || len(r.Path) != len(o.Path) {
		return false
	}
	for i := range r.Path {
		if r.Path[i] != o.Path[i] {
			return false
		}
	}
	return true
}

// Aliases reports whether a and b may denote overlapping locations: the
// symbols are equal and one path is a prefix of the other. Index steps
// match each other regardless of the subscript.
func Aliases(a, b Root) bool {
	if a.Symbol != b.Symbol {
		return false
	}
	n := min(len(a.Path), len(b.Path))
	for i := 0; i < n; i++ {
		if a.Path[i] != b.Path[i] {
			return false
		}
	}
	return true
}

// Set is a set of roots. The zero value is empty and ready to use.
type Set struct {
	roots map[string]Root
}

// NewSet returns a set holding roots
func NewSet(roots ...Root) *Set {
	s := &Set{}
	for _, r := range roots {
		s.Add(r)
	}
	return s
}

// Add inserts r and reports whether the set changed
func (s *Set) Add(r Root) bool {
	if s.roots == nil {
		s.roots = make(map[string]Root)
	}
	key := r.Key()
	if _, ok := s.roots[key]; ok {
		return false
	}
	s.roots[key] = r
	return true
}

// AddAll inserts every root of o and reports whether the set changed
func (s *Set) AddAll(o *Set) bool {
	if o == nil {
		return false
	}
	changed := false
	for _, r := range o.roots {
		if s.Add(r) {
			changed = true
		}
	}
	return changed
}

// Contains reports whether r is in the set
func (s *Set) Contains(r Root) bool {
	if s == nil {
		return false
	}
	_, ok := s.roots[r.Key()]
	return ok
}

// Len returns the number of roots
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.roots)
}

// FindAlias returns a member aliasing r
func (s *Set) FindAlias(r Root) (Root, bool) {
	if s == nil {
		return Root{}, false
	}
	for _, key := range s.keys() {
		if Aliases(s.roots[key], r) {
			return s.roots[key], true
		}
	}
	return Root{}, false
}

// Persistent returns the subset of persistent roots
func (s *Set) Persistent() *Set {
	out := &Set{}
	if s == nil {
		return out
	}
	for _, r := range s.roots {
		if r.IsPersistent() {
			out.Add(r)
		}
	}
	return out
}

// Roots returns the members ordered by key
func (s *Set) Roots() []Root {
	if s == nil {
		return nil
	}
	keys := s.keys()
	out := make([]Root, len(keys))
	for i, k := range keys {
		out[i] = s.roots[k]
	}
	return out
}

func (s *Set) String() string {
	roots := s.Roots()
	parts := make([]string, len(roots))
	for i, r := range roots {
		parts[i] = r.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (s *Set) keys() []string {
	keys := make([]string, 0, len(s.roots))
	for k := range s.roots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
