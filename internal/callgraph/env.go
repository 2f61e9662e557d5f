package callgraph

import (
	"loopsafe/internal/ast"
	"loopsafe/internal/stdlib"
	"loopsafe/internal/storage"
)

// Resolver answers the symbol questions root and callee resolution needs.
// Unknown names are not errors here; name resolution reports them.
type Resolver interface {
	// StorageStruct returns the name of module's #[storage] struct.
	StorageStruct(module string) (string, bool)
	// HasFunction reports whether module declares a function called name.
	HasFunction(module, name string) bool
	// IsConstant reports whether name is a unit-level constant of module.
	IsConstant(module, name string) bool
}

type loopBinding struct {
	name  string
	roots []storage.Root
}

// Env resolves access expressions to storage roots and call expressions to
// callees inside one function body. Loop variables are pushed and popped as
// the walk enters and leaves loops, so a write through a loop variable maps
// to its source root plus an any-index step.
type Env struct {
	Module   string
	Function string
	resolver Resolver
	loops    []loopBinding
}

// NewEnv returns an environment for the body of module::function
func NewEnv(module, function string, r Resolver) *Env {
	return &Env{Module: module, Function: function, resolver: r}
}

// PushLoop binds a loop variable to the roots it iterates over
func (e *Env) PushLoop(name string, source []storage.Root) {
	elems := make([]storage.Root, len(source))
	for i, r := range source {
		elems[i] = r.Child(storage.AnyIndex)
	}
	e.loops = append(e.loops, loopBinding{name: name, roots: elems})
}

// PopLoop removes the innermost loop binding
func (e *Env) PopLoop() {
	e.loops = e.loops[:len(e.loops)-1]
}

func (e *Env) loop(name string) (loopBinding, bool) {
	for i := len(e.loops) - 1; i >= 0; i-- {
		if e.loops[i].name == name {
			return e.loops[i], true
		}
	}
	return loopBinding{}, false
}

// Roots returns the roots expr reads from. Literals, calls and constants
// have none. A conditional yields the roots of both branches.
func (e *Env) Roots(expr ast.Expr) []storage.Root {
	switch x := ast.Unparen(expr).(type) {
	case *ast.IdentExpr:
		if b, ok := e.loop(x.Name); ok {
			return append([]storage.Root(nil), b.roots...)
		}
		if e.resolver.IsConstant(e.Module, x.Name) {
			return nil
		}
		if name, ok := e.resolver.StorageStruct(e.Module); ok && name == x.Name {
			return nil
		}
		return []storage.Root{storage.NewRoot(storage.MemorySymbol(e.Module, e.Function, x.Name))}

	case *ast.FieldAccessExpr:
		if module, ok := e.StorageBase(x.Target); ok {
			return []storage.Root{storage.NewRoot(storage.PersistentSymbol(module, x.Field))}
		}
		return extend(e.Roots(x.Target), storage.FieldStep(x.Field))

	case *ast.IndexExpr:
		return extend(e.Roots(x.Target), storage.AnyIndex)

	case *ast.IfExpr:
		return append(e.Roots(x.Then), e.Roots(x.Else)...)
	}
	return nil
}

// StorageBase reports whether target names a storage struct, either the
// unit's own ("State") or an imported module's ("lib1::State"), and returns
// the module that declares it.
func (e *Env) StorageBase(target ast.Expr) (string, bool) {
	switch t := ast.Unparen(target).(type) {
	case *ast.IdentExpr:
		if _, shadowed := e.loop(t.Name); shadowed {
			return "", false
		}
		if name, ok := e.resolver.StorageStruct(e.Module); ok && name == t.Name {
			return e.Module, true
		}
	case *ast.CalleePath:
		if len(t.Parts) != 2 {
			return "", false
		}
		module := t.Parts[0].Value
		if name, ok := e.resolver.StorageStruct(module); ok && name == t.Parts[1].Value {
			return module, true
		}
	}
	return "", false
}

func extend(roots []storage.Root, step storage.Step) []storage.Root {
	out := make([]storage.Root, len(roots))
	for i, r := range roots {
		out[i] = r.Child(step)
	}
	return out
}

// Callee resolves a call to a user function: "foo()" in the same unit or
// "lib1::foo()" in another. Builtins and methods have no callee.
func (e *Env) Callee(call *ast.CallExpr) (SymbolID, bool) {
	switch c := call.Callee.(type) {
	case *ast.IdentExpr:
		if e.resolver.HasFunction(e.Module, c.Name) {
			return ID(e.Module, c.Name), true
		}
	case *ast.CalleePath:
		if len(c.Parts) == 2 && e.resolver.HasFunction(c.Parts[0].Value, c.Parts[1].Value) {
			return ID(c.Parts[0].Value, c.Parts[1].Value), true
		}
	}
	return "", false
}

// MutatedReceiver returns the receiver of a mutating builtin method call
// such as "State.queue.pop()".
func MutatedReceiver(call *ast.CallExpr) (ast.Expr, string, bool) {
	field, ok := call.Callee.(*ast.FieldAccessExpr)
	if !ok || !stdlib.IsMutatingMethod(field.Field) {
		return nil, "", false
	}
	return field.Target, field.Field, true
}
