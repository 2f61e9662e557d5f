package semantic

import (
	"loopsafe/internal/ast"
	"loopsafe/internal/callgraph"
	"loopsafe/internal/errors"
	"loopsafe/internal/storage"
)

// baseIdent returns the variable an access path starts from
func baseIdent(target ast.Expr) (*ast.IdentExpr, bool) {
	for {
		switch t := ast.Unparen(target).(type) {
		case *ast.IdentExpr:
			return t, true
		case *ast.FieldAccessExpr:
			target = t.Target
		case *ast.IndexExpr:
			target = t.Target
		default:
			return nil, false
		}
	}
}

// checkWrite validates a write to target: an assignment or the receiver of
// a mutating method. The loop variable itself and immutable locals cannot
// be written; parameters are writable memory. Any write aliasing an
// iterated root is a mutation of that loop's iterable.
func (a *Analyzer) checkWrite(target ast.Expr, pos ast.Position) {
	if id, whole := ast.Unparen(target).(*ast.IdentExpr); whole {
		if !a.checkNameWrite(id, pos, true) {
			return
		}
	} else if base, ok := baseIdent(target); ok && !a.isStorageBase(target) {
		if !a.checkNameWrite(base, pos, false) {
			return
		}
	}
	a.checkIterableWrites(a.env.Roots(target), pos)
}

// checkNameWrite reports whether writing through name may continue to the
// alias check. whole is set when the name itself is the target.
func (a *Analyzer) checkNameWrite(id *ast.IdentExpr, pos ast.Position, whole bool) bool {
	sym := a.scope.resolve(id.Name)
	if sym == nil {
		// undefined names are reported when the target is analysed
		return false
	}
	switch sym.Kind {
	case SymbolLoopVariable:
		if whole {
			a.addCompilerError(errors.LoopVariableAssignment(id.Name, pos))
			return false
		}
	case SymbolVariable:
		if !sym.Mutable {
			a.addImmutableVariableAssignmentError(id.Name, pos)
			return false
		}
	}
	return true
}

// isStorageBase reports whether an access path starts at a storage struct
func (a *Analyzer) isStorageBase(target ast.Expr) bool {
	for {
		switch t := ast.Unparen(target).(type) {
		case *ast.FieldAccessExpr:
			if _, ok := a.env.StorageBase(t.Target); ok {
				return true
			}
			target = t.Target
		case *ast.IndexExpr:
			target = t.Target
		default:
			return false
		}
	}
}

// checkIterableWrites reports the first write that aliases the source root
// of an active loop, innermost loop first.
func (a *Analyzer) checkIterableWrites(writes []storage.Root, pos ast.Position) {
	for i := len(a.scope.loops) - 1; i >= 0; i-- {
		for _, src := range a.scope.loops[i].SourceRoots {
			for _, w := range writes {
				if storage.Aliases(w, src) {
					a.addCompilerError(errors.IterableMutation(src.Name(), "", pos))
					return
				}
			}
		}
	}
}

// checkCallWrites reports a call whose mutation set reaches the persistent
// source root of an active loop. Memory roots never escape a frame, so
// loops over locals are only affected by writes in their own body.
func (a *Analyzer) checkCallWrites(id callgraph.SymbolID, name string, pos ast.Position) {
	for i := len(a.scope.loops) - 1; i >= 0; i-- {
		for _, src := range a.scope.loops[i].SourceRoots {
			if _, ok := a.sets.PersistentAlias(id, src); ok {
				a.addCompilerError(errors.IterableMutation(src.Name(), name, pos))
				return
			}
		}
	}
}
