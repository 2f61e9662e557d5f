// Package callgraph builds the graph of user functions across every unit of
// a compilation and computes, per function, the storage roots it may write.
package callgraph

import (
	"fmt"
	"sort"

	"loopsafe/internal/ast"
	"loopsafe/internal/storage"
)

// SymbolID identifies a function as "module::name"
type SymbolID string

// ID builds the symbol id of module::name
func ID(module, name string) SymbolID {
	return SymbolID(module + "::" + name)
}

// Node is one function: its direct callees and the roots its own body writes
type Node struct {
	ID          SymbolID
	Callees     map[SymbolID]struct{}
	LocalWrites *storage.Set
}

// CalleeIDs returns the callees in sorted order
func (n *Node) CalleeIDs() []SymbolID {
	ids := make([]SymbolID, 0, len(n.Callees))
	for id := range n.Callees {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Fragment is the part of the graph contributed by one unit
type Fragment struct {
	Module string
	Nodes  []*Node
}

// BuildFragment scans every function of unit for calls and writes
func BuildFragment(unit *ast.Contract, r Resolver) *Fragment {
	module := unit.Name.Value
	frag := &Fragment{Module: module}
	for _, item := range unit.Items {
		fn, ok := item.(*ast.Function)
		if !ok {
			continue
		}
		node := &Node{
			ID:          ID(module, fn.Name.Value),
			Callees:     make(map[SymbolID]struct{}),
			LocalWrites: &storage.Set{},
		}
		s := &scanner{env: NewEnv(module, fn.Name.Value, r), node: node}
		s.block(fn.Body)
		frag.Nodes = append(frag.Nodes, node)
	}
	return frag
}

type scanner struct {
	env  *Env
	node *Node
}

func (s *scanner) block(b *ast.FunctionBlock) {
	if b == nil {
		return
	}
	for _, item := range b.Items {
		s.stmt(item)
	}
	if b.TailExpr != nil {
		s.expr(b.TailExpr.Expr)
	}
}

func (s *scanner) stmt(item ast.FunctionBlockItem) {
	switch st := item.(type) {
	case *ast.ExprStmt:
		s.expr(st.Expr)
	case *ast.LetStmt:
		s.expr(st.Expr)
	case *ast.AssignStmt:
		s.write(st.Target)
		s.expr(st.Target)
		s.expr(st.Value)
	case *ast.ReturnStmt:
		s.expr(st.Value)
	case *ast.AssertStmt:
		for _, a := range st.Args {
			s.expr(a)
		}
	case *ast.IfStmt:
		s.expr(st.Cond)
		s.block(st.Then)
		if st.Else != nil {
			s.stmt(st.Else)
		}
	case *ast.ForStmt:
		s.expr(st.Iter)
		s.env.PushLoop(st.Var.Value, s.env.Roots(st.Iter))
		s.block(st.Body)
		s.env.PopLoop()
	case *ast.FunctionBlock:
		s.block(st)
	}
}

func (s *scanner) write(target ast.Expr) {
	for _, r := range s.env.Roots(target) {
		s.node.LocalWrites.Add(r)
	}
}

func (s *scanner) expr(e ast.Expr) {
	if e == nil {
		return
	}
	ast.Inspect(e, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		if id, ok := s.env.Callee(call); ok {
			s.node.Callees[id] = struct{}{}
		}
		if recv, _, ok := MutatedReceiver(call); ok {
			s.write(recv)
		}
		return true
	})
}

// Graph is the merged call graph of a compilation. It satisfies the
// go-moremath graph.Graph interface over dense node indices.
type Graph struct {
	Nodes map[SymbolID]*Node
	ids   []SymbolID
	index map[SymbolID]int
	out   [][]int
}

// Merge joins the fragments of every unit. Edges to functions absent from
// every fragment are dropped; they can only come from unresolved names.
func Merge(fragments ...*Fragment) (*Graph, error) {
	g := &Graph{
		Nodes: make(map[SymbolID]*Node),
		index: make(map[SymbolID]int),
	}
	for _, frag := range fragments {
		for _, n := range frag.Nodes {
			if _, dup := g.Nodes[n.ID]; dup {
				return nil, fmt.Errorf("function %s defined twice", n.ID)
			}
			g.Nodes[n.ID] = n
			g.ids = append(g.ids, n.ID)
		}
	}
	sort.Slice(g.ids, func(i, j int) bool { return g.ids[i] < g.ids[j] })
	for i, id := range g.ids {
		g.index[id] = i
	}
	g.out = make([][]int, len(g.ids))
	for i, id := range g.ids {
		for _, callee := range g.Nodes[id].CalleeIDs() {
			if j, ok := g.index[callee]; ok {
				g.out[i] = append(g.out[i], j)
			}
		}
	}
	return g, nil
}

func (g *Graph) NumNodes() int {
	return len(g.ids)
}

func (g *Graph) Out(i int) []int {
	return g.out[i]
}

// Label returns the symbol of node i
func (g *Graph) Label(i int) string {
	return string(g.ids[i])
}

// IDs returns every function symbol in sorted order
func (g *Graph) IDs() []SymbolID {
	return append([]SymbolID(nil), g.ids...)
}

// Reachable returns the functions reachable from id through one or more calls
func (g *Graph) Reachable(id SymbolID) []SymbolID {
	start, ok := g.index[id]
	if !ok {
		return nil
	}
	seen := make([]bool, len(g.ids))
	stack := append([]int(nil), g.out[start]...)
	var out []SymbolID
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, g.ids[n])
		stack = append(stack, g.out[n]...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
