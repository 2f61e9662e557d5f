package callgraph

import (
	"github.com/aclements/go-moremath/graph/graphalg"

	"loopsafe/internal/storage"
)

// MutationSets maps each function to every root it may write, directly or
// through calls.
type MutationSets map[SymbolID]*storage.Set

// Of returns the mutation set of id; unknown functions write nothing.
func (m MutationSets) Of(id SymbolID) *storage.Set {
	if s, ok := m[id]; ok {
		return s
	}
	return &storage.Set{}
}

// PersistentAlias returns a persistent root written by id that aliases r.
// Memory roots never escape their own frame, so they are not considered.
func (m MutationSets) PersistentAlias(id SymbolID, r storage.Root) (storage.Root, bool) {
	if !r.IsPersistent() {
		return storage.Root{}, false
	}
	return m.Of(id).Persistent().FindAlias(r)
}

// Solve computes the least fixed point of
//
//	M(f) = LocalWrites(f) ∪ ⋃ persistent(M(g)) for every callee g of f
//
// Strongly connected components are collapsed first and every member of a
// component shares the component's persistent writes. A component is folded
// only after every component it calls into.
func Solve(g *Graph) MutationSets {
	scc := graphalg.SCC(g, graphalg.SCCSubnodeComponent)
	sets := make(MutationSets, g.NumNodes())
	done := make([]bool, scc.NumNodes())

	var fold func(cid int)
	fold = func(cid int) {
		if done[cid] {
			return
		}
		done[cid] = true
		members := scc.Subnodes(cid)
		shared := &storage.Set{}
		for _, nid := range members {
			shared.AddAll(g.Nodes[g.ids[nid]].LocalWrites.Persistent())
			for _, callee := range g.Out(nid) {
				if other := scc.SubnodeComponent(callee); other != cid {
					fold(other)
					shared.AddAll(sets[g.ids[callee]].Persistent())
				}
			}
		}
		for _, nid := range members {
			id := g.ids[nid]
			set := &storage.Set{}
			set.AddAll(g.Nodes[id].LocalWrites)
			set.AddAll(shared)
			sets[id] = set
		}
	}
	for cid := 0; cid < scc.NumNodes(); cid++ {
		fold(cid)
	}
	return sets
}
