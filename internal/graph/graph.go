package graph

import (
	"fmt"

	"github.com/vk/dagselect/internal/manifest"
	"github.com/vk/dagselect/internal/nodeid"
)

// Unbounded marks a traversal without a depth limit.
const Unbounded = -1

// Graph is a directed acyclic dependency graph over member ids. An edge
// from a to b means b depends on a.
type Graph struct {
	// parents maps an id to the set of nodes it depends on.
	parents map[nodeid.ID]nodeid.Set
	// children maps an id to the set of nodes depending on it.
	children map[nodeid.ID]nodeid.Set
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		parents:  make(map[nodeid.ID]nodeid.Set),
		children: make(map[nodeid.ID]nodeid.Set),
	}
}

// FromManifest builds and validates the full dependency graph from a
// manifest snapshot. Every depends_on reference must resolve to a manifest
// member and the resulting graph must be acyclic.
func FromManifest(mf *manifest.Manifest) (*Graph, error) {
	g := New()
	for _, id := range nodeid.Sorted(mf.IDs()) {
		g.AddNode(id)
	}
	for _, id := range nodeid.Sorted(mf.IDs()) {
		m, _ := mf.Member(id)
		for _, dep := range m.DependsOn {
			if !g.Has(dep) {
				return nil, fmt.Errorf("member %q depends on unknown member %q", id, dep)
			}
			if err := g.AddEdge(dep, id); err != nil {
				return nil, err
			}
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// AddNode adds a node with the given id. Adding an existing id is a no-op.
func (g *Graph) AddNode(id nodeid.ID) {
	if _, ok := g.parents[id]; ok {
		return
	}
	g.parents[id] = nodeid.NewSet()
	g.children[id] = nodeid.NewSet()
}

// AddEdge records that toID depends on fromID. Both nodes must already
// exist and self-references are rejected.
func (g *Graph) AddEdge(fromID, toID nodeid.ID) error {
	if fromID == toID {
		return fmt.Errorf("self-referential edge not allowed: %s", fromID)
	}
	if _, ok := g.parents[fromID]; !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}
	if _, ok := g.parents[toID]; !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}
	g.parents[toID].Insert(fromID)
	g.children[fromID].Insert(toID)
	return nil
}

// Validate checks the graph for cycles. It returns a non-nil error naming a
// node involved in the first cycle found.
func (g *Graph) Validate() error {
	// Classic depth-first search over three implicit node sets:
	// permanent (fully visited), temporary (on the current recursion
	// stack), and unvisited.
	permanent := make(map[nodeid.ID]bool, len(g.children))
	temporary := make(map[nodeid.ID]bool)

	var visit func(id nodeid.ID) error
	visit = func(id nodeid.ID) error {
		if permanent[id] {
			return nil
		}
		if temporary[id] {
			return fmt.Errorf("cycle detected involving node %q", id)
		}
		temporary[id] = true
		for child := range g.children[id] {
			if err := visit(child); err != nil {
				return err
			}
		}
		delete(temporary, id)
		permanent[id] = true
		return nil
	}

	for id := range g.children {
		if !permanent[id] {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// Has reports whether the graph contains the given node.
func (g *Graph) Has(id nodeid.ID) bool {
	_, ok := g.parents[id]
	return ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.parents)
}

// Nodes returns the set of all node ids.
func (g *Graph) Nodes() nodeid.Set {
	ids := nodeid.NewSet()
	for id := range g.parents {
		ids.Insert(id)
	}
	return ids
}

// ParentsOf returns a copy of the direct parents of id.
func (g *Graph) ParentsOf(id nodeid.ID) nodeid.Set {
	return g.parents[id].Clone()
}

// ChildrenOf returns a copy of the direct children of id.
func (g *Graph) ChildrenOf(id nodeid.ID) nodeid.Set {
	return g.children[id].Clone()
}
