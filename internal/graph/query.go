package graph

import "github.com/vk/dagselect/internal/nodeid"

// Subgraph returns the induced subgraph over ids: exactly the given nodes
// (intersected with the graph) and the edges between them.
func (g *Graph) Subgraph(ids nodeid.Set) *Graph {
	sub := New()
	for id := range ids {
		if g.Has(id) {
			sub.AddNode(id)
		}
	}
	for id := range sub.parents {
		for parent := range g.parents[id] {
			if sub.Has(parent) {
				sub.parents[id].Insert(parent)
				sub.children[parent].Insert(id)
			}
		}
	}
	return sub
}

// SelectParents returns all ancestors reachable from ids within depth hops
// (Unbounded for no limit). The ids themselves are excluded unless also
// reachable as ancestors.
func (g *Graph) SelectParents(ids nodeid.Set, depth int) nodeid.Set {
	return g.traverse(ids, depth, func(id nodeid.ID) nodeid.Set { return g.parents[id] })
}

// SelectChildren returns all descendants reachable from ids within depth
// hops (Unbounded for no limit).
func (g *Graph) SelectChildren(ids nodeid.Set, depth int) nodeid.Set {
	return g.traverse(ids, depth, func(id nodeid.ID) nodeid.Set { return g.children[id] })
}

// SelectChildrensParents returns ids together with their descendants and
// every ancestor of those. This backs the "model plus everything needed to
// build its consumers" pattern, where siblings are reached via a shared
// child.
func (g *Graph) SelectChildrensParents(ids nodeid.Set) nodeid.Set {
	within := g.SelectChildren(ids, Unbounded).Union(ids)
	return g.SelectParents(within, Unbounded).Union(within)
}

// SelectSuccessors returns the one-hop forward frontier of ids: the union
// of every id's direct children.
func (g *Graph) SelectSuccessors(ids nodeid.Set) nodeid.Set {
	successors := nodeid.NewSet()
	for id := range ids {
		successors = successors.Union(g.children[id])
	}
	return successors
}

// traverse walks breadth-first from ids along the edges produced by next,
// collecting every node reached within depth hops.
func (g *Graph) traverse(ids nodeid.Set, depth int, next func(nodeid.ID) nodeid.Set) nodeid.Set {
	reached := nodeid.NewSet()
	frontier := ids
	for remaining := depth; remaining != 0 && frontier.Len() > 0; remaining-- {
		step := nodeid.NewSet()
		for id := range frontier {
			step = step.Union(next(id))
		}
		frontier = step.Difference(reached)
		reached = reached.Union(frontier)
	}
	return reached
}

// SubsetGraph reduces the graph to exactly ids while preserving execution
// order: every removed node is bridged by connecting each of its parents to
// each of its children, so transitive dependencies between the remaining
// nodes survive.
func (g *Graph) SubsetGraph(ids nodeid.Set) *Graph {
	sub := New()
	for id := range g.parents {
		sub.AddNode(id)
		sub.parents[id] = g.parents[id].Clone()
	}
	for id := range g.children {
		sub.children[id] = g.children[id].Clone()
	}

	for _, id := range nodeid.Sorted(sub.Nodes()) {
		if ids.Has(id) {
			continue
		}
		for parent := range sub.parents[id] {
			for child := range sub.children[id] {
				if parent != child {
					sub.parents[child].Insert(parent)
					sub.children[parent].Insert(child)
				}
			}
		}
		sub.remove(id)
	}
	return sub
}

// remove deletes a node and all edges touching it.
func (g *Graph) remove(id nodeid.ID) {
	for parent := range g.parents[id] {
		g.children[parent].Delete(id)
	}
	for child := range g.children[id] {
		g.parents[child].Delete(id)
	}
	delete(g.parents, id)
	delete(g.children, id)
}
