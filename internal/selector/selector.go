package selector

import (
	"context"
	"errors"

	"github.com/vk/dagselect/internal/ctxlog"
	"github.com/vk/dagselect/internal/graph"
	"github.com/vk/dagselect/internal/manifest"
	"github.com/vk/dagselect/internal/methods"
	"github.com/vk/dagselect/internal/nodeid"
)

// MatchFunc restricts a selector's final output. It is consulted during
// filtering only; nil means every member matches.
type MatchFunc func(*manifest.Member) bool

// Selector evaluates selection specs against one graph and manifest
// snapshot. It is bound at construction and performs no cross-invocation
// caching; concurrent evaluations over the same snapshot are safe because
// nothing is mutated after construction.
type Selector struct {
	full    *graph.Graph
	graph   *graph.Graph
	mf      *manifest.Manifest
	methods *methods.Registry
	match   MatchFunc
}

// New creates a selector over the full graph and its manifest. The working
// graph is reduced once, here, to the graph members eligible for
// selection: enabled, non-empty nodes and enabled sources and exposures.
func New(full *graph.Graph, mf *manifest.Manifest, match MatchFunc) *Selector {
	s := &Selector{
		full:    full,
		mf:      mf,
		methods: methods.NewRegistry(mf),
		match:   match,
	}

	members := nodeid.NewSet()
	for id := range full.Nodes() {
		if s.isGraphMember(id) {
			members.Insert(id)
		}
	}
	s.graph = full.Subgraph(members)
	return s
}

// NewResourceTypeSelector creates a selector whose output is restricted to
// the given resource kinds.
func NewResourceTypeSelector(full *graph.Graph, mf *manifest.Manifest, kinds ...manifest.ResourceKind) *Selector {
	allowed := make(map[manifest.ResourceKind]bool, len(kinds))
	for _, k := range kinds {
		allowed[k] = true
	}
	return New(full, mf, func(m *manifest.Member) bool {
		return allowed[m.Kind]
	})
}

// isGraphMember decides whether a node of the full graph joins the working
// graph. Ids unknown to the manifest never do.
func (s *Selector) isGraphMember(id nodeid.ID) bool {
	m, ok := s.mf.Member(id)
	if !ok {
		return false
	}
	if !m.Kind.Executable() {
		return m.Enabled
	}
	return m.Enabled && !m.Empty
}

// SelectNodes evaluates the spec and returns the directly selected set
// plus the indirect-only remainder: check nodes that were eligible but
// never proved all their parents selected. The two sets are disjoint.
func (s *Selector) SelectNodes(ctx context.Context, spec Spec) (nodeid.Set, nodeid.Set, error) {
	direct, indirect, err := s.selectRecursively(ctx, spec)
	if err != nil {
		return nil, nil, err
	}
	return direct, indirect.Difference(direct), nil
}

// selectRecursively walks the spec tree. Leaves resolve through their
// selection method; composites evaluate their children, combine the
// per-child sets with the operator, and then fold qualifying indirect
// nodes into the direct result.
func (s *Selector) selectRecursively(ctx context.Context, spec Spec) (nodeid.Set, nodeid.Set, error) {
	var direct, indirect nodeid.Set
	var err error

	switch sp := spec.(type) {
	case *Criteria:
		direct, indirect, err = s.nodesFromCriteria(ctx, sp)
		if err != nil {
			return nil, nil, err
		}

	case *Composite:
		directSets := make([]nodeid.Set, 0, len(sp.Children))
		indirectSets := make([]nodeid.Set, 0, len(sp.Children))
		for _, child := range sp.Children {
			childDirect, childIndirect, err := s.selectRecursively(ctx, child)
			if err != nil {
				return nil, nil, err
			}
			directSets = append(directSets, childDirect)
			// A child's indirect nodes only become available together
			// with its direct nodes, so the indirect combination runs
			// over the union of both.
			indirectSets = append(indirectSets, childDirect.Union(childIndirect))
		}

		initialDirect := sp.combined(directSets)
		indirect = sp.combined(indirectSets)

		direct, err = s.incorporateIndirect(initialDirect, indirect)
		if err != nil {
			return nil, nil, err
		}

	default:
		return nil, nil, errors.New("unsupported selection spec type")
	}

	if spec.ExpectExists() && direct.Len() == 0 {
		ctxlog.FromContext(ctx).Warn("The selection criterion does not match any nodes.", "spec", spec.Raw())
	}
	return direct, indirect, nil
}

// nodesFromCriteria resolves one leaf criterion: run the selection method
// over the working graph, pull in the neighborhood requested by the
// modifiers, and expand to dependent check nodes.
func (s *Selector) nodesFromCriteria(ctx context.Context, c *Criteria) (nodeid.Set, nodeid.Set, error) {
	method, err := s.methods.Method(c.Method, c.MethodArgs)
	if err != nil {
		// A bad method name or bad method arguments invalidates this
		// criterion, not the whole selection.
		ctxlog.FromContext(ctx).Info("Skipping invalid selection criterion.", "spec", c.Raw(), "error", err)
		return nodeid.NewSet(), nodeid.NewSet(), nil
	}

	collected := method.Search(s.graph.Nodes(), c.Value)
	neighbors := s.collectNeighbors(c, collected)
	return s.expandSelection(collected.Union(neighbors), c.Greedy)
}

// collectNeighbors applies the traversal modifiers of a criterion to the
// set its method matched. The result may overlap the matched set.
func (s *Selector) collectNeighbors(c *Criteria, selected nodeid.Set) nodeid.Set {
	additional := nodeid.NewSet()
	if c.ChildrensParents {
		additional = additional.Union(s.graph.SelectChildrensParents(selected))
	}
	if c.Parents {
		additional = additional.Union(s.graph.SelectParents(selected, c.ParentsDepth))
	}
	if c.Children {
		additional = additional.Union(s.graph.SelectChildren(selected, c.ChildrenDepth))
	}
	return additional
}
