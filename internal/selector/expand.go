package selector

import (
	"github.com/vk/dagselect/internal/manifest"
	"github.com/vk/dagselect/internal/nodeid"
)

// canSelectIndirectly reports whether a member qualifies for indirect
// selection when its parents are selected. Today only check (test) nodes
// do; other kinds always need an explicit match.
func canSelectIndirectly(m *manifest.Member) bool {
	return m.Kind == manifest.KindTest
}

// expandSelection widens a selected set to the check nodes hanging off it.
//
// Expansion has two modes. In greedy mode any selected parent pulls the
// check node in directly; exclusion specs use this so a check is dropped as
// soon as one of its subjects is. In non-greedy mode a check node joins
// directly only when every parent is selected, and is otherwise returned
// as indirect so a surrounding composite can still promote it once the
// missing parents show up. Inclusion specs use this to avoid running
// checks whose other subjects were never selected.
func (s *Selector) expandSelection(selected nodeid.Set, greedy bool) (nodeid.Set, nodeid.Set, error) {
	direct := selected.Clone()
	indirect := nodeid.NewSet()

	for id := range s.graph.SelectSuccessors(selected) {
		m, err := s.mf.MustMember(id)
		if err != nil {
			// The working graph is built from the manifest, so a
			// traversed id that does not resolve is a construction bug.
			return nil, nil, err
		}
		if !canSelectIndirectly(m) {
			continue
		}
		if greedy || selected.HasAll(m.DependsOn...) {
			direct.Insert(id)
		} else {
			indirect.Insert(id)
		}
	}
	return direct, indirect, nil
}

// incorporateIndirect promotes every indirect node whose parents are all
// covered by the direct set. A single pass reaches the fixed point: the
// selected set only grows, and an indirect node's parents are never other
// indirect nodes, so processing order does not matter.
func (s *Selector) incorporateIndirect(direct, indirect nodeid.Set) (nodeid.Set, error) {
	selected := direct.Clone()

	for id := range indirect {
		m, err := s.mf.MustMember(id)
		if err != nil {
			return nil, err
		}
		if selected.HasAll(m.DependsOn...) {
			selected.Insert(id)
		}
	}
	return selected, nil
}
