package selector

import (
	"context"

	"github.com/vk/dagselect/internal/ctxlog"
	"github.com/vk/dagselect/internal/nodeid"
	"github.com/vk/dagselect/internal/queue"
)

// summaryNames caps how many excluded check nodes are named at info level;
// the full list is logged at debug.
const summaryNames = 3

// isMatch applies the selector's match predicate to one id.
func (s *Selector) isMatch(id nodeid.ID) (bool, error) {
	m, err := s.mf.MustMember(id)
	if err != nil {
		return false, err
	}
	return s.match == nil || s.match(m), nil
}

// FilterSelection returns the subset of selected ids that pass the match
// predicate. The predicate has no side effects, so filtering is idempotent.
func (s *Selector) FilterSelection(selected nodeid.Set) (nodeid.Set, error) {
	filtered := nodeid.NewSet()
	for id := range selected {
		ok, err := s.isMatch(id)
		if err != nil {
			return nil, err
		}
		if ok {
			filtered.Insert(id)
		}
	}
	return filtered, nil
}

// GetSelected runs the full selection pipeline: evaluate the spec, filter
// the direct result through the match predicate, and report any check
// nodes that stayed excluded because a parent was missing.
func (s *Selector) GetSelected(ctx context.Context, spec Spec) (nodeid.Set, error) {
	direct, indirectOnly, err := s.SelectNodes(ctx, spec)
	if err != nil {
		return nil, err
	}

	filtered, err := s.FilterSelection(direct)
	if err != nil {
		return nil, err
	}

	if indirectOnly.Len() > 0 {
		unused, err := s.FilterSelection(indirectOnly)
		if err != nil {
			return nil, err
		}
		if unused.Len() > 0 {
			s.alertUnusedNodes(ctx, unused)
		}
	}
	return filtered, nil
}

// alertUnusedNodes logs the check nodes excluded because at least one of
// their parents was not selected, with a way for the user to force them in.
func (s *Selector) alertUnusedNodes(ctx context.Context, unused nodeid.Set) {
	names := make([]string, 0, unused.Len())
	for _, id := range nodeid.Sorted(unused) {
		if m, ok := s.mf.Member(id); ok {
			names = append(names, m.Name)
		}
	}

	logger := ctxlog.FromContext(ctx)
	summary := names
	if len(names) > summaryNames+1 {
		summary = names[:summaryNames]
		logger.Info("Some checks were excluded because at least one parent is missing, use the --greedy flag to include them.",
			"checks", summary, "and_more", len(names)-summaryNames)
	} else {
		logger.Info("Some checks were excluded because at least one parent is missing, use the --greedy flag to include them.",
			"checks", summary)
	}
	logger.Debug("Full list of excluded checks.", "checks", names)
}

// GetGraphQueue computes the selection and hands back an execution queue
// over the ancestry-preserving subset graph, ready for a scheduler.
func (s *Selector) GetGraphQueue(ctx context.Context, spec Spec) (*queue.Queue, error) {
	selected, err := s.GetSelected(ctx, spec)
	if err != nil {
		return nil, err
	}
	subset := s.full.SubsetGraph(selected)
	return queue.New(subset, selected), nil
}
