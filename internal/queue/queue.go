package queue

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vk/dagselect/internal/graph"
	"github.com/vk/dagselect/internal/nodeid"
)

// ErrDrained is returned by Get once every queued node has completed.
var ErrDrained = errors.New("queue drained")

// Queue yields the nodes of a subset graph in dependency order. A node
// becomes ready when all of its parents in the subset graph are done.
type Queue struct {
	mu sync.Mutex
	// graph is the ancestry-preserving subset graph over the selected set.
	graph *graph.Graph
	// selected is the id set the queue was built from.
	selected nodeid.Set
	// blocked maps a not-yet-ready node to its unmet parent count.
	blocked map[nodeid.ID]int
	// ready holds nodes whose parents are all done, sorted for
	// deterministic pop order among equally-ready nodes.
	ready []nodeid.ID
	// inFlight tracks nodes handed out but not yet marked done.
	inFlight nodeid.Set
	// remaining counts nodes not yet done.
	remaining int
	// wake is closed and replaced whenever queue state changes.
	wake chan struct{}
}

// New builds a queue over the subset graph produced for the selected set.
// The graph must contain exactly the selected nodes.
func New(g *graph.Graph, selected nodeid.Set) *Queue {
	q := &Queue{
		graph:     g,
		selected:  selected,
		blocked:   make(map[nodeid.ID]int),
		inFlight:  nodeid.NewSet(),
		remaining: g.Len(),
		wake:      make(chan struct{}),
	}
	for id := range g.Nodes() {
		if deg := g.ParentsOf(id).Len(); deg > 0 {
			q.blocked[id] = deg
		} else {
			q.ready = append(q.ready, id)
		}
	}
	sort.Slice(q.ready, func(i, j int) bool { return q.ready[i] < q.ready[j] })
	return q
}

// Selected returns the id set the queue was built from.
func (q *Queue) Selected() nodeid.Set {
	return q.selected.Clone()
}

// Count returns the total number of nodes in the queue.
func (q *Queue) Count() int {
	return q.graph.Len()
}

// Empty reports whether every node has been marked done.
func (q *Queue) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.remaining == 0
}

// Get blocks until a node is ready and returns it, or fails with
// ErrDrained once all nodes are done, or with the context error on
// cancellation.
func (q *Queue) Get(ctx context.Context) (nodeid.ID, error) {
	for {
		q.mu.Lock()
		if len(q.ready) > 0 {
			id := q.ready[0]
			q.ready = q.ready[1:]
			q.inFlight.Insert(id)
			q.mu.Unlock()
			return id, nil
		}
		if q.remaining == 0 {
			q.mu.Unlock()
			return "", ErrDrained
		}
		wake := q.wake
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-wake:
		}
	}
}

// Done marks a node returned by Get as completed and unblocks any children
// whose parents are now all done.
func (q *Queue) Done(id nodeid.ID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.inFlight.Has(id) {
		return fmt.Errorf("node %q is not in flight", id)
	}
	q.inFlight.Delete(id)
	q.remaining--

	newlyReady := false
	for child := range q.graph.ChildrenOf(id) {
		q.blocked[child]--
		if q.blocked[child] == 0 {
			delete(q.blocked, child)
			q.ready = append(q.ready, child)
			newlyReady = true
		}
	}
	if newlyReady {
		sort.Slice(q.ready, func(i, j int) bool { return q.ready[i] < q.ready[j] })
	}

	// Wake all waiters: either new nodes are ready or the queue drained.
	close(q.wake)
	q.wake = make(chan struct{})
	return nil
}
