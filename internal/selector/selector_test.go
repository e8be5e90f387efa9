package selector

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/dagselect/internal/ctxlog"
	"github.com/vk/dagselect/internal/graph"
	"github.com/vk/dagselect/internal/manifest"
	"github.com/vk/dagselect/internal/nodeid"
)

// testFixture is the canonical two-model fixture: model_a -> model_b, with
// check t1 validating both.
func testFixture(t *testing.T, extra ...*manifest.Member) (*graph.Graph, *manifest.Manifest) {
	t.Helper()
	members := []*manifest.Member{
		{
			ID: "model.p.model_a", Kind: manifest.KindModel, Name: "model_a",
			Package: "p", FQN: []string{"p", "model_a"}, Enabled: true,
		},
		{
			ID: "model.p.model_b", Kind: manifest.KindModel, Name: "model_b",
			Package: "p", FQN: []string{"p", "model_b"}, Enabled: true,
			DependsOn: []nodeid.ID{"model.p.model_a"},
		},
		{
			ID: "test.p.t1", Kind: manifest.KindTest, Name: "t1",
			Package: "p", FQN: []string{"p", "t1"}, Enabled: true,
			DependsOn: []nodeid.ID{"model.p.model_a", "model.p.model_b"},
		},
	}
	members = append(members, extra...)

	mf, err := manifest.New(members)
	require.NoError(t, err)
	g, err := graph.FromManifest(mf)
	require.NoError(t, err)
	return g, mf
}

// logContext returns a context whose logger writes debug-level text into
// the returned buffer.
func logContext() (context.Context, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger), &buf
}

func criteria(value string) *Criteria {
	return NewCriteria("fqn", value)
}

func TestSelectNodesSingleCriterion(t *testing.T) {
	g, mf := testFixture(t)
	s := New(g, mf, nil)
	ctx := context.Background()

	t.Run("non-greedy leaves the check indirect-only", func(t *testing.T) {
		direct, indirectOnly, err := s.SelectNodes(ctx, criteria("model_a"))
		require.NoError(t, err)

		assert.Equal(t, nodeid.NewSet("model.p.model_a"), direct)
		assert.Equal(t, nodeid.NewSet("test.p.t1"), indirectOnly)
	})

	t.Run("greedy promotes the check despite the missing parent", func(t *testing.T) {
		spec := criteria("model_a")
		spec.Greedy = true

		direct, indirectOnly, err := s.SelectNodes(ctx, spec)
		require.NoError(t, err)

		assert.Equal(t, nodeid.NewSet("model.p.model_a", "test.p.t1"), direct)
		assert.Empty(t, indirectOnly)
	})

	t.Run("matching all parents promotes the check", func(t *testing.T) {
		direct, indirectOnly, err := s.SelectNodes(ctx, criteria("model_*"))
		require.NoError(t, err)

		assert.Equal(t, nodeid.NewSet("model.p.model_a", "model.p.model_b", "test.p.t1"), direct)
		assert.Empty(t, indirectOnly)
	})
}

func TestSelectNodesUnionPromotesAcrossChildren(t *testing.T) {
	g, mf := testFixture(t)
	s := New(g, mf, nil)

	// Each leaf alone covers only one parent of t1; the union covers both,
	// so the composite closure promotes the check.
	spec := NewComposite(Union, criteria("model_a"), criteria("model_b"))
	direct, indirectOnly, err := s.SelectNodes(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, nodeid.NewSet("model.p.model_a", "model.p.model_b", "test.p.t1"), direct)
	assert.Empty(t, indirectOnly)
}

func TestSelectNodesIntersection(t *testing.T) {
	g, mf := testFixture(t)
	s := New(g, mf, nil)

	spec := NewComposite(Intersection, criteria("model_*"), criteria("model_b"))
	direct, _, err := s.SelectNodes(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, nodeid.NewSet("model.p.model_b"), direct)
}

func TestSelectNodesDifference(t *testing.T) {
	g, mf := testFixture(t)
	s := New(g, mf, nil)
	ctx := context.Background()

	include := NewComposite(Union, criteria("model_a"), criteria("model_b"))
	exclude := criteria("model_b")
	exclude.Greedy = true

	direct, indirectOnly, err := s.SelectNodes(ctx, NewComposite(Difference, include, exclude))
	require.NoError(t, err)

	// The greedy exclusion drags t1 out with model_b: no check node stays
	// selected with an unselected parent.
	assert.Equal(t, nodeid.NewSet("model.p.model_a"), direct)
	for id := range direct {
		m, ok := mf.Member(id)
		require.True(t, ok)
		if m.Kind == manifest.KindTest {
			assert.True(t, direct.HasAll(m.DependsOn...), "check %s kept without its parents", id)
		}
	}
	assert.Empty(t, indirectOnly.Intersection(direct))
}

func TestSelectNodesTraversalModifiers(t *testing.T) {
	g, mf := testFixture(t)
	s := New(g, mf, nil)
	ctx := context.Background()

	t.Run("children", func(t *testing.T) {
		spec := criteria("model_a")
		spec.Children = true

		direct, _, err := s.SelectNodes(ctx, spec)
		require.NoError(t, err)
		assert.Equal(t, nodeid.NewSet("model.p.model_a", "model.p.model_b", "test.p.t1"), direct)
	})

	t.Run("parents with depth bound", func(t *testing.T) {
		spec := criteria("t1")
		spec.Parents = true
		spec.ParentsDepth = 1

		direct, _, err := s.SelectNodes(ctx, spec)
		require.NoError(t, err)
		assert.Equal(t, nodeid.NewSet("model.p.model_a", "model.p.model_b", "test.p.t1"), direct)
	})

	t.Run("childrens parents", func(t *testing.T) {
		spec := criteria("model_b")
		spec.ChildrensParents = true

		direct, _, err := s.SelectNodes(ctx, spec)
		require.NoError(t, err)
		// @model_b reaches its check and, through it, model_a.
		assert.Equal(t, nodeid.NewSet("model.p.model_a", "model.p.model_b", "test.p.t1"), direct)
	})
}

func TestSelectNodesExpectExists(t *testing.T) {
	g, mf := testFixture(t)
	s := New(g, mf, nil)
	ctx, buf := logContext()

	spec := criteria("does_not_exist")
	spec.ExpectExistsFlag = true

	direct, indirectOnly, err := s.SelectNodes(ctx, spec)
	require.NoError(t, err)
	assert.Empty(t, direct)
	assert.Empty(t, indirectOnly)
	assert.Contains(t, buf.String(), "does not match any nodes")
	assert.Contains(t, buf.String(), "fqn:does_not_exist")
}

func TestSelectNodesUnknownMethod(t *testing.T) {
	g, mf := testFixture(t)
	s := New(g, mf, nil)
	ctx, buf := logContext()

	spec := NewCriteria("state", "modified")
	direct, indirectOnly, err := s.SelectNodes(ctx, spec)
	require.NoError(t, err)
	assert.Empty(t, direct)
	assert.Empty(t, indirectOnly)
	assert.Contains(t, buf.String(), "Skipping invalid selection criterion")
	assert.Contains(t, buf.String(), "unknown selection method")
}

func TestWorkingGraphFiltersMembers(t *testing.T) {
	g, mf := testFixture(t,
		&manifest.Member{
			ID: "model.p.disabled", Kind: manifest.KindModel, Name: "disabled",
			Package: "p", FQN: []string{"p", "disabled"}, Enabled: false,
		},
		&manifest.Member{
			ID: "model.p.hollow", Kind: manifest.KindModel, Name: "hollow",
			Package: "p", FQN: []string{"p", "hollow"}, Enabled: true, Empty: true,
		},
		&manifest.Member{
			ID: "source.p.raw.off", Kind: manifest.KindSource, Name: "off",
			Package: "p", FQN: []string{"p", "raw", "off"}, Enabled: false,
		},
	)
	s := New(g, mf, nil)

	direct, _, err := s.SelectNodes(context.Background(), criteria("*"))
	require.NoError(t, err)

	assert.False(t, direct.Has("model.p.disabled"))
	assert.False(t, direct.Has("model.p.hollow"))
	assert.False(t, direct.Has("source.p.raw.off"))
	assert.True(t, direct.Has("model.p.model_a"))
}

func TestResourceTypeSelector(t *testing.T) {
	g, mf := testFixture(t,
		&manifest.Member{
			ID: "source.p.raw.events", Kind: manifest.KindSource, Name: "events",
			Package: "p", FQN: []string{"p", "raw", "events"}, Enabled: true,
		},
	)
	s := NewResourceTypeSelector(g, mf, manifest.KindSource)

	selected, err := s.GetSelected(context.Background(), criteria("*"))
	require.NoError(t, err)

	assert.Equal(t, nodeid.NewSet("source.p.raw.events"), selected)
}

func TestGetSelectedReportsExcludedChecks(t *testing.T) {
	g, mf := testFixture(t)
	s := New(g, mf, nil)
	ctx, buf := logContext()

	selected, err := s.GetSelected(ctx, criteria("model_a"))
	require.NoError(t, err)

	assert.Equal(t, nodeid.NewSet("model.p.model_a"), selected)
	assert.Contains(t, buf.String(), "at least one parent is missing")
	assert.Contains(t, buf.String(), "--greedy")
	assert.Contains(t, buf.String(), "t1")
}

func TestGetGraphQueue(t *testing.T) {
	g, mf := testFixture(t)
	s := New(g, mf, nil)
	ctx := context.Background()

	q, err := s.GetGraphQueue(ctx, criteria("model_*"))
	require.NoError(t, err)

	assert.Equal(t, 3, q.Count())
	assert.Equal(t, nodeid.NewSet("model.p.model_a", "model.p.model_b", "test.p.t1"), q.Selected())

	// Dependency order: model_a first, then model_b, then the check.
	first, err := q.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, nodeid.ID("model.p.model_a"), first)
	require.NoError(t, q.Done(first))

	second, err := q.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, nodeid.ID("model.p.model_b"), second)
	require.NoError(t, q.Done(second))

	third, err := q.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, nodeid.ID("test.p.t1"), third)
	require.NoError(t, q.Done(third))
	assert.True(t, q.Empty())
}
