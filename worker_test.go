package astar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveAll_MatchesSequentialSolves(t *testing.T) {
	g, ids := chain(t, 40)
	h := Zero[string]()
	var queries []Query
	for i := 0; i < len(ids); i += 3 {
		queries = append(queries, Query{Start: ids[i], Goal: ids[len(ids)-1-i]})
	}

	outcomes, err := SolveAll(context.Background(), g, h, queries, WithWorkers(4))
	require.NoError(t, err)
	require.Len(t, outcomes, len(queries))

	solver := NewSolver(g, h)
	for i, outcome := range outcomes {
		assert.Equal(t, queries[i], outcome.Query)
		want, err := solver.Route(context.Background(), queries[i].Start, queries[i].Goal)
		require.NoError(t, err)
		require.NoError(t, outcome.Err)
		assert.Equal(t, want, outcome.Result)
	}
}

func TestSolveAll_PerQueryErrors(t *testing.T) {
	g := NewGraph[string]()
	a, b, island := g.AddNode("a"), g.AddNode("b"), g.AddNode("island")
	g.AddUndirectedEdge(a, b, 1)

	outcomes, err := SolveAll(context.Background(), g, Zero[string](), []Query{
		{Start: a, Goal: b},
		{Start: a, Goal: island},
		{Start: a, Goal: NodeID(77)},
	})
	require.NoError(t, err)
	assert.NoError(t, outcomes[0].Err)
	assert.ErrorIs(t, outcomes[1].Err, ErrNoPathFound)
	assert.ErrorIs(t, outcomes[2].Err, ErrInvalidInput)
}

func TestSolveAll_Cancelled(t *testing.T) {
	g, ids := chain(t, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SolveAll(ctx, g, Zero[string](), []Query{{Start: ids[0], Goal: ids[9]}})
	require.ErrorIs(t, err, context.Canceled)
}
