package astar

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Query is one start/goal pair for SolveAll.
type Query struct {
	Start NodeID
	Goal  NodeID
}

// Outcome is the result of one Query. Err carries per-query failures such
// as ErrNoPathFound.
type Outcome[V comparable] struct {
	Query  Query
	Result Result[V]
	Err    error
}

// SolveAll runs every query on its own search, at most WithWorkers at a time
// (default runtime.NumCPU). Outcomes are returned in query order. Only
// context cancellation fails the batch as a whole. The graph must not be
// mutated until SolveAll returns.
func SolveAll[V comparable](
	ctx context.Context,
	graph *Graph[V],
	heuristic Heuristic[V],
	queries []Query,
	options ...Option,
) ([]Outcome[V], error) {
	solver := NewSolver(graph, heuristic, options...)
	workers := solver.options.NumberOfWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	outcomes := make([]Outcome[V], len(queries))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i, query := range queries {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			result, err := solver.Route(groupCtx, query.Start, query.Goal)
			if err != nil && groupCtx.Err() != nil {
				return groupCtx.Err()
			}
			outcomes[i] = Outcome[V]{Query: query, Result: result, Err: err}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
