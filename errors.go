package astar

import "errors"

// Sentinel errors returned by the queue, the path recorder and the solver.
// Callers match them with errors.Is; call sites wrap them with context.
var (
	// ErrEmptyQueue is returned by PeekMin, MinKey and ExtractMin on a queue
	// with no elements.
	ErrEmptyQueue = errors.New("priority queue is empty")

	// ErrInvalidInput is returned when the start or goal node is absent from
	// the graph, or when a search is built without a graph or heuristic.
	ErrInvalidInput = errors.New("invalid search input")

	// ErrNoPathFound is returned when the open set empties before the goal is
	// reached, or when a path is reconstructed for a goal that was never
	// discovered.
	ErrNoPathFound = errors.New("no path found")

	// ErrMalformedPath is returned when reconstruction meets a cyclic or
	// dangling parent chain.
	ErrMalformedPath = errors.New("malformed path")
)
