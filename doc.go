// Package astar provides a generic A* shortest-path engine over a mutable
// weighted graph.
//
// The building blocks are:
//
//   - Graph: an arena of nodes with directed or undirected weighted edges,
//     per-node enable flags and a dirty flag drained by the caller.
//   - Heuristic: a strategy interface estimating the remaining cost; Affine
//     scales a raw estimate.
//   - PriorityQueue: a binary min-heap with constant-time membership.
//   - Path: parent pointers recorded during a search and reconstructed into
//     a route.
//   - Search: one steppable run, useful to drive UIs or debugging tools.
//   - Solver: runs searches to completion; SolveAll runs many at once.
//
// Disabled nodes are skipped only during the first DisabledWarmup
// expansions of a search.
package astar
