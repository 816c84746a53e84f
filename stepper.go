package astar

import (
	"fmt"
	"maps"
	"slices"
)

// DisabledWarmup is the number of expansions during which disabled
// neighbors are skipped. From then on disabled nodes are expanded like any
// other node.
const DisabledWarmup = 20

// State is the lifecycle of a single search.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateSucceeded
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateExhausted:
		return "exhausted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Done reports whether the state is terminal.
func (s State) Done() bool { return s == StateSucceeded || s == StateExhausted }

// StepSnapshot exposes the state of a search after one Step.
//
// G, H and F hold the values of the most recently relaxed edge, not a
// per-node best; they are diagnostics only.
type StepSnapshot struct {
	Current   NodeID
	Open      []NodeID
	Closed    map[NodeID]bool
	CameFrom  map[NodeID]NodeID
	Expanded  int
	StepIndex int
	State     State
	G, H, F   float64
	Done      bool
	Found     bool
	Path      []NodeID
}

// Search is the working state of one A* run from start to goal. It is
// created fresh per query and is not safe for concurrent use.
type Search[V comparable] struct {
	graph     *Graph[V]
	heuristic Heuristic[V]
	start     NodeID
	goal      NodeID

	openSet   *PriorityQueue[NodeID]
	closedSet map[NodeID]bool
	gScore    map[NodeID]float64
	path      *Path[V]

	current   NodeID
	g, h, f   float64
	expanded  int
	stepCount int
	state     State
}

// NewSearch prepares a search. It fails with ErrInvalidInput when graph or
// heuristic is nil or when start or goal is not a live node.
func NewSearch[V comparable](graph *Graph[V], heuristic Heuristic[V], start, goal NodeID) (*Search[V], error) {
	if graph == nil || heuristic == nil {
		return nil, fmt.Errorf("missing graph or heuristic: %w", ErrInvalidInput)
	}
	if !graph.Has(start) {
		return nil, fmt.Errorf("start node %d: %w", start, ErrInvalidInput)
	}
	if !graph.Has(goal) {
		return nil, fmt.Errorf("goal node %d: %w", goal, ErrInvalidInput)
	}
	return &Search[V]{
		graph:     graph,
		heuristic: heuristic,
		start:     start,
		goal:      goal,
		openSet:   NewPriorityQueue[NodeID](),
		closedSet: make(map[NodeID]bool),
		gScore:    make(map[NodeID]float64),
		path:      NewPath[V](goal),
		current:   NoNode,
		state:     StateIdle,
	}, nil
}

// State returns the current lifecycle state.
func (s *Search[V]) State() State { return s.state }

// Expanded returns the number of nodes expanded so far.
func (s *Search[V]) Expanded() int { return s.expanded }

// Path returns the parent pointers recorded so far.
func (s *Search[V]) Path() *Path[V] { return s.path }

// Start returns the start node.
func (s *Search[V]) Start() NodeID { return s.start }

// Goal returns the goal node.
func (s *Search[V]) Goal() NodeID { return s.goal }

func (s *Search[V]) begin() {
	s.state = StateRunning
	nodeValue := s.graph.nodes[s.start].value
	goalValue := s.graph.nodes[s.goal].value
	s.h = s.heuristic.Run(nodeValue, goalValue)
	s.f = s.g + s.h
	s.gScore[s.start] = 0
	s.path.Add(s.start, NoNode)
	s.openSet.Insert(s.f, s.start)
}

// Step advances the search by one expansion and returns a snapshot. Once
// the search is in a terminal state, Step keeps returning the final snapshot.
func (s *Search[V]) Step() StepSnapshot {
	s.advance()
	return s.Snapshot()
}

// Run advances the search until it reaches a terminal state and returns the
// final state.
func (s *Search[V]) Run() State {
	for !s.advance() {
	}
	return s.state
}

// advance performs one iteration of the search loop and reports whether the
// search is finished.
func (s *Search[V]) advance() bool {
	if s.state == StateIdle {
		s.begin()
	}
	if s.state.Done() {
		return true
	}

	s.stepCount++
	if s.openSet.Len() == 0 {
		s.state = StateExhausted
		return true
	}

	// The goal is detected on peek, before it is extracted.
	if top, _ := s.openSet.PeekMin(); top == s.goal {
		s.current = top
		s.state = StateSucceeded
		return true
	}

	current, _ := s.openSet.ExtractMin()
	s.current = current
	s.closedSet[current] = true

	goalValue := s.graph.nodes[s.goal].value
	for _, edge := range s.graph.nodes[current].edges {
		neighbor := s.graph.nodes[edge.To]
		if !neighbor.enabled && s.expanded < DisabledWarmup {
			continue
		}
		if s.openSet.Contains(edge.To) || s.closedSet[edge.To] {
			continue
		}

		gNeighbor := s.gScore[current] + edge.Cost
		hNeighbor := s.heuristic.Run(neighbor.value, goalValue)
		fNeighbor := gNeighbor + hNeighbor

		s.openSet.Insert(fNeighbor, edge.To)
		s.gScore[edge.To] = gNeighbor
		if s.path.Contains(edge.To) {
			s.path.SetParent(edge.To, current)
		} else {
			s.path.Add(edge.To, current)
		}
		s.g, s.h, s.f = gNeighbor, hNeighbor, fNeighbor
	}
	s.expanded++
	return false
}

// Snapshot captures the current state. Maps and slices are copies.
func (s *Search[V]) Snapshot() StepSnapshot {
	snap := StepSnapshot{
		Current:   s.current,
		Open:      s.openSet.Items(),
		Closed:    maps.Clone(s.closedSet),
		CameFrom:  maps.Clone(s.path.parents),
		Expanded:  s.expanded,
		StepIndex: s.stepCount,
		State:     s.state,
		G:         s.g,
		H:         s.h,
		F:         s.f,
		Done:      s.state.Done(),
		Found:     s.state == StateSucceeded,
	}
	slices.Sort(snap.Open)
	if snap.Found {
		if route, err := s.path.Reconstruct(); err == nil {
			snap.Path = route
		}
	}
	return snap
}
