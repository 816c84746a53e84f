package astar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/pdrpinto/astargraph"

// Stats summarizes one finished search.
type Stats struct {
	Expanded int
	State    State
	Duration time.Duration
}

// Found reports whether the search reached its goal.
func (s Stats) Found() bool { return s.State == StateSucceeded }

// Observer receives the stats of every search a Solver finishes.
type Observer interface {
	ObserveSearch(stats Stats)
}

// Result contains the outcome of a search
type Result[V comparable] struct {
	Path          []NodeID
	Values        []V
	TotalCost     float64
	ExpandedNodes int
	Found         bool
}

// Options defines parameters for the search.
type Options struct {
	Logger          *slog.Logger
	Observer        Observer
	Tracer          trace.Tracer
	NumberOfWorkers int
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithLogger sets the logger used for per-search debug logs.
func WithLogger(logger *slog.Logger) Option {
	return func(options *Options) { options.Logger = logger }
}

// WithObserver registers an observer for search stats.
func WithObserver(observer Observer) Option {
	return func(options *Options) { options.Observer = observer }
}

// WithTracer overrides the tracer; the global otel provider is used otherwise.
func WithTracer(tracer trace.Tracer) Option {
	return func(options *Options) { options.Tracer = tracer }
}

// WithWorkers specifies how many queries SolveAll runs at once.
func WithWorkers(numberOfWorkers int) Option {
	return func(options *Options) { options.NumberOfWorkers = numberOfWorkers }
}

func applyOptions(options []Option) Options {
	searchOptions := Options{}
	for _, option := range options {
		option(&searchOptions)
	}
	if searchOptions.Logger == nil {
		searchOptions.Logger = slog.New(slog.DiscardHandler)
	}
	if searchOptions.Tracer == nil {
		searchOptions.Tracer = otel.Tracer(instrumentationName)
	}
	return searchOptions
}

// Solver runs A* searches over one graph with one heuristic. Every call to
// Solve builds its own Search, so the solver keeps no per-call state; the
// graph must not be mutated while a search is in progress.
type Solver[V comparable] struct {
	graph     *Graph[V]
	heuristic Heuristic[V]
	options   Options
}

// NewSolver returns a solver over graph guided by heuristic.
func NewSolver[V comparable](graph *Graph[V], heuristic Heuristic[V], options ...Option) *Solver[V] {
	return &Solver[V]{graph: graph, heuristic: heuristic, options: applyOptions(options)}
}

// Heuristic returns the heuristic used by subsequent searches.
func (s *Solver[V]) Heuristic() Heuristic[V] { return s.heuristic }

// SetHeuristic replaces the heuristic used by subsequent searches.
func (s *Solver[V]) SetHeuristic(heuristic Heuristic[V]) { s.heuristic = heuristic }

// Graph returns the graph the solver searches.
func (s *Solver[V]) Graph() *Graph[V] { return s.graph }

// Solve searches for a least-cost route from start to goal and returns the
// recorded parent pointers. It fails with ErrInvalidInput for absent nodes
// and ErrNoPathFound when the goal is unreachable. The context is checked
// between expansions.
func (s *Solver[V]) Solve(ctx context.Context, start, goal NodeID) (*Path[V], error) {
	search, err := s.run(ctx, start, goal)
	if err != nil {
		return nil, err
	}
	return search.Path(), nil
}

// Route solves start→goal and resolves the route into values and total
// cost.
func (s *Solver[V]) Route(ctx context.Context, start, goal NodeID) (Result[V], error) {
	search, err := s.run(ctx, start, goal)
	if err != nil {
		return Result[V]{}, err
	}
	result, err := resultFromPath(s.graph, search.Path())
	if err != nil {
		return Result[V]{}, err
	}
	result.ExpandedNodes = search.Expanded()
	return result, nil
}

func (s *Solver[V]) run(ctx context.Context, start, goal NodeID) (*Search[V], error) {
	search, err := NewSearch(s.graph, s.heuristic, start, goal)
	if err != nil {
		return nil, err
	}

	ctx, span := s.options.Tracer.Start(ctx, "astar.Solve", trace.WithAttributes(
		attribute.Int("astar.start", int(start)),
		attribute.Int("astar.goal", int(goal)),
	))
	defer span.End()

	began := time.Now()
	for !search.advance() {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}
	stats := Stats{Expanded: search.Expanded(), State: search.State(), Duration: time.Since(began)}

	span.SetAttributes(
		attribute.Int("astar.expanded", stats.Expanded),
		attribute.Bool("astar.found", stats.Found()),
	)
	if s.options.Observer != nil {
		s.options.Observer.ObserveSearch(stats)
	}
	s.options.Logger.DebugContext(ctx, "search finished",
		"start", start,
		"goal", goal,
		"state", stats.State.String(),
		"expanded", stats.Expanded,
		"duration", stats.Duration,
	)

	if !stats.Found() {
		span.SetStatus(codes.Error, ErrNoPathFound.Error())
		return nil, fmt.Errorf("from %d to %d after %d expansions: %w", start, goal, stats.Expanded, ErrNoPathFound)
	}
	return search, nil
}

func resultFromPath[V comparable](graph *Graph[V], path *Path[V]) (Result[V], error) {
	route, err := path.Reconstruct()
	if err != nil {
		return Result[V]{}, err
	}
	values, err := path.ReconstructValues(graph)
	if err != nil {
		return Result[V]{}, err
	}
	total, err := path.Cost(graph)
	if err != nil {
		return Result[V]{}, err
	}
	return Result[V]{
		Path:          route,
		Values:        values,
		TotalCost:     total,
		Found:         true,
	}, nil
}
