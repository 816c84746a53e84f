// Package server exposes a grid-hosted search engine over HTTP: regenerate
// the board, solve routes, step a search one expansion at a time and toggle
// walls between steps.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	astar "github.com/pdrpinto/astargraph"
	"github.com/pdrpinto/astargraph/internal/config"
	"github.com/pdrpinto/astargraph/internal/ctxlog"
	"github.com/pdrpinto/astargraph/internal/grid"
	"github.com/pdrpinto/astargraph/internal/metrics"
)

// Server owns one board and at most one in-progress stepped search. All
// handlers serialize on mu since neither the graph nor Search are safe for
// concurrent use.
type Server struct {
	cfg      config.Config
	logger   *slog.Logger
	tracer   trace.Tracer
	registry *prometheus.Registry
	metrics  *metrics.Collector
	engine   *gin.Engine

	mu        sync.Mutex
	rng       *rand.Rand
	heuristic astar.Heuristic[grid.Point]
	board     *grid.Board
	start     grid.Point
	goal      grid.Point
	solver    *astar.Solver[grid.Point]
	search    *astar.Search[grid.Point]
}

// Option customizes a Server.
type Option func(*Server)

// WithTracer sets the tracer handed to the solver.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Server) { s.tracer = tracer }
}

// New builds a server and generates its first board from cfg.Grid.
func New(cfg config.Config, logger *slog.Logger, opts ...Option) (*Server, error) {
	h, err := grid.NewHeuristic(cfg.Heuristic.Kind, cfg.Heuristic.Scale, cfg.Heuristic.Alpha, cfg.Heuristic.Mod)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	registry := prometheus.NewRegistry()
	collector, err := metrics.New(registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	s := &Server{
		cfg:       cfg,
		logger:    logger,
		registry:  registry,
		metrics:   collector,
		rng:       rand.New(rand.NewSource(cfg.Grid.Seed)),
		heuristic: h,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.regenerate(gridRequest{}); err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())
	s.registerRoutes(engine)
	s.engine = engine
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on cfg.Server.Addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	v1 := r.Group("/v1")
	v1.POST("/grid", s.handleGrid)
	v1.POST("/solve", s.handleSolve)
	v1.POST("/step", s.handleStep)
	v1.POST("/toggle", s.handleToggle)
}

// requestLogger tags every request with an id and puts a request-scoped
// logger on the request context.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)
		logger := s.logger.With("request_id", requestID)
		c.Request = c.Request.WithContext(ctxlog.WithLogger(c.Request.Context(), logger))

		began := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(began),
		)
	}
}

// load installs g as the current board and resets the stepper. Callers hold
// mu.
func (s *Server) load(g grid.Grid, start, goal grid.Point) {
	s.board = grid.Build(g, grid.BuildOptions{Diagonal: s.cfg.Grid.Diagonal, SoftWalls: s.cfg.Grid.SoftWalls})
	s.start, s.goal = start, goal
	s.solver = astar.NewSolver(s.board.Graph(), s.heuristic,
		astar.WithLogger(s.logger),
		astar.WithObserver(s.metrics),
		astar.WithTracer(s.tracer),
	)
	s.search = nil
}

func (s *Server) regenerate(req gridRequest) error {
	opts := grid.GenerateOptions{
		Width:    s.cfg.Grid.Width,
		Height:   s.cfg.Grid.Height,
		Clusters: s.cfg.Grid.Clusters,
		Steps:    s.cfg.Grid.Steps,
		Density:  s.cfg.Grid.Density,
		Seed:     s.rng.Int63(),
	}
	req.apply(&opts)

	r := rand.New(rand.NewSource(opts.Seed))
	empty := grid.Grid{W: opts.Width, H: opts.Height}
	start, goal, ok := grid.RandomEndpoints(empty, r)
	if !ok {
		return fmt.Errorf("grid %dx%d has no room for two endpoints: %w", opts.Width, opts.Height, astar.ErrInvalidInput)
	}
	s.load(grid.Generate(opts, start, goal), start, goal)
	return nil
}

// node resolves a cell of the current board.
func (s *Server) node(p grid.Point) (astar.NodeID, error) {
	id, ok := s.board.ID(p)
	if !ok {
		return astar.NoNode, fmt.Errorf("cell %v is a wall or outside the board: %w", p, astar.ErrInvalidInput)
	}
	return id, nil
}

func (s *Server) resetSearch() error {
	start, err := s.node(s.start)
	if err != nil {
		return err
	}
	goal, err := s.node(s.goal)
	if err != nil {
		return err
	}
	search, err := astar.NewSearch(s.board.Graph(), s.heuristic, start, goal)
	if err != nil {
		return err
	}
	s.search = search
	return nil
}

func (s *Server) points(ids []astar.NodeID) []grid.Point {
	values, err := s.board.Graph().Values(ids)
	if err != nil {
		// Searches are reset on every mutation, so ids stay valid.
		s.logger.Error("stale node ids in snapshot", "error", err)
		return nil
	}
	return values
}
