package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	astar "github.com/pdrpinto/astargraph"
	"github.com/pdrpinto/astargraph/internal/ctxlog"
	"github.com/pdrpinto/astargraph/internal/grid"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

type gridRequest struct {
	Width    *int     `json:"width" binding:"omitempty,min=2,max=4096"`
	Height   *int     `json:"height" binding:"omitempty,min=1,max=4096"`
	Clusters *int     `json:"clusters" binding:"omitempty,gte=0"`
	Steps    *int     `json:"steps" binding:"omitempty,gte=0"`
	Density  *float64 `json:"density" binding:"omitempty,gte=0,lte=1"`
	Seed     *int64   `json:"seed"`
}

func (r gridRequest) apply(opts *grid.GenerateOptions) {
	set(&opts.Width, r.Width)
	set(&opts.Height, r.Height)
	set(&opts.Clusters, r.Clusters)
	set(&opts.Steps, r.Steps)
	set(&opts.Density, r.Density)
	set(&opts.Seed, r.Seed)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// BoardResponse describes the current board.
type BoardResponse struct {
	Width  int          `json:"w"`
	Height int          `json:"h"`
	Walls  []grid.Point `json:"walls"`
	Start  grid.Point   `json:"start"`
	Goal   grid.Point   `json:"goal"`
}

type solveRequest struct {
	Start *grid.Point `json:"start"`
	Goal  *grid.Point `json:"goal"`
}

// SolveResponse is a completed route.
type SolveResponse struct {
	Found    bool         `json:"found"`
	Path     []grid.Point `json:"path"`
	Cost     float64      `json:"cost"`
	Expanded int          `json:"expanded"`
}

type stepRequest struct {
	Count int `json:"count" binding:"omitempty,min=1,max=100000"`
}

// StepResponse mirrors astar.StepSnapshot in cell coordinates.
type StepResponse struct {
	Step     int          `json:"step"`
	State    string       `json:"state"`
	Expanded int          `json:"expanded"`
	Current  *grid.Point  `json:"current,omitempty"`
	Open     []grid.Point `json:"open,omitempty"`
	Closed   []grid.Point `json:"closed,omitempty"`
	Start    grid.Point   `json:"start"`
	Goal     grid.Point   `json:"goal"`
	G        float64      `json:"g"`
	H        float64      `json:"h"`
	F        float64      `json:"f"`
	Done     bool         `json:"done"`
	Found    bool         `json:"found"`
	Path     []grid.Point `json:"path,omitempty"`
}

type toggleRequest struct {
	Cell *grid.Point `json:"cell" binding:"required"`
	// Wall forces the cell state; when absent the cell is flipped.
	Wall *bool `json:"wall"`
}

// ToggleResponse reports whether the board changed.
type ToggleResponse struct {
	Changed bool `json:"changed"`
	Wall    bool `json:"wall"`
}

// bindOptional binds a JSON body that may be empty.
func bindOptional(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return false
	}
	return true
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, astar.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, astar.ErrNoPathFound):
		status = http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		ctxlog.FromContext(c.Request.Context()).Error("request failed", "error", err)
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleGrid regenerates the board. Omitted fields fall back to the
// configured grid; the seed defaults to the next value of the server's
// generator.
func (s *Server) handleGrid(c *gin.Context) {
	var req gridRequest
	if !bindOptional(c, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.regenerate(req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.boardResponse())
}

func (s *Server) boardResponse() BoardResponse {
	walls := make([]grid.Point, 0, len(s.board.Grid.Walls))
	for p := range s.board.Grid.Walls {
		walls = append(walls, p)
	}
	slices.SortFunc(walls, comparePoints)
	return BoardResponse{
		Width:  s.board.Grid.W,
		Height: s.board.Grid.H,
		Walls:  walls,
		Start:  s.start,
		Goal:   s.goal,
	}
}

func comparePoints(a, b grid.Point) int {
	if a.Y() != b.Y() {
		return a.Y() - b.Y()
	}
	return a.X() - b.X()
}

// handleSolve runs a full search between the given cells, or between the
// board endpoints when they are omitted.
func (s *Server) handleSolve(c *gin.Context) {
	var req solveRequest
	if !bindOptional(c, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	from, to := s.start, s.goal
	set(&from, req.Start)
	set(&to, req.Goal)
	start, err := s.node(from)
	if err != nil {
		respondError(c, err)
		return
	}
	goal, err := s.node(to)
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := s.solver.Route(c.Request.Context(), start, goal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SolveResponse{
		Found:    result.Found,
		Path:     result.Values,
		Cost:     result.TotalCost,
		Expanded: result.ExpandedNodes,
	})
}

// handleStep advances the board's stepped search by count expansions
// (default one), starting a new search if none is in progress.
func (s *Server) handleStep(c *gin.Context) {
	req := stepRequest{Count: 1}
	if !bindOptional(c, &req) {
		return
	}
	if req.Count == 0 {
		req.Count = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.search == nil {
		if err := s.resetSearch(); err != nil {
			respondError(c, err)
			return
		}
	}
	var snap astar.StepSnapshot
	for range req.Count {
		snap = s.search.Step()
		if snap.Done {
			break
		}
	}
	c.JSON(http.StatusOK, s.stepResponse(snap))
}

func (s *Server) stepResponse(snap astar.StepSnapshot) StepResponse {
	resp := StepResponse{
		Step:     snap.StepIndex,
		State:    snap.State.String(),
		Expanded: snap.Expanded,
		Open:     s.points(snap.Open),
		Start:    s.start,
		Goal:     s.goal,
		G:        snap.G,
		H:        snap.H,
		F:        snap.F,
		Done:     snap.Done,
		Found:    snap.Found,
	}
	if snap.Current != astar.NoNode {
		if cur := s.points([]astar.NodeID{snap.Current}); len(cur) == 1 {
			resp.Current = &cur[0]
		}
	}
	closed := make([]astar.NodeID, 0, len(snap.Closed))
	for id, ok := range snap.Closed {
		if ok {
			closed = append(closed, id)
		}
	}
	slices.Sort(closed)
	resp.Closed = s.points(closed)
	if snap.Found {
		resp.Path = s.points(snap.Path)
	}
	return resp
}

// handleToggle makes a cell a wall or opens it. Any change to the graph
// discards the stepped search; the next step starts over on the new board.
func (s *Server) handleToggle(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cell := *req.Cell
	if !s.board.Grid.In(cell) {
		respondError(c, errors.Join(errors.New("cell outside the board"), astar.ErrInvalidInput))
		return
	}
	if cell == s.start || cell == s.goal {
		respondError(c, errors.Join(errors.New("cannot wall an endpoint"), astar.ErrInvalidInput))
		return
	}
	wall := !s.board.Grid.Walls[cell]
	set(&wall, req.Wall)

	changed := s.board.SetWall(cell, wall)
	if s.board.Graph().DrainDirty() {
		s.search = nil
		ctxlog.FromContext(c.Request.Context()).Debug("graph changed, stepper reset", "cell", cell, "wall", wall)
	}
	c.JSON(http.StatusOK, ToggleResponse{Changed: changed, Wall: s.board.Grid.Walls[cell]})
}
