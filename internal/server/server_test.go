package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/astargraph/internal/config"
	"github.com/pdrpinto/astargraph/internal/grid"
)

// newTestServer returns a server on a 5x5 board with a wall column at x=2
// covering rows 0..3, routing from the top-left to the top-right corner.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	cfg.Grid.Width, cfg.Grid.Height = 5, 5
	s, err := New(cfg, nil)
	require.NoError(t, err)

	walls := map[grid.Point]bool{}
	for y := 0; y < 4; y++ {
		walls[grid.Point{2, y}] = true
	}
	s.load(grid.Grid{W: 5, H: 5, Walls: walls}, grid.Point{0, 0}, grid.Point{4, 0})
	return s
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestSolve_BoardEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/v1/solve", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[SolveResponse](t, w)
	assert.True(t, resp.Found)
	assert.Equal(t, 12.0, resp.Cost)
	require.Len(t, resp.Path, 13)
	assert.Equal(t, grid.Point{0, 0}, resp.Path[0])
	assert.Equal(t, grid.Point{4, 0}, resp.Path[12])
	assert.Positive(t, resp.Expanded)
}

func TestSolve_CustomEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/v1/solve", `{"goal":[0,4]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[SolveResponse](t, w)
	assert.Equal(t, 4.0, resp.Cost)
	assert.Equal(t, []grid.Point{{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}}, resp.Path)
}

func TestSolve_InvalidCells(t *testing.T) {
	s := newTestServer(t)

	for _, body := range []string{`{"goal":[2,0]}`, `{"start":[9,9]}`} {
		w := do(t, s, http.MethodPost, "/v1/solve", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.NotEmpty(t, decode[ErrorResponse](t, w).Error)
	}

	w := do(t, s, http.MethodPost, "/v1/solve", `{"goal":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSolve_NoPath(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/v1/toggle", `{"cell":[2,4]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, ToggleResponse{Changed: true, Wall: true}, decode[ToggleResponse](t, w))

	w = do(t, s, http.MethodPost, "/v1/solve", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decode[ErrorResponse](t, w).Error, "no path")
}

func TestStep_RunsToCompletion(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/v1/step", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := decode[StepResponse](t, w)
	assert.Equal(t, 1, first.Step)
	assert.Equal(t, "running", first.State)
	assert.Equal(t, 1, first.Expanded)
	require.NotNil(t, first.Current)
	assert.Equal(t, grid.Point{0, 0}, *first.Current)
	assert.ElementsMatch(t, []grid.Point{{1, 0}, {0, 1}}, first.Open)
	assert.Equal(t, []grid.Point{{0, 0}}, first.Closed)
	assert.False(t, first.Done)

	w = do(t, s, http.MethodPost, "/v1/step", `{"count":1000}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	last := decode[StepResponse](t, w)
	assert.True(t, last.Done)
	assert.True(t, last.Found)
	assert.Equal(t, "succeeded", last.State)

	solved := decode[SolveResponse](t, do(t, s, http.MethodPost, "/v1/solve", ""))
	if diff := cmp.Diff(solved.Path, last.Path); diff != "" {
		t.Errorf("stepped path differs from solved path (-solve +step):\n%s", diff)
	}

	w = do(t, s, http.MethodPost, "/v1/step", "")
	again := decode[StepResponse](t, w)
	assert.Equal(t, last.Expanded, again.Expanded)
	assert.True(t, again.Done)
}

func TestStep_InvalidCount(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodPost, "/v1/step", `{"count":-3}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggle_ResetsStepperOnChange(t *testing.T) {
	s := newTestServer(t)

	do(t, s, http.MethodPost, "/v1/step", "")
	second := decode[StepResponse](t, do(t, s, http.MethodPost, "/v1/step", ""))
	assert.Equal(t, 2, second.Step)

	w := do(t, s, http.MethodPost, "/v1/toggle", `{"cell":[3,3],"wall":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[ToggleResponse](t, w).Changed)
	restarted := decode[StepResponse](t, do(t, s, http.MethodPost, "/v1/step", ""))
	assert.Equal(t, 1, restarted.Step)

	w = do(t, s, http.MethodPost, "/v1/toggle", `{"cell":[3,3],"wall":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ToggleResponse{Changed: false, Wall: true}, decode[ToggleResponse](t, w))
	kept := decode[StepResponse](t, do(t, s, http.MethodPost, "/v1/step", ""))
	assert.Equal(t, 2, kept.Step)

	w = do(t, s, http.MethodPost, "/v1/toggle", `{"cell":[2,0]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ToggleResponse{Changed: true, Wall: false}, decode[ToggleResponse](t, w))
	resp := decode[SolveResponse](t, do(t, s, http.MethodPost, "/v1/solve", ""))
	assert.Equal(t, 4.0, resp.Cost)
}

func TestToggle_Rejects(t *testing.T) {
	s := newTestServer(t)

	for _, body := range []string{`{"cell":[0,0]}`, `{"cell":[4,0]}`, `{"cell":[7,1]}`, `{}`} {
		w := do(t, s, http.MethodPost, "/v1/toggle", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestGrid_Regenerate(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/v1/grid", `{"width":10,"height":6,"seed":3}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	board := decode[BoardResponse](t, w)
	assert.Equal(t, 10, board.Width)
	assert.Equal(t, 6, board.Height)
	assert.NotEqual(t, board.Start, board.Goal)
	assert.NotContains(t, board.Walls, board.Start)
	assert.NotContains(t, board.Walls, board.Goal)

	again := decode[BoardResponse](t, do(t, s, http.MethodPost, "/v1/grid", `{"width":10,"height":6,"seed":3}`))
	assert.Equal(t, board, again)

	defaults := decode[BoardResponse](t, do(t, s, http.MethodPost, "/v1/grid", ""))
	assert.Equal(t, 5, defaults.Width)
	assert.Equal(t, 5, defaults.Height)

	w = do(t, s, http.MethodPost, "/v1/grid", `{"width":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, s, http.MethodPost, "/v1/grid", `{"density":2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsExposeSearches(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/v1/solve", "")

	w := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `astar_searches_total{outcome="found"} 1`), body)
	assert.Contains(t, body, "astar_expanded_nodes_bucket")
}
