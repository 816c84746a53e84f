package main

import (
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	astar "github.com/pdrpinto/astargraph"
	"github.com/pdrpinto/astargraph/internal/ctxlog"
	"github.com/pdrpinto/astargraph/internal/grid"
)

func newSolveCmd(a *app) *cobra.Command {
	var from, to string
	var render bool
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Generate a grid and route between two cells",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.solve(cmd, from, to, render)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", `start cell "x,y" (random when empty)`)
	cmd.Flags().StringVar(&to, "to", "", `goal cell "x,y" (random when empty)`)
	cmd.Flags().BoolVar(&render, "render", false, "draw the grid with the route")
	return cmd
}

func (a *app) solve(cmd *cobra.Command, from, to string, render bool) error {
	start, goal, err := a.endpoints(from, to)
	if err != nil {
		return err
	}
	g := grid.Generate(a.generateOptions(), start, goal)
	board := grid.Build(g, grid.BuildOptions{Diagonal: a.cfg.Grid.Diagonal, SoftWalls: a.cfg.Grid.SoftWalls})

	h, err := a.heuristic()
	if err != nil {
		return err
	}
	startID, ok := board.ID(start)
	if !ok {
		return fmt.Errorf("start %v is outside the grid: %w", start, astar.ErrInvalidInput)
	}
	goalID, ok := board.ID(goal)
	if !ok {
		return fmt.Errorf("goal %v is outside the grid: %w", goal, astar.ErrInvalidInput)
	}

	solver := astar.NewSolver(board.Graph(), h, astar.WithLogger(a.logger))
	result, err := solver.Route(cmd.Context(), startID, goalID)
	if err != nil {
		return err
	}
	ctxlog.FromContext(cmd.Context()).Info("route found",
		"start", start, "goal", goal, "cost", result.TotalCost, "expanded", result.ExpandedNodes)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "cost=%g expanded=%d length=%d\n", result.TotalCost, result.ExpandedNodes, len(result.Values))
	fmt.Fprintln(out, formatRoute(result.Values))
	if render {
		renderBoard(out, board.Grid, start, goal, result.Values)
	}
	return nil
}

// endpoints parses the --from/--to cells. Missing cells are drawn from the
// configured seed.
func (a *app) endpoints(from, to string) (start, goal grid.Point, err error) {
	r := rand.New(rand.NewSource(a.cfg.Grid.Seed))
	empty := grid.Grid{W: a.cfg.Grid.Width, H: a.cfg.Grid.Height}
	start, goal, _ = grid.RandomEndpoints(empty, r)
	if from != "" {
		if start, err = parsePoint(from); err != nil {
			return
		}
	}
	if to != "" {
		if goal, err = parsePoint(to); err != nil {
			return
		}
	}
	return start, goal, nil
}

func (a *app) generateOptions() grid.GenerateOptions {
	return grid.GenerateOptions{
		Width:    a.cfg.Grid.Width,
		Height:   a.cfg.Grid.Height,
		Clusters: a.cfg.Grid.Clusters,
		Steps:    a.cfg.Grid.Steps,
		Density:  a.cfg.Grid.Density,
		Seed:     a.cfg.Grid.Seed,
	}
}

func (a *app) heuristic() (astar.Heuristic[grid.Point], error) {
	hc := a.cfg.Heuristic
	return grid.NewHeuristic(hc.Kind, hc.Scale, hc.Alpha, hc.Mod)
}

func parsePoint(s string) (grid.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return grid.Point{}, fmt.Errorf("cell %q: want x,y: %w", s, astar.ErrInvalidInput)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return grid.Point{}, fmt.Errorf("cell %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return grid.Point{}, fmt.Errorf("cell %q: %w", s, err)
	}
	return grid.Point{x, y}, nil
}

func formatRoute(route []grid.Point) string {
	parts := make([]string, len(route))
	for i, p := range route {
		parts[i] = fmt.Sprintf("(%d,%d)", p.X(), p.Y())
	}
	return strings.Join(parts, " -> ")
}

// renderBoard draws walls as '#', the route as '*' and the endpoints as 'S'
// and 'G'.
func renderBoard(w io.Writer, g grid.Grid, start, goal grid.Point, route []grid.Point) {
	onRoute := make(map[grid.Point]bool, len(route))
	for _, p := range route {
		onRoute[p] = true
	}
	var sb strings.Builder
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			p := grid.Point{x, y}
			switch {
			case p == start:
				sb.WriteByte('S')
			case p == goal:
				sb.WriteByte('G')
			case g.Walls[p]:
				sb.WriteByte('#')
			case onRoute[p]:
				sb.WriteByte('*')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	io.WriteString(w, sb.String())
}
