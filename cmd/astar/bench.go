package main

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	astar "github.com/pdrpinto/astargraph"
	"github.com/pdrpinto/astargraph/internal/grid"
)

// benchReport aggregates a SolveAll batch.
type benchReport struct {
	Queries  int
	Found    int
	NoPath   int
	Failed   int
	Expanded int
	Elapsed  time.Duration
}

func newBenchCmd(a *app) *cobra.Command {
	var queries, workers int
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Solve many random queries concurrently on one generated grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("queries") {
				a.cfg.Bench.Queries = queries
			}
			if cmd.Flags().Changed("workers") {
				a.cfg.Bench.Workers = workers
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return a.bench(cmd)
		},
	}
	cmd.Flags().IntVar(&queries, "queries", 0, "number of random queries (config bench.queries)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent searches, 0 for one per CPU (config bench.workers)")
	return cmd
}

func (a *app) bench(cmd *cobra.Command) error {
	r := rand.New(rand.NewSource(a.cfg.Grid.Seed))
	g := grid.Generate(a.generateOptions(), grid.Point{-1, -1}, grid.Point{-1, -1})
	board := grid.Build(g, grid.BuildOptions{Diagonal: a.cfg.Grid.Diagonal, SoftWalls: a.cfg.Grid.SoftWalls})
	h, err := a.heuristic()
	if err != nil {
		return err
	}

	queries := make([]astar.Query, 0, a.cfg.Bench.Queries)
	for range a.cfg.Bench.Queries {
		start, goal, ok := grid.RandomEndpoints(board.Grid, r)
		if !ok {
			return fmt.Errorf("grid has fewer than two open cells: %w", astar.ErrInvalidInput)
		}
		startID, _ := board.ID(start)
		goalID, _ := board.ID(goal)
		queries = append(queries, astar.Query{Start: startID, Goal: goalID})
	}

	began := time.Now()
	outcomes, err := astar.SolveAll(cmd.Context(), board.Graph(), h, queries,
		astar.WithLogger(a.logger),
		astar.WithWorkers(a.cfg.Bench.Workers),
	)
	if err != nil {
		return err
	}
	report := summarize(outcomes)
	report.Elapsed = time.Since(began)

	a.logger.InfoContext(cmd.Context(), "bench finished",
		"queries", report.Queries, "found", report.Found, "elapsed", report.Elapsed)
	fmt.Fprintf(cmd.OutOrStdout(), "queries=%d found=%d no_path=%d failed=%d expanded=%d elapsed=%s\n",
		report.Queries, report.Found, report.NoPath, report.Failed, report.Expanded, report.Elapsed)
	return nil
}

func summarize(outcomes []astar.Outcome[grid.Point]) benchReport {
	report := benchReport{Queries: len(outcomes)}
	for _, o := range outcomes {
		switch {
		case o.Err == nil:
			report.Found++
			report.Expanded += o.Result.ExpandedNodes
		case errors.Is(o.Err, astar.ErrNoPathFound):
			report.NoPath++
		default:
			report.Failed++
		}
	}
	return report
}
