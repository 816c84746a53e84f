package grid

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	astar "github.com/pdrpinto/astargraph"
)

func TestGenerate_IsDeterministicAndKeepsEndpointsOpen(t *testing.T) {
	opts := GenerateOptions{Width: 30, Height: 20, Clusters: 6, Steps: 150, Density: 0.4, Seed: 11}
	start, goal := Point{0, 0}, Point{29, 19}

	a := Generate(opts, start, goal)
	b := Generate(opts, start, goal)
	assert.Equal(t, a, b)
	assert.NotEmpty(t, a.Walls)
	assert.False(t, a.Walls[start])
	assert.False(t, a.Walls[goal])
	for p := range a.Walls {
		assert.True(t, a.In(p))
	}
}

func TestRandomEndpoints(t *testing.T) {
	g := Grid{W: 2, H: 1, Walls: map[Point]bool{}}
	start, goal, ok := RandomEndpoints(g, rand.New(rand.NewSource(1)))
	require.True(t, ok)
	assert.NotEqual(t, start, goal)

	g.Walls[Point{0, 0}] = true
	_, _, ok = RandomEndpoints(g, rand.New(rand.NewSource(1)))
	assert.False(t, ok)
}

func TestBuild_HardWallsAreOmitted(t *testing.T) {
	g := Grid{W: 3, H: 3, Walls: map[Point]bool{{1, 1}: true}}
	b := Build(g, BuildOptions{})

	assert.Equal(t, 8, b.Graph().Len())
	assert.False(t, b.Graph().Dirty())
	_, ok := b.ID(Point{1, 1})
	assert.False(t, ok)

	corner, _ := b.ID(Point{0, 0})
	n, _ := b.Graph().Node(corner)
	assert.Len(t, n.Neighbors(), 2)
}

func TestBuild_DiagonalCosts(t *testing.T) {
	b := Build(Grid{W: 2, H: 2}, BuildOptions{Diagonal: true})
	a, _ := b.ID(Point{0, 0})
	d, _ := b.ID(Point{1, 1})
	cost, ok := b.Graph().EdgeCost(a, d)
	require.True(t, ok)
	assert.InDelta(t, math.Sqrt2, cost, 1e-12)
}

func TestBuild_SoftWallsAreDisabledNodes(t *testing.T) {
	b := Build(Grid{W: 3, H: 1, Walls: map[Point]bool{{1, 0}: true}}, BuildOptions{SoftWalls: true})
	id, ok := b.ID(Point{1, 0})
	require.True(t, ok)
	n, _ := b.Graph().Node(id)
	assert.False(t, n.Enabled())

	assert.True(t, b.SetWall(Point{1, 0}, false))
	assert.True(t, n.Enabled())
	assert.True(t, b.Graph().DrainDirty())
}

func TestBoard_SetWallReshapesGraph(t *testing.T) {
	b := Build(Grid{W: 3, H: 1}, BuildOptions{})
	solver := astar.NewSolver[Point](b.Graph(), astar.NewAffine(Manhattan))
	ctx := context.Background()

	start, _ := b.ID(Point{0, 0})
	goal, _ := b.ID(Point{2, 0})
	_, err := solver.Solve(ctx, start, goal)
	require.NoError(t, err)

	require.True(t, b.SetWall(Point{1, 0}, true))
	assert.False(t, b.SetWall(Point{1, 0}, true))
	assert.True(t, b.Graph().DrainDirty())
	_, err = solver.Solve(ctx, start, goal)
	require.ErrorIs(t, err, astar.ErrNoPathFound)

	require.True(t, b.SetWall(Point{1, 0}, false))
	result, err := solver.Route(ctx, start, goal)
	require.NoError(t, err)
	assert.Equal(t, []Point{{0, 0}, {1, 0}, {2, 0}}, result.Values)
	assert.False(t, b.SetWall(Point{5, 5}, true))
}

func TestBoard_ManhattanFindsShortestRoute(t *testing.T) {
	walls := map[Point]bool{}
	for y := 0; y < 4; y++ {
		walls[Point{2, y}] = true
	}
	b := Build(Grid{W: 5, H: 5, Walls: walls}, BuildOptions{})
	start, _ := b.ID(Point{0, 0})
	goal, _ := b.ID(Point{4, 0})

	result, err := astar.NewSolver[Point](b.Graph(), astar.NewAffine(Manhattan)).Route(context.Background(), start, goal)
	require.NoError(t, err)
	// Down to row 4, across, and back up.
	assert.Equal(t, 12.0, result.TotalCost)
	assert.Equal(t, Point{0, 0}, result.Values[0])
	assert.Equal(t, Point{4, 0}, result.Values[len(result.Values)-1])
}

func TestHeuristics(t *testing.T) {
	a, b := Point{0, 0}, Point{3, 4}
	assert.Equal(t, 7.0, Manhattan(a, b))
	assert.Equal(t, 4.0, Chebyshev(a, b))
	assert.Equal(t, 5.0, Euclidean(a, b))
	assert.InDelta(t, 4+3*(math.Sqrt2-1), Octile(a, b), 1e-12)

	est, err := Estimate("euclidean")
	require.NoError(t, err)
	assert.Equal(t, 5.0, est(a, b))
	zero, err := Estimate("zero")
	require.NoError(t, err)
	assert.Zero(t, zero(a, b))
	_, err = Estimate("taxicab")
	assert.Error(t, err)
}

func TestNewHeuristic(t *testing.T) {
	h, err := NewHeuristic("manhattan", 2, 1.5, 1)
	require.NoError(t, err)
	assert.InDelta(t, 2*1.5*7+1, h.Run(Point{0, 0}, Point{3, 4}), 1e-9)

	_, err = NewHeuristic("taxicab", 1, 1, 0)
	assert.Error(t, err)
}
