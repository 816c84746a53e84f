// Package grid hosts the search engine on a rectangular cell grid. It owns
// the coordinate type, the concrete distance heuristics and the mapping
// between cells and graph nodes.
package grid

import (
	"math"
	"math/rand"

	astar "github.com/pdrpinto/astargraph"
)

// Point is a cell coordinate {x, y}.
type Point [2]int

// X returns the column.
func (p Point) X() int { return p[0] }

// Y returns the row.
func (p Point) Y() int { return p[1] }

var (
	orthogonal = []Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonal   = []Point{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// Grid is a W×H layout with wall cells.
type Grid struct {
	W, H  int
	Walls map[Point]bool
}

func (g Grid) In(p Point) bool { return p[0] >= 0 && p[0] < g.W && p[1] >= 0 && p[1] < g.H }

// GenerateOptions controls random wall generation.
type GenerateOptions struct {
	Width    int
	Height   int
	Clusters int
	Steps    int
	Density  float64
	Seed     int64
}

// Generate grows clustered random walls via random walks. start and goal are
// never walls.
func Generate(opts GenerateOptions, start, goal Point) Grid {
	r := rand.New(rand.NewSource(opts.Seed))
	w, h := opts.Width, opts.Height
	walls := map[Point]bool{}
	for c := 0; c < opts.Clusters; c++ {
		p := Point{r.Intn(w), r.Intn(h)}
		for s := 0; s < opts.Steps; s++ {
			if r.Float64() < opts.Density && p != start && p != goal {
				walls[p] = true
			}
			d := orthogonal[r.Intn(4)]
			np := Point{p[0] + d[0], p[1] + d[1]}
			if np[0] >= 0 && np[0] < w && np[1] >= 0 && np[1] < h {
				p = np
			}
		}
	}
	return Grid{W: w, H: h, Walls: walls}
}

// RandomEndpoints picks two distinct cells that are not walls. It returns
// false if the grid has fewer than two open cells.
func RandomEndpoints(g Grid, r *rand.Rand) (start, goal Point, ok bool) {
	open := make([]Point, 0, g.W*g.H)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if p := (Point{x, y}); !g.Walls[p] {
				open = append(open, p)
			}
		}
	}
	if len(open) < 2 {
		return Point{}, Point{}, false
	}
	i := r.Intn(len(open))
	j := r.Intn(len(open) - 1)
	if j >= i {
		j++
	}
	return open[i], open[j], true
}

// BuildOptions controls how a Grid becomes a graph.
type BuildOptions struct {
	// Diagonal adds the four diagonal moves at cost √2.
	Diagonal bool
	// SoftWalls keeps wall cells as disabled nodes instead of leaving them
	// out. Disabled nodes are only avoided early in a search.
	SoftWalls bool
}

// Board is a Grid materialized as a search graph.
type Board struct {
	Grid    Grid
	Options BuildOptions

	graph *astar.Graph[Point]
	ids   map[Point]astar.NodeID
}

// Build turns g into a Board. The graph starts clean: its dirty flag is
// drained before Build returns.
func Build(g Grid, opts BuildOptions) *Board {
	b := &Board{
		Grid:    Grid{W: g.W, H: g.H, Walls: make(map[Point]bool, len(g.Walls))},
		Options: opts,
		graph:   astar.NewGraph[Point](),
		ids:     make(map[Point]astar.NodeID, g.W*g.H),
	}
	for p, wall := range g.Walls {
		if wall {
			b.Grid.Walls[p] = true
		}
	}
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			p := Point{x, y}
			if b.Grid.Walls[p] && !opts.SoftWalls {
				continue
			}
			b.addCell(p)
		}
	}
	b.graph.DrainDirty()
	return b
}

// Graph returns the underlying search graph.
func (b *Board) Graph() *astar.Graph[Point] { return b.graph }

// ID returns the node of cell p.
func (b *Board) ID(p Point) (astar.NodeID, bool) {
	id, ok := b.ids[p]
	return id, ok
}

// SetWall turns p into a wall or opens it and reports whether anything
// changed. Hard walls remove the node; soft walls toggle it.
func (b *Board) SetWall(p Point, wall bool) bool {
	if !b.Grid.In(p) || b.Grid.Walls[p] == wall {
		return false
	}
	if wall {
		b.Grid.Walls[p] = true
	} else {
		delete(b.Grid.Walls, p)
	}

	if b.Options.SoftWalls {
		return b.graph.ToggleNode(b.ids[p], !wall)
	}
	if wall {
		delete(b.ids, p)
		return b.graph.RemoveNode(p)
	}
	b.addCell(p)
	return true
}

func (b *Board) addCell(p Point) {
	id := b.graph.AddNode(p)
	b.ids[p] = id
	if b.Options.SoftWalls && b.Grid.Walls[p] {
		b.graph.ToggleNode(id, false)
	}
	b.link(id, p, orthogonal, 1)
	if b.Options.Diagonal {
		b.link(id, p, diagonal, math.Sqrt2)
	}
}

func (b *Board) link(id astar.NodeID, p Point, dirs []Point, cost float64) {
	for _, d := range dirs {
		np := Point{p[0] + d[0], p[1] + d[1]}
		if other, ok := b.ids[np]; ok {
			b.graph.AddUndirectedEdge(id, other, cost)
		}
	}
}
