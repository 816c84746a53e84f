package grid

import (
	"fmt"
	"math"

	astar "github.com/pdrpinto/astargraph"
)

func deltas(a, b Point) (float64, float64) {
	return math.Abs(float64(a[0] - b[0])), math.Abs(float64(a[1] - b[1]))
}

// Manhattan is |dx| + |dy|.
func Manhattan(a, b Point) float64 {
	dx, dy := deltas(a, b)
	return dx + dy
}

// Chebyshev is max(|dx|, |dy|).
func Chebyshev(a, b Point) float64 {
	dx, dy := deltas(a, b)
	return math.Max(dx, dy)
}

// Euclidean is the straight-line distance.
func Euclidean(a, b Point) float64 {
	dx, dy := deltas(a, b)
	return math.Hypot(dx, dy)
}

// Octile is the exact cost on an 8-connected grid with diagonal cost √2.
func Octile(a, b Point) float64 {
	dx, dy := deltas(a, b)
	return math.Max(dx, dy) + (math.Sqrt2-1)*math.Min(dx, dy)
}

var estimates = map[string]astar.EstimateFunc[Point]{
	"manhattan": Manhattan,
	"chebyshev": Chebyshev,
	"euclidean": Euclidean,
	"octile":    Octile,
	"zero":      func(Point, Point) float64 { return 0 },
}

// Estimate looks up a distance estimate by name.
func Estimate(name string) (astar.EstimateFunc[Point], error) {
	est, ok := estimates[name]
	if !ok {
		return nil, fmt.Errorf("unknown heuristic %q", name)
	}
	return est, nil
}

// NewHeuristic wraps the named estimate in an affine heuristic.
func NewHeuristic(name string, scale, alpha, mod float64) (astar.Affine[Point], error) {
	est, err := Estimate(name)
	if err != nil {
		return astar.Affine[Point]{}, err
	}
	return astar.NewAffine(est, astar.WithScale(scale), astar.WithAlpha(alpha), astar.WithMod(mod)), nil
}
