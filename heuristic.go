package astar

// Heuristic estimates the remaining cost from node to goal. A* only returns
// optimal routes when the estimate is admissible and consistent; the solver
// does not check either property.
type Heuristic[V comparable] interface {
	Run(node, goal V) float64
}

// EstimateFunc is a raw distance estimate between two node values.
type EstimateFunc[V comparable] func(from, to V) float64

// Run lets a plain function serve as a Heuristic.
func (f EstimateFunc[V]) Run(node, goal V) float64 { return f(node, goal) }

// Affine scales an estimate: Scale * Alpha * Estimate(node, goal) + Mod.
type Affine[V comparable] struct {
	Estimate EstimateFunc[V]
	Scale    float64
	Alpha    float64
	Mod      float64
}

// AffineOption tunes one parameter of an Affine heuristic.
type AffineOption func(*affineParams)

type affineParams struct {
	scale, alpha, mod float64
}

// WithScale sets the scale factor (default 1).
func WithScale(scale float64) AffineOption {
	return func(p *affineParams) { p.scale = scale }
}

// WithAlpha sets the multiplier (default 1).
func WithAlpha(alpha float64) AffineOption {
	return func(p *affineParams) { p.alpha = alpha }
}

// WithMod sets the additive offset (default 0).
func WithMod(mod float64) AffineOption {
	return func(p *affineParams) { p.mod = mod }
}

// NewAffine wraps estimate with scale 1, alpha 1 and mod 0 unless overridden.
func NewAffine[V comparable](estimate EstimateFunc[V], options ...AffineOption) Affine[V] {
	params := affineParams{scale: 1, alpha: 1}
	for _, option := range options {
		option(&params)
	}
	return Affine[V]{Estimate: estimate, Scale: params.scale, Alpha: params.alpha, Mod: params.mod}
}

// Run implements Heuristic.
func (a Affine[V]) Run(node, goal V) float64 {
	return a.Scale*a.Alpha*a.Estimate(node, goal) + a.Mod
}

// Zero returns a heuristic that always estimates 0, turning A* into
// Dijkstra's algorithm.
func Zero[V comparable]() Heuristic[V] {
	return EstimateFunc[V](func(V, V) float64 { return 0 })
}
