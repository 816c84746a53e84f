package astar

import "fmt"

// Path records, for each discovered node, the node that discovered it.
// The search start is recorded with parent NoNode.
type Path[V comparable] struct {
	parents map[NodeID]NodeID
	goal    NodeID
}

// NewPath returns an empty path towards goal.
func NewPath[V comparable](goal NodeID) *Path[V] {
	return &Path[V]{parents: make(map[NodeID]NodeID), goal: goal}
}

// Goal returns the designated goal.
func (p *Path[V]) Goal() NodeID { return p.goal }

// SetGoal changes the designated goal.
func (p *Path[V]) SetGoal(goal NodeID) { p.goal = goal }

// Add records parent as the discoverer of node. It returns false and leaves
// the existing entry untouched if node is already recorded.
func (p *Path[V]) Add(node, parent NodeID) bool {
	if _, ok := p.parents[node]; ok {
		return false
	}
	p.parents[node] = parent
	return true
}

// SetParent records parent for node, replacing any previous assignment.
func (p *Path[V]) SetParent(node, parent NodeID) { p.parents[node] = parent }

// Parent returns the recorded parent of node.
func (p *Path[V]) Parent(node NodeID) (NodeID, bool) {
	parent, ok := p.parents[node]
	return parent, ok
}

// Contains reports whether node has been recorded.
func (p *Path[V]) Contains(node NodeID) bool {
	_, ok := p.parents[node]
	return ok
}

// Remove forgets node.
func (p *Path[V]) Remove(node NodeID) { delete(p.parents, node) }

// Clear forgets every node but keeps the goal.
func (p *Path[V]) Clear() { clear(p.parents) }

// Len returns the number of recorded nodes.
func (p *Path[V]) Len() int { return len(p.parents) }

// Reconstruct walks parent pointers back from the goal and returns the route
// from start to goal.
func (p *Path[V]) Reconstruct() ([]NodeID, error) {
	if !p.Contains(p.goal) {
		return nil, fmt.Errorf("goal %d never reached: %w", p.goal, ErrNoPathFound)
	}

	var reversed []NodeID
	visited := make(map[NodeID]struct{}, len(p.parents))
	current := p.goal
	for current != NoNode {
		if _, seen := visited[current]; seen {
			return nil, fmt.Errorf("cycle at node %d: %w", current, ErrMalformedPath)
		}
		parent, ok := p.parents[current]
		if !ok {
			return nil, fmt.Errorf("dangling parent %d: %w", current, ErrMalformedPath)
		}
		visited[current] = struct{}{}
		reversed = append(reversed, current)
		current = parent
	}

	route := make([]NodeID, len(reversed))
	for i, id := range reversed {
		route[len(reversed)-1-i] = id
	}
	return route, nil
}

// ReconstructValues returns the route as node values of g.
func (p *Path[V]) ReconstructValues(g *Graph[V]) ([]V, error) {
	route, err := p.Reconstruct()
	if err != nil {
		return nil, err
	}
	values, err := g.Values(route)
	if err != nil {
		return nil, fmt.Errorf("route references a removed node: %w", ErrMalformedPath)
	}
	return values, nil
}

// Cost sums the edge costs along the reconstructed route in g.
func (p *Path[V]) Cost(g *Graph[V]) (float64, error) {
	route, err := p.Reconstruct()
	if err != nil {
		return 0, err
	}
	total := 0.0
	for i := 1; i < len(route); i++ {
		cost, ok := g.EdgeCost(route[i-1], route[i])
		if !ok {
			return 0, fmt.Errorf("no edge %d->%d: %w", route[i-1], route[i], ErrMalformedPath)
		}
		total += cost
	}
	return total, nil
}
