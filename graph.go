package astar

import (
	"fmt"
	"slices"
)

// NodeID addresses a node inside its Graph. IDs are stable for the lifetime
// of the graph and are never reused after a node is removed.
type NodeID int

// NoNode marks the absence of a node, e.g. the parent of a search start.
const NoNode NodeID = -1

// Edge is a directed (neighbor, cost) pair stored on its source node.
type Edge struct {
	To   NodeID
	Cost float64
}

// Node is a vertex owned by a Graph.
type Node[V comparable] struct {
	id      NodeID
	value   V
	enabled bool
	edges   []Edge
}

// ID returns the node's address in its graph.
func (n *Node[V]) ID() NodeID { return n.id }

// Value returns the payload the node was created with.
func (n *Node[V]) Value() V { return n.value }

// Enabled reports whether the node is currently enabled.
func (n *Node[V]) Enabled() bool { return n.enabled }

// Edges returns a copy of the outgoing edges in insertion order.
func (n *Node[V]) Edges() []Edge { return slices.Clone(n.edges) }

// Neighbors returns the outgoing neighbor ids, parallel to Costs.
func (n *Node[V]) Neighbors() []NodeID {
	ids := make([]NodeID, len(n.edges))
	for i, e := range n.edges {
		ids[i] = e.To
	}
	return ids
}

// Costs returns the outgoing edge costs, parallel to Neighbors.
func (n *Node[V]) Costs() []float64 {
	costs := make([]float64, len(n.edges))
	for i, e := range n.edges {
		costs[i] = e.Cost
	}
	return costs
}

func (n *Node[V]) edgeIndex(to NodeID) int {
	for i, e := range n.edges {
		if e.To == to {
			return i
		}
	}
	return -1
}

// GraphOption configures a Graph at construction.
type GraphOption[V comparable] func(*Graph[V])

// WithChangeHandler subscribes fn to PushChange. Handlers run in the order
// they were registered.
func WithChangeHandler[V comparable](fn func()) GraphOption[V] {
	return func(g *Graph[V]) {
		if fn != nil {
			g.handlers = append(g.handlers, fn)
		}
	}
}

// Graph is a mutable weighted adjacency structure. Nodes live in an arena
// indexed by NodeID; removed slots stay empty so ids remain stable.
//
// Graph is not safe for concurrent mutation. Concurrent searches may read a
// graph that nobody is mutating.
type Graph[V comparable] struct {
	nodes    []*Node[V]
	live     int
	dirty    bool
	handlers []func()
}

// NewGraph returns an empty graph.
func NewGraph[V comparable](opts ...GraphOption[V]) *Graph[V] {
	g := &Graph[V]{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddNode registers a new enabled node holding value.
func (g *Graph[V]) AddNode(value V) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, &Node[V]{id: id, value: value, enabled: true})
	g.live++
	g.dirty = true
	return id
}

// Node returns the node at id.
func (g *Graph[V]) Node(id NodeID) (*Node[V], bool) {
	if id < 0 || int(id) >= len(g.nodes) || g.nodes[id] == nil {
		return nil, false
	}
	return g.nodes[id], true
}

// Has reports whether id addresses a live node.
func (g *Graph[V]) Has(id NodeID) bool {
	_, ok := g.Node(id)
	return ok
}

// Len returns the number of live nodes.
func (g *Graph[V]) Len() int { return g.live }

// IDs returns the live node ids in insertion order.
func (g *Graph[V]) IDs() []NodeID {
	ids := make([]NodeID, 0, g.live)
	for _, n := range g.nodes {
		if n != nil {
			ids = append(ids, n.id)
		}
	}
	return ids
}

// Values maps ids to node values. It fails if any id is not live.
func (g *Graph[V]) Values(ids []NodeID) ([]V, error) {
	values := make([]V, 0, len(ids))
	for _, id := range ids {
		n, ok := g.Node(id)
		if !ok {
			return nil, fmt.Errorf("node %d: %w", id, ErrInvalidInput)
		}
		values = append(values, n.value)
	}
	return values, nil
}

// AddDirectedEdge adds from→to with the given cost. It is a no-op returning
// false when the edge already exists or either node is absent.
func (g *Graph[V]) AddDirectedEdge(from, to NodeID, cost float64) bool {
	src, ok := g.Node(from)
	if !ok || !g.Has(to) {
		return false
	}
	if src.edgeIndex(to) != -1 {
		return false
	}
	src.edges = append(src.edges, Edge{To: to, Cost: cost})
	g.dirty = true
	return true
}

// AddUndirectedEdge adds from→to and to→from with equal cost. Nothing is
// added unless neither direction exists yet.
func (g *Graph[V]) AddUndirectedEdge(from, to NodeID, cost float64) bool {
	a, ok := g.Node(from)
	if !ok {
		return false
	}
	b, ok := g.Node(to)
	if !ok {
		return false
	}
	if a.edgeIndex(to) != -1 || b.edgeIndex(from) != -1 {
		return false
	}
	a.edges = append(a.edges, Edge{To: to, Cost: cost})
	if a != b {
		b.edges = append(b.edges, Edge{To: from, Cost: cost})
	}
	g.dirty = true
	return true
}

// RemoveEdge deletes the directed edge from→to.
func (g *Graph[V]) RemoveEdge(from, to NodeID) bool {
	src, ok := g.Node(from)
	if !ok {
		return false
	}
	i := src.edgeIndex(to)
	if i == -1 {
		return false
	}
	src.edges = slices.Delete(src.edges, i, i+1)
	g.dirty = true
	return true
}

// EdgeCost returns the cost of from→to.
func (g *Graph[V]) EdgeCost(from, to NodeID) (float64, bool) {
	src, ok := g.Node(from)
	if !ok {
		return 0, false
	}
	i := src.edgeIndex(to)
	if i == -1 {
		return 0, false
	}
	return src.edges[i].Cost, true
}

// ToggleNode sets the enabled flag of id and reports whether it changed.
// The graph is marked dirty only on an actual change.
func (g *Graph[V]) ToggleNode(id NodeID, enabled bool) bool {
	n, ok := g.Node(id)
	if !ok || n.enabled == enabled {
		return false
	}
	n.enabled = enabled
	g.dirty = true
	return true
}

// FlipNode inverts the enabled flag of id. It always marks the graph dirty.
func (g *Graph[V]) FlipNode(id NodeID) bool {
	n, ok := g.Node(id)
	if !ok {
		return false
	}
	n.enabled = !n.enabled
	g.dirty = true
	return true
}

// Find returns the first node, in insertion order, whose value equals value.
func (g *Graph[V]) Find(value V) (NodeID, bool) {
	for _, n := range g.nodes {
		if n != nil && n.value == value {
			return n.id, true
		}
	}
	return NoNode, false
}

// Contains reports whether any node holds value.
func (g *Graph[V]) Contains(value V) bool {
	_, ok := g.Find(value)
	return ok
}

// RemoveNode deletes the first node holding value along with every edge
// that points at it.
func (g *Graph[V]) RemoveNode(value V) bool {
	id, ok := g.Find(value)
	if !ok {
		return false
	}
	g.nodes[id] = nil
	g.live--
	for _, n := range g.nodes {
		if n == nil {
			continue
		}
		n.edges = slices.DeleteFunc(n.edges, func(e Edge) bool { return e.To == id })
	}
	g.dirty = true
	return true
}

// Dirty reports whether the graph changed since the flag was last drained.
func (g *Graph[V]) Dirty() bool { return g.dirty }

// DrainDirty clears the dirty flag and returns its previous value.
func (g *Graph[V]) DrainDirty() bool {
	was := g.dirty
	g.dirty = false
	return was
}

// PushChange notifies the registered change handlers if the graph is dirty,
// then clears the flag. It reports whether handlers were notified.
func (g *Graph[V]) PushChange() bool {
	if !g.dirty {
		return false
	}
	for _, fn := range g.handlers {
		fn()
	}
	g.dirty = false
	return true
}
