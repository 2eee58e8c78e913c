package graph

import (
	"errors"
	"fmt"
	"sync"
)

// Vertex is a dense internal vertex id in [0, n).
type Vertex int32

// Edge is one element of the edge multiset. Line is the 1-based input line
// the edge was read from, zero for programmatically built graphs.
type Edge struct {
	U, V Vertex
	W    int64
	Line uint32
}

var (
	ErrVertexOutOfRange = errors.New("vertex out of range")
	ErrTooLarge         = errors.New("graph too large")
)

// Graph is an immutable multigraph in CSR form.
// For undirected graphs every non-loop edge appears in the adjacency of both
// endpoints; a self-loop appears once in the adjacency of its vertex.
type Graph struct {
	n      int
	policy Policy
	edges  []Edge

	outOff []int32
	outAdj []Vertex
	outEdg []int32

	// only for directed graphs
	inOff []int32
	inAdj []Vertex

	vertexWeights []int64

	indexOnce sync.Once
	index     map[uint64]uint32
}

func (g *Graph) N() int { return g.n }
func (g *Graph) M() int { return len(g.edges) }
func (g *Graph) Directed() bool { return g.policy.Directed }
func (g *Graph) Policy() Policy { return g.policy }
func (g *Graph) Edges() []Edge { return g.edges }
func (g *Graph) Edge(i int) Edge { return g.edges[i] }
func (g *Graph) Valid(v Vertex) bool { return v >= 0 && int(v) < g.n }

// Neighbors returns the out-neighbours of v (all neighbours when undirected).
// The slice aliases internal storage and must not be modified.
func (g *Graph) Neighbors(v Vertex) []Vertex {
	return g.outAdj[g.outOff[v]:g.outOff[v+1]]
}

// IncidentEdges returns indices into Edges() parallel to Neighbors(v).
func (g *Graph) IncidentEdges(v Vertex) []int32 {
	return g.outEdg[g.outOff[v]:g.outOff[v+1]]
}

// InNeighbors returns the in-neighbours of v; for undirected graphs it equals Neighbors.
func (g *Graph) InNeighbors(v Vertex) []Vertex {
	if !g.policy.Directed {
		return g.Neighbors(v)
	}
	return g.inAdj[g.inOff[v]:g.inOff[v+1]]
}

// Degree is the number of adjacency entries of v (out + in for directed graphs).
func (g *Graph) Degree(v Vertex) int {
	if !g.policy.Directed {
		return g.OutDegree(v)
	}
	return g.OutDegree(v) + g.InDegree(v)
}

func (g *Graph) OutDegree(v Vertex) int {
	return int(g.outOff[v+1] - g.outOff[v])
}

func (g *Graph) InDegree(v Vertex) int {
	if !g.policy.Directed {
		return g.OutDegree(v)
	}
	return int(g.inOff[v+1] - g.inOff[v])
}

// VertexWeight returns the weight of v, 1 for graphs without vertex weights.
func (g *Graph) VertexWeight(v Vertex) int64 {
	if g.vertexWeights == nil {
		return 1
	}
	return g.vertexWeights[v]
}

// HasVertexWeights reports whether explicit vertex weights were supplied.
func (g *Graph) HasVertexWeights() bool {
	return g.vertexWeights != nil
}

// HasEdge reports whether at least one edge u->v (u-v when undirected) exists.
// The existence index is built on the first query; concurrent readers are safe.
func (g *Graph) HasEdge(u, v Vertex) bool {
	return g.EdgeMultiplicity(u, v) > 0
}

// EdgeMultiplicity returns the number of parallel copies of u->v.
func (g *Graph) EdgeMultiplicity(u, v Vertex) int {
	if !g.Valid(u) || !g.Valid(v) {
		return 0
	}
	g.indexOnce.Do(g.buildIndex)
	return int(g.index[g.key(u, v)])
}

func (g *Graph) key(u, v Vertex) uint64 {
	if !g.policy.Directed && u > v {
		u, v = v, u
	}
	return uint64(uint32(u))<<32 | uint64(uint32(v))
}

func (g *Graph) buildIndex() {
	idx := make(map[uint64]uint32, len(g.edges))
	for _, e := range g.edges {
		idx[g.key(e.U, e.V)]++
	}
	g.index = idx
}

func (g *Graph) String() string {
	return fmt.Sprintf("graph(n=%d, m=%d, %s)", g.n, len(g.edges), g.policy)
}
