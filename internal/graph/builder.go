package graph

import (
	"fmt"
	"math"

	"fortio.org/safecast"
)

// Builder accumulates edges and freezes them into a Graph.
type Builder struct {
	n             int
	policy        Policy
	edges         []Edge
	vertexWeights []int64
}

// NewBuilder prepares a graph on n vertices. hintM pre-sizes the edge list.
func NewBuilder(n int, policy Policy, hintM int) (*Builder, error) {
	if n < 0 || n >= math.MaxInt32 {
		return nil, fmt.Errorf("%w: n=%d", ErrTooLarge, n)
	}
	if hintM < 0 || hintM > 1<<26 {
		hintM = 0
	}
	b := &Builder{
		n:      n,
		policy: policy,
		edges:  make([]Edge, 0, hintM),
	}
	if policy.WeightedVertices {
		b.vertexWeights = make([]int64, n)
		for i := range b.vertexWeights {
			b.vertexWeights[i] = 1
		}
	}
	return b, nil
}

func (b *Builder) N() int { return b.n }

// M returns the number of edges added so far.
func (b *Builder) M() int { return len(b.edges) }

// AddEdge appends an edge; endpoints must be in range.
func (b *Builder) AddEdge(e Edge) error {
	if e.U < 0 || int(e.U) >= b.n || e.V < 0 || int(e.V) >= b.n {
		return fmt.Errorf("%w: (%d,%d) with n=%d", ErrVertexOutOfRange, e.U, e.V, b.n)
	}
	if len(b.edges) >= math.MaxInt32/2 {
		return fmt.Errorf("%w: more than %d edges", ErrTooLarge, math.MaxInt32/2)
	}
	b.edges = append(b.edges, e)
	return nil
}

// SetVertexWeight stores a vertex weight. It is an error on graphs without vertex weights.
func (b *Builder) SetVertexWeight(v Vertex, w int64) error {
	if b.vertexWeights == nil {
		return fmt.Errorf("graph has no vertex weights")
	}
	if v < 0 || int(v) >= b.n {
		return fmt.Errorf("%w: %d with n=%d", ErrVertexOutOfRange, v, b.n)
	}
	b.vertexWeights[v] = w
	return nil
}

// Build freezes the builder. The builder must not be used afterwards.
func (b *Builder) Build() *Graph {
	g := &Graph{
		n:             b.n,
		policy:        b.policy,
		edges:         b.edges,
		vertexWeights: b.vertexWeights,
	}

	outDeg := make([]int32, b.n+1)
	var inDeg []int32
	if b.policy.Directed {
		inDeg = make([]int32, b.n+1)
	}
	for _, e := range b.edges {
		outDeg[e.U]++
		switch {
		case b.policy.Directed:
			inDeg[e.V]++
		case e.U != e.V:
			outDeg[e.V]++
		}
	}

	g.outOff = prefixSums(outDeg)
	g.outAdj = make([]Vertex, g.outOff[b.n])
	g.outEdg = make([]int32, g.outOff[b.n])
	fill := make([]int32, b.n)
	copy(fill, g.outOff[:b.n])
	for i, e := range b.edges {
		idx := mustInt32(i)
		g.outAdj[fill[e.U]] = e.V
		g.outEdg[fill[e.U]] = idx
		fill[e.U]++
		if !b.policy.Directed && e.U != e.V {
			g.outAdj[fill[e.V]] = e.U
			g.outEdg[fill[e.V]] = idx
			fill[e.V]++
		}
	}

	if b.policy.Directed {
		g.inOff = prefixSums(inDeg)
		g.inAdj = make([]Vertex, g.inOff[b.n])
		copy(fill, g.inOff[:b.n])
		for _, e := range b.edges {
			g.inAdj[fill[e.V]] = e.U
			fill[e.V]++
		}
	}

	b.edges = nil
	b.vertexWeights = nil
	return g
}

// prefixSums turns per-vertex counts (len n+1) into CSR offsets in place.
func prefixSums(counts []int32) []int32 {
	var acc int32
	for i, c := range counts {
		counts[i] = acc
		acc += c
	}
	return counts
}

func mustInt32(i int) int32 {
	v, err := safecast.Conv[int32](i)
	if err != nil {
		panic(fmt.Errorf("edge index overflow: %w", err))
	}
	return v
}
