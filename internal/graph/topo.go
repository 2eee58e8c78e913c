package graph

import (
	"slices"
)

// Topo is the result of Kahn's algorithm on a directed graph.
type Topo struct {
	Order  []Vertex // линейный порядок оставшихся вершин
	Cyclic bool
	Cycles []Vertex // вершины, оставшиеся в цикле или за ним
}

// ToposortKahn runs Kahn's algorithm on g with the vertices marked in removed
// deleted. Ties are broken by vertex id so the order is deterministic.
// Undirected graphs are treated as symmetric digraphs.
func ToposortKahn(g *Graph, removed []bool) *Topo {
	n := g.N()
	isRemoved := func(v Vertex) bool {
		return removed != nil && removed[v]
	}

	indeg := make([]int32, n)
	active := 0
	for v := range Vertex(n) {
		if isRemoved(v) {
			continue
		}
		active++
		for _, u := range g.InNeighbors(v) {
			if !isRemoved(u) {
				indeg[v]++
			}
		}
	}

	topo := &Topo{Order: make([]Vertex, 0, active)}

	current := make([]Vertex, 0)
	for v := range Vertex(n) {
		if !isRemoved(v) && indeg[v] == 0 {
			current = append(current, v)
		}
	}

	for len(current) > 0 {
		next := make([]Vertex, 0)
		for _, v := range current {
			topo.Order = append(topo.Order, v)
			for _, to := range g.Neighbors(v) {
				if isRemoved(to) {
					continue
				}
				indeg[to]--
				if indeg[to] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if len(topo.Order) != active {
		topo.Cyclic = true
		for v := range Vertex(n) {
			if !isRemoved(v) && indeg[v] > 0 {
				topo.Cycles = append(topo.Cycles, v)
			}
		}
	}

	return topo
}

// FindCycle returns one directed cycle among the vertices left by a cyclic
// toposort, as a vertex sequence whose last vertex has an edge to the first.
// It walks backwards along in-edges, which always exist inside the residue.
func FindCycle(g *Graph, removed []bool, residue []Vertex) []Vertex {
	if len(residue) == 0 {
		return nil
	}
	inResidue := make(map[Vertex]struct{}, len(residue))
	for _, v := range residue {
		inResidue[v] = struct{}{}
	}
	seenAt := make(map[Vertex]int, len(residue))
	walk := make([]Vertex, 0, 8)
	v := residue[0]
	for {
		if at, ok := seenAt[v]; ok {
			cycle := slices.Clone(walk[at:])
			slices.Reverse(cycle)
			return cycle
		}
		seenAt[v] = len(walk)
		walk = append(walk, v)
		next := Vertex(-1)
		for _, u := range g.InNeighbors(v) {
			if removed != nil && removed[u] {
				continue
			}
			if _, ok := inResidue[u]; ok {
				next = u
				break
			}
		}
		if next < 0 {
			return nil
		}
		v = next
	}
}
