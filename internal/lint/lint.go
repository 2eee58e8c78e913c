// Package lint checks a parsed instance against the structural rules of its
// track. Every check runs, and every violation is reported on its own.
package lint

import (
	"fmt"

	"github.com/manpen/pace26checker/internal/diag"
	"github.com/manpen/pace26checker/internal/graph"
	"github.com/manpen/pace26checker/internal/instance"
	"github.com/manpen/pace26checker/internal/source"
	"github.com/manpen/pace26checker/internal/track"
	"github.com/manpen/pace26checker/internal/tree"
)

// check is one rule. Checks only read the instance.
type check func(inst *instance.Instance, r diag.Reporter)

var graphChecks = []check{
	selfLoops,
	duplicateEdges,
	isolatedVertices,
	minDegree,
	connectivity,
	bipartite,
	vertexWeights,
	bound,
}

var treeChecks = []check{
	leafLabels,
}

// Run applies all rules of the instance's track and reports to r.
func Run(inst *instance.Instance, r diag.Reporter) {
	if inst == nil || inst.Track == nil {
		return
	}
	checks := graphChecks
	if inst.Track.Instance == track.TreeInstance {
		checks = treeChecks
	}
	for _, c := range checks {
		c(inst, r)
	}
}

func vertexName(inst *instance.Instance, v graph.Vertex) string {
	return fmt.Sprintf("vertex %d", inst.Index.External(v))
}

// vertexSpan points at the weight declaration of v if there is one, else at the header.
func vertexSpan(inst *instance.Instance, v graph.Vertex) source.Span {
	if inst.WeightLines != nil && inst.WeightLines[v] != 0 {
		return source.LineSpan(inst.File, inst.WeightLines[v])
	}
	return inst.HeaderSpan()
}

func selfLoops(inst *instance.Instance, r diag.Reporter) {
	if inst.Track.Policy.AllowLoops {
		return
	}
	for i, e := range inst.Graph.Edges() {
		if e.U == e.V {
			diag.ReportError(r, diag.LntSelfLoop, inst.EdgeSpan(i),
				fmt.Sprintf("self-loop at %s is not allowed in track %s", vertexName(inst, e.U), inst.Track.Name)).Emit()
		}
	}
}

// duplicateEdges reports every surplus copy of an edge. Undirected edges are
// compared without orientation.
func duplicateEdges(inst *instance.Instance, r diag.Reporter) {
	if inst.Track.Policy.AllowMulti {
		return
	}
	g := inst.Graph
	first := make(map[uint64]int, g.M())
	for i, e := range g.Edges() {
		u, v := e.U, e.V
		if !g.Directed() && u > v {
			u, v = v, u
		}
		key := uint64(uint32(u))<<32 | uint64(uint32(v))
		j, dup := first[key]
		if !dup {
			first[key] = i
			continue
		}
		diag.ReportError(r, diag.LntDuplicateEdge, inst.EdgeSpan(i),
			fmt.Sprintf("duplicate edge %d %d", inst.Index.External(e.U), inst.Index.External(e.V))).
			WithNote(inst.EdgeSpan(j), "first occurrence").
			Emit()
	}
}

func degree(g *graph.Graph, v graph.Vertex) int {
	if g.Directed() {
		return g.OutDegree(v) + g.InDegree(v)
	}
	return g.Degree(v)
}

func isolatedVertices(inst *instance.Instance, r diag.Reporter) {
	if !inst.Track.Rules.NoIsolated {
		return
	}
	g := inst.Graph
	for v := range graph.Vertex(g.N()) {
		if degree(g, v) == 0 {
			diag.ReportError(r, diag.LntIsolatedVertex, vertexSpan(inst, v),
				fmt.Sprintf("%s is isolated", vertexName(inst, v))).Emit()
		}
	}
}

func minDegree(inst *instance.Instance, r diag.Reporter) {
	want := inst.Track.Rules.MinDegree
	if want <= 0 {
		return
	}
	g := inst.Graph
	for v := range graph.Vertex(g.N()) {
		if d := degree(g, v); d < want {
			diag.ReportError(r, diag.LntMinDegree, vertexSpan(inst, v),
				fmt.Sprintf("%s has degree %d, track %s requires at least %d", vertexName(inst, v), d, inst.Track.Name, want)).Emit()
		}
	}
}

// connectivity reports one error per component beyond the first.
func connectivity(inst *instance.Instance, r diag.Reporter) {
	if !inst.Track.Rules.Connected || inst.Graph.N() == 0 {
		return
	}
	count, label := graph.Components(inst.Graph)
	if count <= 1 {
		return
	}
	reported := make([]bool, count)
	reported[0] = true
	for v, c := range label {
		if reported[c] {
			continue
		}
		reported[c] = true
		diag.ReportError(r, diag.LntDisconnected, inst.HeaderSpan(),
			fmt.Sprintf("the component of %s is not connected to the component of vertex 1", vertexName(inst, graph.Vertex(v)))).Emit()
	}
}

// bipartite checks that every edge joins the fixed side 1..a with the free side.
func bipartite(inst *instance.Instance, r diag.Reporter) {
	if !inst.Track.Rules.Bipartite {
		return
	}
	p, ok := inst.Header.Param("a")
	if !ok {
		return
	}
	fixed := func(v graph.Vertex) bool { return inst.Index.External(v) <= p.Value }
	for i, e := range inst.Graph.Edges() {
		if fixed(e.U) == fixed(e.V) {
			side := "free"
			if fixed(e.U) {
				side = "fixed"
			}
			diag.ReportError(r, diag.LntNotBipartite, inst.EdgeSpan(i),
				fmt.Sprintf("edge %d %d has both endpoints on the %s side (a=%d)", inst.Index.External(e.U), inst.Index.External(e.V), side, p.Value)).Emit()
		}
	}
}

func vertexWeights(inst *instance.Instance, r diag.Reporter) {
	g := inst.Graph
	if !g.HasVertexWeights() {
		return
	}
	for v := range graph.Vertex(g.N()) {
		if w := g.VertexWeight(v); w < 0 {
			sp := vertexSpan(inst, v)
			if sp.Line != inst.Header.Line {
				sp = sp.AtField(3)
			}
			diag.ReportError(r, diag.LntNegativeWeight, sp,
				fmt.Sprintf("%s has negative weight %d", vertexName(inst, v), w)).Emit()
		}
	}
}

// bound warns about a `k` that can never bind a vertex-set solution.
func bound(inst *instance.Instance, r diag.Reporter) {
	k, ok := inst.Bound()
	if !ok || inst.Track.Solution != track.VertexSet || inst.Track.Scoring != track.Cardinality {
		return
	}
	if k.Value > int64(inst.Header.N) {
		diag.ReportWarning(r, diag.LntBoundExceedsN, inst.HeaderSpan().AtField(k.Field),
			fmt.Sprintf("bound k=%d exceeds n=%d", k.Value, inst.Header.N)).Emit()
	}
}

// leafLabels checks that every tree carries each label 1..leaves exactly once.
func leafLabels(inst *instance.Instance, r diag.Reporter) {
	n := inst.Header.Leaves
	for i, t := range inst.Trees {
		sp := inst.TreeSpan(i)
		c := tree.Cover([]*tree.Tree{t}, n)
		for _, label := range c.Invalid {
			diag.ReportError(r, diag.LntLeafLabel, sp,
				fmt.Sprintf("tree %d has leaf label %d, expected labels in [1, %d]", i+1, label, n)).Emit()
		}
		for _, label := range c.Duplicates {
			diag.ReportError(r, diag.LntDuplicateLabel, sp,
				fmt.Sprintf("tree %d has leaf label %d more than once", i+1, label)).Emit()
		}
		switch {
		case c.Total > n:
			diag.ReportError(r, diag.LntTooManyLeaves, sp,
				fmt.Sprintf("tree %d has %d leaves, expected %d", i+1, c.Total, n)).Emit()
		case c.Total < n:
			diag.ReportError(r, diag.LntTooFewLeaves, sp,
				fmt.Sprintf("tree %d has only %d leaves, expected %d", i+1, c.Total, n)).Emit()
		}
	}
}
