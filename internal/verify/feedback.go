package verify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manpen/pace26checker/internal/diag"
	"github.com/manpen/pace26checker/internal/graph"
	"github.com/manpen/pace26checker/internal/instance"
	"github.com/manpen/pace26checker/internal/solution"
	"github.com/manpen/pace26checker/internal/source"
)

// feedback: removing the solution leaves the digraph acyclic.
type feedback struct{}

func (feedback) Verify(inst *instance.Instance, sol *solution.Solution, r diag.Reporter) {
	g := inst.Graph
	removed := members(inst, sol)
	topo := graph.ToposortKahn(g, removed)
	if !topo.Cyclic {
		return
	}

	cycle := graph.FindCycle(g, removed, topo.Cycles)
	b := diag.ReportError(r, diag.VerCycleRemains, source.FileSpan(sol.File),
		fmt.Sprintf("%d vertices remain on or behind cycles after removing the solution", len(topo.Cycles)))
	if len(cycle) > 0 {
		var path strings.Builder
		for i, v := range cycle {
			if i > 0 {
				path.WriteString(" -> ")
			}
			path.WriteString(strconv.FormatInt(inst.Index.External(v), 10))
		}
		path.WriteString(" -> ")
		path.WriteString(strconv.FormatInt(inst.Index.External(cycle[0]), 10))
		b.WithNote(source.FileSpan(inst.File), "cycle "+path.String())
		for i, v := range cycle {
			next := cycle[(i+1)%len(cycle)]
			if e, ok := edgeBetween(g, v, next); ok {
				b.WithNote(inst.EdgeSpan(e), fmt.Sprintf("edge %d %d", inst.Index.External(v), inst.Index.External(next)))
			}
		}
	}
	b.Emit()
}

func (feedback) Objective(inst *instance.Instance, sol *solution.Solution) (int64, error) {
	return setObjective(inst, sol)
}

// edgeBetween finds the index of some edge u -> v.
func edgeBetween(g *graph.Graph, u, v graph.Vertex) (int, bool) {
	nb := g.Neighbors(u)
	for i, e := range g.IncidentEdges(u) {
		if nb[i] == v {
			return int(e), true
		}
	}
	return 0, false
}
