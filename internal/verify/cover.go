package verify

import (
	"fmt"

	"github.com/manpen/pace26checker/internal/diag"
	"github.com/manpen/pace26checker/internal/graph"
	"github.com/manpen/pace26checker/internal/instance"
	"github.com/manpen/pace26checker/internal/solution"
	"github.com/manpen/pace26checker/internal/track"
)

// cover: every edge needs an endpoint in the solution.
type cover struct{}

func (cover) Verify(inst *instance.Instance, sol *solution.Solution, r diag.Reporter) {
	in := members(inst, sol)
	for i, e := range inst.Graph.Edges() {
		if in[e.U] || in[e.V] {
			continue
		}
		diag.ReportError(r, diag.VerEdgeUncovered, inst.EdgeSpan(i),
			fmt.Sprintf("edge %d %d is not covered", inst.Index.External(e.U), inst.Index.External(e.V))).Emit()
	}
}

func (cover) Objective(inst *instance.Instance, sol *solution.Solution) (int64, error) {
	return setObjective(inst, sol)
}

// setObjective scores a vertex set by size or by total vertex weight.
// Repeated entries count once.
func setObjective(inst *instance.Instance, sol *solution.Solution) (int64, error) {
	in := make([]bool, inst.Graph.N())
	var total int64
	for _, e := range sol.Entries {
		if in[e.V] {
			continue
		}
		in[e.V] = true
		w := int64(1)
		if inst.Track.Scoring == track.VertexWeightSum {
			w = inst.Graph.VertexWeight(e.V)
		}
		var ok bool
		if total, ok = addInt64(total, w); !ok {
			return 0, fmt.Errorf("%w: sum of vertex weights", ErrOverflow)
		}
	}
	return total, nil
}

func addInt64(a, b int64) (int64, bool) {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		return 0, false
	}
	return s, true
}

// domination: every vertex is in the solution or has a neighbour there.
type domination struct{}

func (domination) Verify(inst *instance.Instance, sol *solution.Solution, r diag.Reporter) {
	g := inst.Graph
	dominated := make([]bool, g.N())
	for _, e := range sol.Entries {
		dominated[e.V] = true
		for _, u := range g.Neighbors(e.V) {
			dominated[u] = true
		}
	}
	for v := range graph.Vertex(g.N()) {
		if dominated[v] {
			continue
		}
		diag.ReportError(r, diag.VerUndominated, inst.HeaderSpan(),
			fmt.Sprintf("vertex %d is neither in the solution nor adjacent to it", inst.Index.External(v))).Emit()
	}
}

func (domination) Objective(inst *instance.Instance, sol *solution.Solution) (int64, error) {
	return setObjective(inst, sol)
}
