package verify

import (
	"fmt"
	"slices"

	"github.com/manpen/pace26checker/internal/diag"
	"github.com/manpen/pace26checker/internal/graph"
	"github.com/manpen/pace26checker/internal/instance"
	"github.com/manpen/pace26checker/internal/solution"
	"github.com/manpen/pace26checker/internal/source"
)

// crossing: the solution orders the free side a+1..n of a two-layer graph;
// the fixed side keeps its id order. Scored by the number of edge crossings.
type crossing struct{}

func fixedSide(inst *instance.Instance) int64 {
	if p, ok := inst.Header.Param("a"); ok {
		return p.Value
	}
	return 0
}

func (crossing) Verify(inst *instance.Instance, sol *solution.Solution, r diag.Reporter) {
	a := fixedSide(inst)
	listed := make([]bool, inst.Graph.N())
	for i, e := range sol.Entries {
		if inst.Index.External(e.V) <= a {
			diag.ReportError(r, diag.VerWrongSide, sol.EntrySpan(i),
				fmt.Sprintf("vertex %d belongs to the fixed side 1..%d", inst.Index.External(e.V), a)).Emit()
			continue
		}
		listed[e.V] = true
	}
	for v := range graph.Vertex(inst.Graph.N()) {
		if inst.Index.External(v) > a && !listed[v] {
			diag.ReportError(r, diag.VerNotPermutation, source.FileSpan(sol.File),
				fmt.Sprintf("free vertex %d is missing from the ordering", inst.Index.External(v))).Emit()
		}
	}
}

// Objective counts crossings with a Fenwick tree over the fixed side:
// edges are swept by position of their free endpoint, and every earlier edge
// with a larger fixed endpoint crosses the current one.
func (crossing) Objective(inst *instance.Instance, sol *solution.Solution) (int64, error) {
	g := inst.Graph
	a := fixedSide(inst)
	free := int64(g.N()) - a

	pos := make([]int32, g.N())
	for i := range pos {
		pos[i] = -1
	}
	placed := int64(0)
	for i, e := range sol.Entries {
		if inst.Index.External(e.V) <= a || pos[e.V] >= 0 {
			return 0, ErrUndefined
		}
		pos[e.V] = int32(i)
		placed++
	}
	if placed != free {
		return 0, ErrUndefined
	}

	type pair struct{ pos, fixed int32 }
	pairs := make([]pair, 0, g.M())
	for _, e := range g.Edges() {
		u, v := e.U, e.V
		if inst.Index.External(u) > a {
			u, v = v, u
		}
		if inst.Index.External(u) > a || inst.Index.External(v) <= a {
			continue // not a layer edge; the linter reports it
		}
		pairs = append(pairs, pair{pos: pos[v], fixed: int32(u)})
	}
	slices.SortFunc(pairs, func(x, y pair) int {
		if x.pos != y.pos {
			return int(x.pos - y.pos)
		}
		return int(x.fixed - y.fixed)
	})

	bit := newFenwick(int(a))
	var total int64
	for i, p := range pairs {
		// earlier edges with fixed endpoint strictly greater than p.fixed
		greater := int64(i) - bit.prefix(int(p.fixed))
		var ok bool
		if total, ok = addInt64(total, greater); !ok {
			return 0, fmt.Errorf("%w: crossing count", ErrOverflow)
		}
		bit.add(int(p.fixed))
	}
	return total, nil
}

// fenwick counts inserted positions 0..n-1.
type fenwick struct {
	tree []int64
}

func newFenwick(n int) *fenwick {
	return &fenwick{tree: make([]int64, n+1)}
}

func (f *fenwick) add(i int) {
	for i++; i < len(f.tree); i += i & -i {
		f.tree[i]++
	}
}

// prefix returns the number of inserted positions <= i.
func (f *fenwick) prefix(i int) int64 {
	var s int64
	for i++; i > 0; i -= i & -i {
		s += f.tree[i]
	}
	return s
}
