package verify

import (
	"fmt"

	"github.com/manpen/pace26checker/internal/diag"
	"github.com/manpen/pace26checker/internal/instance"
	"github.com/manpen/pace26checker/internal/solution"
	"github.com/manpen/pace26checker/internal/source"
	"github.com/manpen/pace26checker/internal/tree"
)

// agreement: the solution trees partition the leaves, and each of them can be
// cut out of every instance tree in turn. Scored by the number of trees.
type agreement struct{}

func (agreement) Verify(inst *instance.Instance, sol *solution.Solution, r diag.Reporter) {
	n := inst.Header.Leaves
	c := tree.Cover(sol.Trees, n)
	for _, label := range c.Duplicates {
		diag.ReportError(r, diag.VerDuplicateEntry, sol.TreeSpan(int(c.Owner[label])),
			fmt.Sprintf("leaf %d occurs in more than one place of the forest", label)).Emit()
	}
	for _, label := range c.Missing {
		diag.ReportError(r, diag.VerLeafMissing, source.FileSpan(sol.File),
			fmt.Sprintf("leaf %d is not covered by the forest", label)).Emit()
	}
	if !c.Exact() {
		return
	}

	for i, t := range inst.Trees {
		forest := tree.NewForest(n)
		if err := forest.AddTree(t); err != nil {
			diag.ReportError(r, diag.VerTreeMismatch, inst.TreeSpan(i),
				fmt.Sprintf("instance tree %d cannot be checked: %v", i+1, err)).Emit()
			continue
		}
		for j, pattern := range sol.Trees {
			if forest.Isolate(pattern) {
				continue
			}
			diag.ReportError(r, diag.VerTreeMismatch, sol.TreeSpan(j),
				fmt.Sprintf("solution tree %d does not agree with instance tree %d", j+1, i+1)).
				WithNote(inst.TreeSpan(i), fmt.Sprintf("instance tree %d", i+1)).
				Emit()
			break
		}
	}
}

func (agreement) Objective(_ *instance.Instance, sol *solution.Solution) (int64, error) {
	return int64(len(sol.Trees)), nil
}
