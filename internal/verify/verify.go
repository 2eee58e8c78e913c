// Package verify checks certificates. Each track plugs in a Verifier; Run
// wraps it with the checks every track shares: duplicate entries, the claimed
// objective and the instance bound.
package verify

import (
	"errors"
	"fmt"
	"sync"

	"github.com/manpen/pace26checker/internal/diag"
	"github.com/manpen/pace26checker/internal/instance"
	"github.com/manpen/pace26checker/internal/solution"
	"github.com/manpen/pace26checker/internal/source"
	"github.com/manpen/pace26checker/internal/track"
)

var (
	// ErrOverflow means the objective does not fit into int64.
	ErrOverflow = errors.New("objective overflows int64")
	// ErrUndefined means the certificate is too broken to be scored.
	ErrUndefined = errors.New("objective undefined")
)

// Verifier is the feasibility predicate of one track. Implementations must be
// deterministic and run in time near-linear in instance plus solution size.
type Verifier interface {
	// Verify reports every feasibility violation of sol to r.
	Verify(inst *instance.Instance, sol *solution.Solution, r diag.Reporter)
	// Objective recomputes the objective value of sol.
	Objective(inst *instance.Instance, sol *solution.Solution) (int64, error)
}

// Registry maps track names to verifiers.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Verifier
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Verifier)}
}

// Default returns a registry with the verifiers of all built-in tracks.
func Default() *Registry {
	r := NewRegistry()
	r.Register("vc", cover{})
	r.Register("wvc", cover{})
	r.Register("ds", domination{})
	r.Register("fvs", feedback{})
	r.Register("ocm", crossing{})
	r.Register(track.Tree, agreement{})
	return r
}

// Register binds v to the track called name, replacing an earlier binding.
func (r *Registry) Register(name string, v Verifier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[name] = v
}

// Lookup returns the verifier bound to name.
func (r *Registry) Lookup(name string) (Verifier, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.byName[name]
	return v, ok
}

// Outcome summarises one verification.
type Outcome struct {
	Feasible     bool
	Objective    int64
	HasObjective bool
}

// Run verifies sol against inst and reports to r. A track without verifier
// is an error: nothing is accepted unchecked.
func Run(reg *Registry, inst *instance.Instance, sol *solution.Solution, r diag.Reporter) Outcome {
	counter := diag.NewCountingReporter(r)
	v, ok := reg.Lookup(inst.Track.Verifier())
	if !ok {
		diag.ReportError(counter, diag.VerNoVerifier, source.FileSpan(sol.File),
			fmt.Sprintf("no verifier for track %s", inst.Track.Name)).Emit()
		return Outcome{}
	}

	if inst.Track.Solution != track.Forest {
		duplicateEntries(inst, sol, counter)
	}
	v.Verify(inst, sol, counter)
	out := Outcome{Feasible: counter.Errors() == 0}

	value, err := v.Objective(inst, sol)
	switch {
	case errors.Is(err, ErrUndefined):
		return out
	case err != nil:
		diag.ReportError(r, diag.VerObjectiveOverflow, source.FileSpan(sol.File),
			fmt.Sprintf("cannot compute the objective: %v", err)).Emit()
		out.Feasible = false
		return out
	}
	out.Objective = value
	out.HasObjective = true

	if sol.Claimed != nil && *sol.Claimed != value {
		diag.ReportError(r, diag.VerObjectiveMismatch, sol.ClaimSpan,
			fmt.Sprintf("claimed objective %d, but the solution has %s %d", *sol.Claimed, inst.Track.Scoring, value)).Emit()
	}
	if k, ok := inst.Bound(); ok && value > k.Value {
		diag.ReportError(r, diag.VerBoundExceeded, source.FileSpan(sol.File),
			fmt.Sprintf("objective %d exceeds the bound k=%d", value, k.Value)).
			WithNote(inst.HeaderSpan().AtField(k.Field), "bound declared here").
			Emit()
	}
	return out
}

// duplicateEntries reports every repeated vertex of a set or ordering.
func duplicateEntries(inst *instance.Instance, sol *solution.Solution, r diag.Reporter) {
	first := make([]int32, inst.Header.N)
	for i := range first {
		first[i] = -1
	}
	for i, e := range sol.Entries {
		if j := first[e.V]; j >= 0 {
			diag.ReportError(r, diag.VerDuplicateEntry, sol.EntrySpan(i),
				fmt.Sprintf("vertex %d is listed more than once", inst.Index.External(e.V))).
				WithNote(sol.EntrySpan(int(j)), "first listed here").
				Emit()
			continue
		}
		first[e.V] = int32(i)
	}
}

// members marks the vertices of a set solution.
func members(inst *instance.Instance, sol *solution.Solution) []bool {
	in := make([]bool, inst.Graph.N())
	for _, e := range sol.Entries {
		in[e.V] = true
	}
	return in
}
