// Package track describes challenge tracks: which grammar an instance uses,
// which graph policy applies, which structural rules the linter enforces and
// what kind of certificate a solution is.
package track

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/manpen/pace26checker/internal/graph"
)

var (
	// ErrUnknownTrack is returned when no track with the given name is registered.
	ErrUnknownTrack = errors.New("unknown track")
	// ErrUnsupportedVersion is returned when the track exists but not in the requested version.
	ErrUnsupportedVersion = errors.New("unsupported track version")
)

// InstanceKind selects the instance grammar.
type InstanceKind uint8

const (
	GraphInstance InstanceKind = iota
	TreeInstance
)

func (k InstanceKind) String() string {
	switch k {
	case GraphInstance:
		return "graph"
	case TreeInstance:
		return "trees"
	default:
		return "InstanceKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// SolutionKind selects the solution grammar and the shape of the certificate.
type SolutionKind uint8

const (
	VertexSet SolutionKind = iota
	VertexOrdering
	Forest
)

func (k SolutionKind) String() string {
	switch k {
	case VertexSet:
		return "vertex set"
	case VertexOrdering:
		return "ordering"
	case Forest:
		return "forest"
	default:
		return "SolutionKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Objective says how a solution is scored. All tracks minimise.
type Objective uint8

const (
	Cardinality Objective = iota
	VertexWeightSum
	Crossings
	TreeCount
)

func (o Objective) String() string {
	switch o {
	case Cardinality:
		return "cardinality"
	case VertexWeightSum:
		return "weight"
	case Crossings:
		return "crossings"
	case TreeCount:
		return "trees"
	default:
		return "Objective(" + strconv.Itoa(int(o)) + ")"
	}
}

// Rules are the structural constraints the linter checks beyond the policy.
type Rules struct {
	NoIsolated bool `toml:"no_isolated"`
	MinDegree  int  `toml:"min_degree"`
	Connected  bool `toml:"connected"`
	// Bipartite requires every edge to join the fixed side [1,a] with the free side.
	Bipartite bool `toml:"-"`
}

// Param describes a `key=value` header parameter.
type Param struct {
	Name     string
	Doc      string
	Required bool
	Min      int64
	AtMostN  bool // value must not exceed the vertex count
}

// BoundParam is the conventional name of the objective bound parameter.
const BoundParam = "k"

// Spec is an immutable track descriptor.
type Spec struct {
	Name     string
	Title    string
	Base     string // built-in track this one derives from, empty for built-ins
	Version  int    // current version
	MinVer   int    // oldest version still accepted
	Instance InstanceKind
	Solution SolutionKind
	Policy   graph.Policy
	Rules    Rules
	Params   []Param
	Scoring  Objective
}

// Supports reports whether version v of the track can be read.
func (s *Spec) Supports(v int) bool {
	return v >= s.MinVer && v <= s.Version
}

// Param looks up a header parameter by name.
func (s *Spec) Param(name string) (Param, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Verifier returns the name of the track whose verifier checks this one.
// Derived tracks reuse the verifier of their base.
func (s *Spec) Verifier() string {
	if s.Base != "" {
		return s.Base
	}
	return s.Name
}

func (s *Spec) String() string {
	return fmt.Sprintf("%s/%d", s.Name, s.Version)
}

// Ref is a parsed `<name>[/<version>]` header token.
type Ref struct {
	Name       string
	Version    int
	HasVersion bool
}

// ParseRef splits a header token like "vc/1".
func ParseRef(tok string) (Ref, error) {
	name, ver, found := strings.Cut(tok, "/")
	if name == "" {
		return Ref{}, fmt.Errorf("empty track name in %q", tok)
	}
	for _, r := range name {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return Ref{}, fmt.Errorf("invalid character %q in track name %q", r, name)
		}
	}
	ref := Ref{Name: name}
	if !found {
		return ref, nil
	}
	v, err := strconv.Atoi(ver)
	if err != nil || v <= 0 {
		return Ref{}, fmt.Errorf("invalid track version %q", ver)
	}
	ref.Version = v
	ref.HasVersion = true
	return ref, nil
}
