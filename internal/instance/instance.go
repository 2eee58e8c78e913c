// Package instance reads challenge instances. A file either uses the graph
// grammar (`p <track> <n> <m>` header, one edge per line) or the tree grammar
// of the agreement-forest track (`#p <trees> <leaves>` header, one Newick tree
// per line). Parsing is a single streaming pass; any structural defect is
// fatal and reported as exactly one diagnostic.
package instance

import (
	"encoding/json"

	"github.com/manpen/pace26checker/internal/graph"
	"github.com/manpen/pace26checker/internal/source"
	"github.com/manpen/pace26checker/internal/track"
	"github.com/manpen/pace26checker/internal/tree"
)

// ParamValue is a `key=value` header parameter.
type ParamValue struct {
	Name  string
	Value int64
	Field int // token index in the header line
}

// Header is the declared part of an instance.
type Header struct {
	Track   *track.Spec
	Version int
	// graph grammar
	N int
	M int
	// tree grammar
	Trees  int
	Leaves int

	Params []ParamValue
	Line   uint32
}

// Param returns the value of a header parameter.
func (h *Header) Param(name string) (ParamValue, bool) {
	for _, p := range h.Params {
		if p.Name == name {
			return p, true
		}
	}
	return ParamValue{}, false
}

// Stride is a `#s <key> <json>` metadata line.
type Stride struct {
	Key   string
	Value json.RawMessage
	Line  uint32
}

// Instance is immutable after Parse returns it.
type Instance struct {
	Track  *track.Spec
	Header Header

	// graph tracks
	Graph       *graph.Graph
	Index       graph.IndexTable
	WeightLines []uint32 // line of the `v` declaration per vertex, 0 if none

	// tree tracks
	Trees     []*tree.Tree
	TreeLines []uint32

	Strides []Stride

	File  source.FileID
	Sum   [32]byte
	Bytes uint64
	Flags source.FileFlags
}

// IsTree reports whether the instance uses the tree grammar.
func (inst *Instance) IsTree() bool {
	return inst.Track != nil && inst.Track.Instance == track.TreeInstance
}

// Universe is the number of ids a solution may reference: vertices for graph
// tracks, leaves for tree tracks.
func (inst *Instance) Universe() int {
	if inst.IsTree() {
		return inst.Header.Leaves
	}
	return inst.Header.N
}

// Bound returns the objective bound `k` if the header declares one.
func (inst *Instance) Bound() (ParamValue, bool) {
	return inst.Header.Param(track.BoundParam)
}

// HeaderSpan points at the header line.
func (inst *Instance) HeaderSpan() source.Span {
	return source.LineSpan(inst.File, inst.Header.Line)
}

// EdgeSpan points at the input line of edge i.
func (inst *Instance) EdgeSpan(i int) source.Span {
	return source.LineSpan(inst.File, inst.Graph.Edge(i).Line)
}

// TreeSpan points at the input line of tree i.
func (inst *Instance) TreeSpan(i int) source.Span {
	return source.LineSpan(inst.File, inst.TreeLines[i])
}
