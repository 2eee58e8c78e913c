package graph

import "strings"

// Policy describes which edge shapes a track admits. It is data carried by the
// instance; the graph itself stores whatever it is given and the linter judges.
type Policy struct {
	Directed         bool `toml:"directed"`
	AllowLoops       bool `toml:"allow_loops"`
	AllowMulti       bool `toml:"allow_multi"`
	WeightedEdges    bool `toml:"weighted_edges"`
	WeightedVertices bool `toml:"weighted_vertices"`
}

func (p Policy) String() string {
	parts := make([]string, 0, 5)
	if p.Directed {
		parts = append(parts, "directed")
	} else {
		parts = append(parts, "undirected")
	}
	if p.AllowLoops {
		parts = append(parts, "loops")
	}
	if p.AllowMulti {
		parts = append(parts, "multi")
	}
	if p.WeightedEdges {
		parts = append(parts, "edge-weights")
	}
	if p.WeightedVertices {
		parts = append(parts, "vertex-weights")
	}
	return strings.Join(parts, ",")
}
