package track

import "github.com/manpen/pace26checker/internal/graph"

// Tree is the name of the agreement-forest track; its files use the tree grammar.
const Tree = "maf"

var boundParam = Param{Name: BoundParam, Doc: "upper bound on the objective"}

// Builtins returns fresh descriptors of all built-in tracks.
func Builtins() []*Spec {
	return []*Spec{
		{
			Name:     "vc",
			Title:    "vertex cover",
			Version:  1,
			MinVer:   1,
			Instance: GraphInstance,
			Solution: VertexSet,
			Policy:   graph.Policy{},
			Params:   []Param{boundParam},
			Scoring:  Cardinality,
		},
		{
			Name:     "wvc",
			Title:    "weighted vertex cover",
			Version:  1,
			MinVer:   1,
			Instance: GraphInstance,
			Solution: VertexSet,
			Policy:   graph.Policy{WeightedVertices: true},
			Params:   []Param{boundParam},
			Scoring:  VertexWeightSum,
		},
		{
			Name:     "ds",
			Title:    "dominating set",
			Version:  2,
			MinVer:   1,
			Instance: GraphInstance,
			Solution: VertexSet,
			Policy:   graph.Policy{},
			Params:   []Param{boundParam},
			Scoring:  Cardinality,
		},
		{
			Name:     "fvs",
			Title:    "directed feedback vertex set",
			Version:  1,
			MinVer:   1,
			Instance: GraphInstance,
			Solution: VertexSet,
			Policy:   graph.Policy{Directed: true, AllowLoops: true},
			Params:   []Param{boundParam},
			Scoring:  Cardinality,
		},
		{
			Name:     "ocm",
			Title:    "one-sided crossing minimization",
			Version:  1,
			MinVer:   1,
			Instance: GraphInstance,
			Solution: VertexOrdering,
			Policy:   graph.Policy{},
			Rules:    Rules{Bipartite: true},
			Params: []Param{
				{Name: "a", Doc: "size of the fixed side, vertices 1..a", Required: true, AtMostN: true},
				boundParam,
			},
			Scoring: Crossings,
		},
		{
			Name:     Tree,
			Title:    "maximum agreement forest",
			Version:  1,
			MinVer:   1,
			Instance: TreeInstance,
			Solution: Forest,
			Scoring:  TreeCount,
		},
	}
}
