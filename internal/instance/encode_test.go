package instance

import (
	"slices"
	"strings"
	"testing"

	"github.com/manpen/pace26checker/internal/graph"
)

type edgeKey struct{ u, v graph.Vertex }

func edgeSet(g *graph.Graph) []edgeKey {
	out := make([]edgeKey, 0, g.M())
	for _, e := range g.Edges() {
		out = append(out, edgeKey{e.U, e.V})
	}
	slices.SortFunc(out, func(a, b edgeKey) int {
		if a.u != b.u {
			return int(a.u - b.u)
		}
		return int(a.v - b.v)
	})
	return out
}

func TestEncodeRoundTripGraph(t *testing.T) {
	inputs := []string{
		"c comment\np vc 4 3 k=2\n1 2\n2 3\n3 4\n",
		"p wvc 3 2\nv 2 7\n1 2\n2 3\n",
		"p fvs 3 4\n1 2\n2 3\n3 1\n2 2\n",
		"p ocm/1 4 3 k=5 a=2\n1 3\n2 4\n1 4\n",
		"p ds/1 1 0\n",
	}
	for _, in := range inputs {
		first := mustParse(t, in)
		var b strings.Builder
		if err := Encode(&b, first); err != nil {
			t.Fatalf("Encode: %v", err)
		}
		second := mustParse(t, b.String())

		if first.Track.Name != second.Track.Name || first.Header.Version != second.Header.Version {
			t.Errorf("%q: track changed to %s/%d", in, second.Track.Name, second.Header.Version)
		}
		g1, g2 := first.Graph, second.Graph
		if g1.N() != g2.N() || g1.M() != g2.M() {
			t.Fatalf("%q: counts %s vs %s", in, g1, g2)
		}
		if !slices.Equal(edgeSet(g1), edgeSet(g2)) {
			t.Errorf("%q: edge sets differ", in)
		}
		for v := range g1.N() {
			if g1.VertexWeight(graph.Vertex(v)) != g2.VertexWeight(graph.Vertex(v)) {
				t.Errorf("%q: weight of %d differs", in, v+1)
			}
		}
		for _, p := range first.Header.Params {
			q, ok := second.Header.Param(p.Name)
			if !ok || q.Value != p.Value {
				t.Errorf("%q: param %s lost", in, p.Name)
			}
		}
	}
}

func TestEncodeRoundTripTrees(t *testing.T) {
	first := mustParse(t, treeInstance)
	var b strings.Builder
	if err := Encode(&b, first); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "#p 2 5\n#s name \"example\"\n((1,2),((3,4),5));\n(((1,3),2),(4,5));\n"
	if b.String() != want {
		t.Fatalf("Encode =\n%s\nwant\n%s", b.String(), want)
	}
	second := mustParse(t, b.String())
	for i := range first.Trees {
		if first.Trees[i].String() != second.Trees[i].String() {
			t.Errorf("tree %d differs", i)
		}
	}
}
