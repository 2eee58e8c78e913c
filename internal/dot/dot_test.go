package dot

import (
	"strings"
	"testing"

	"github.com/manpen/pace26checker/internal/diag"
	"github.com/manpen/pace26checker/internal/instance"
	"github.com/manpen/pace26checker/internal/solution"
)

func parse(t *testing.T, inst, sol string) (*instance.Instance, *solution.Solution) {
	t.Helper()
	in, err := instance.Parse(strings.NewReader(inst), instance.Options{}, diag.NopReporter{})
	if err != nil || in == nil {
		t.Fatalf("instance %q: %v", inst, err)
	}
	if sol == "" {
		return in, nil
	}
	s, err := solution.Parse(strings.NewReader(sol), in, solution.Options{}, diag.NopReporter{})
	if err != nil || s == nil {
		t.Fatalf("solution %q: %v", sol, err)
	}
	return in, s
}

func TestGraph(t *testing.T) {
	inst, sol := parse(t, "p vc 4 3\n1 2\n2 3\n3 4\n", "2\n")
	out := String(inst, sol, Options{Name: "path-4"})

	for _, want := range []string{
		"graph path_4 {\n",
		`label="vc: n=4 m=3";`,
		`2 [label="2", style=filled, fillcolor="#fdae61"];`,
		"  1 [label=\"1\"];\n",
		"  1 -- 2;\n",
		"  3 -- 4 [style=bold, color=\"#d73027\"];\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "->") {
		t.Errorf("undirected graph rendered with arcs:\n%s", out)
	}
}

func TestGraphWithoutSolution(t *testing.T) {
	inst, _ := parse(t, "p vc 4 3\n1 2\n2 3\n3 4\n", "")
	out := String(inst, nil, Options{})
	if !strings.HasPrefix(out, "graph pace26 {") || strings.Contains(out, "filled") || strings.Contains(out, "bold") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestForest(t *testing.T) {
	inst, sol := parse(t, "#p 2 4\n((1,2),(3,4));\n((1,3),(2,4));\n", "(1,2);\n3;\n4;\n")
	out := String(inst, sol, Options{Palette: []string{"red"}})

	if !strings.HasPrefix(out, "digraph pace26 {") {
		t.Fatalf("header:\n%s", out)
	}
	if strings.Count(out, "subgraph cluster_") != 2 {
		t.Errorf("want one cluster per tree:\n%s", out)
	}
	// leaves 1 and 2 share a component, 3 and 4 are singletons
	if strings.Count(out, `fillcolor="red"`) != 4 {
		t.Errorf("want leaves 1 and 2 filled in both trees:\n%s", out)
	}
	if !strings.Contains(out, `label="3"];`) {
		t.Errorf("singleton leaf should stay unfilled:\n%s", out)
	}
}

func TestSanitizeID(t *testing.T) {
	tests := map[string]string{
		"":         "pace26",
		"a.in":     "a_in",
		"tiny_01":  "tiny_01",
		"x y":      "x_y",
		"путь/1":   "_____1",
	}
	for in, want := range tests {
		if got := sanitizeID(in); got != want {
			t.Errorf("sanitizeID(%q) = %q, want %q", in, got, want)
		}
	}
}
