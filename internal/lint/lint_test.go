package lint

import (
	"slices"
	"strings"
	"testing"

	"github.com/manpen/pace26checker/internal/diag"
	"github.com/manpen/pace26checker/internal/instance"
	"github.com/manpen/pace26checker/internal/source"
	"github.com/manpen/pace26checker/internal/track"
)

func strictRegistry(t *testing.T) *track.Registry {
	t.Helper()
	yes, two := true, 2
	reg := track.Default()
	err := reg.Apply([]track.Override{{
		Name: "strict", Base: "vc",
		NoIsolated: &yes, MinDegree: &two, Connected: &yes,
	}})
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func parse(t *testing.T, reg *track.Registry, text string) *instance.Instance {
	t.Helper()
	bag := diag.NewBag(0)
	inst, err := instance.Parse(strings.NewReader(text), instance.Options{Registry: reg, File: 1}, diag.BagReporter{Bag: bag})
	if err != nil || inst == nil {
		t.Fatalf("Parse(%q): %v %+v", text, err, bag.Items())
	}
	return inst
}

func lint(inst *instance.Instance) []diag.Diagnostic {
	bag := diag.NewBag(0)
	Run(inst, diag.BagReporter{Bag: bag})
	return bag.Items()
}

func codes(ds []diag.Diagnostic) []diag.Code {
	out := make([]diag.Code, len(ds))
	for i, d := range ds {
		out[i] = d.Code
	}
	return out
}

func TestCleanInstances(t *testing.T) {
	inputs := []string{
		"p vc 4 3\n1 2\n2 3\n3 4\n",
		"p fvs 2 3\n1 2\n2 1\n1 1\n",
		"p ocm 4 3 a=2\n1 3\n1 4\n2 3\n",
		"#p 2 3\n((1,2),3);\n(1,(3,2));\n",
	}
	for _, in := range inputs {
		if ds := lint(parse(t, nil, in)); len(ds) != 0 {
			t.Errorf("%q: unexpected findings %v", in, codes(ds))
		}
	}
}

func TestExhaustiveGraphFindings(t *testing.T) {
	inst := parse(t, nil, "p vc 4 5\n1 1\n2 2\n1 2\n2 1\n3 4\n")
	ds := lint(inst)
	want := []diag.Code{diag.LntSelfLoop, diag.LntSelfLoop, diag.LntDuplicateEdge}
	if !slices.Equal(codes(ds), want) {
		t.Fatalf("codes = %v, want %v", codes(ds), want)
	}
	if ds[0].Primary != source.LineSpan(1, 2) || ds[1].Primary != source.LineSpan(1, 3) {
		t.Errorf("loop spans = %s, %s", ds[0].Primary, ds[1].Primary)
	}
	dup := ds[2]
	if dup.Primary != source.LineSpan(1, 5) || len(dup.Notes) != 1 || dup.Notes[0].Span != source.LineSpan(1, 4) {
		t.Errorf("duplicate edge = %+v", dup)
	}
}

func TestDirectedEdgesKeepOrientation(t *testing.T) {
	ds := lint(parse(t, nil, "p fvs 2 3\n1 2\n2 1\n1 2\n"))
	if !slices.Equal(codes(ds), []diag.Code{diag.LntDuplicateEdge}) {
		t.Fatalf("codes = %v", codes(ds))
	}
	if ds[0].Primary.Line != 4 {
		t.Errorf("duplicate reported at line %d", ds[0].Primary.Line)
	}
}

func TestTrackRules(t *testing.T) {
	inst := parse(t, strictRegistry(t), "p strict 5 2\n1 2\n3 4\n")
	ds := lint(inst)
	var isolated, degree, disconnected int
	for _, d := range ds {
		switch d.Code {
		case diag.LntIsolatedVertex:
			isolated++
		case diag.LntMinDegree:
			degree++
		case diag.LntDisconnected:
			disconnected++
		default:
			t.Errorf("unexpected %s", d.Code.ID())
		}
	}
	if isolated != 1 || degree != 5 || disconnected != 2 {
		t.Fatalf("isolated=%d degree=%d disconnected=%d", isolated, degree, disconnected)
	}
	if len(ds) != 8 {
		t.Fatalf("want 8 findings, got %d", len(ds))
	}
}

func TestBipartite(t *testing.T) {
	ds := lint(parse(t, nil, "p ocm 4 3 a=2\n1 3\n1 2\n3 4\n"))
	if !slices.Equal(codes(ds), []diag.Code{diag.LntNotBipartite, diag.LntNotBipartite}) {
		t.Fatalf("codes = %v", codes(ds))
	}
	if ds[0].Primary.Line != 3 || ds[1].Primary.Line != 4 {
		t.Errorf("lines = %d, %d", ds[0].Primary.Line, ds[1].Primary.Line)
	}
}

func TestWeightsAndBound(t *testing.T) {
	ds := lint(parse(t, nil, "p wvc 2 1\nv 1 -3\n1 2\n"))
	if len(ds) != 1 || ds[0].Code != diag.LntNegativeWeight || ds[0].Primary != source.FieldSpan(1, 2, 3) {
		t.Fatalf("negative weight: %+v", ds)
	}

	ds = lint(parse(t, nil, "p vc 2 1 k=5\n1 2\n"))
	if len(ds) != 1 || ds[0].Code != diag.LntBoundExceedsN || ds[0].IsError() {
		t.Fatalf("bound: %+v", ds)
	}
	if ds[0].Primary != source.FieldSpan(1, 1, 5) {
		t.Errorf("bound span = %s", ds[0].Primary)
	}
}

func TestHeaderCountsAreStructural(t *testing.T) {
	tests := []struct {
		name string
		text string
		want diag.Code
	}{
		{"too few edges", "p vc 3 2\n1 2\n", diag.ParEdgeCountMismatch},
		{"too many edges", "p vc 3 1\n1 2\n2 3\n", diag.ParEdgeCountMismatch},
		{"too few trees", "#p 2 3\n((1,2),3);\n", diag.ParTreeCountMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bag := diag.NewBag(0)
			inst, err := instance.Parse(strings.NewReader(tt.text), instance.Options{File: 1}, diag.BagReporter{Bag: bag})
			if err != nil {
				t.Fatal(err)
			}
			if inst != nil {
				t.Fatalf("count mismatch must fail the parse, lint saw: %v", codes(lint(inst)))
			}
			if got := codes(bag.Items()); !slices.Equal(got, []diag.Code{tt.want}) {
				t.Fatalf("codes = %v, want [%v]", got, tt.want)
			}
		})
	}
}

func TestLeafLabels(t *testing.T) {
	ds := lint(parse(t, nil, "#p 2 3\n((1,2),3);\n((1,1),(4,2));\n"))
	want := []diag.Code{diag.LntLeafLabel, diag.LntDuplicateLabel, diag.LntTooManyLeaves}
	if !slices.Equal(codes(ds), want) {
		t.Fatalf("codes = %v, want %v", codes(ds), want)
	}
	for _, d := range ds {
		if d.Primary != source.LineSpan(1, 3) {
			t.Errorf("%s at %s, want line 3", d.Code.ID(), d.Primary)
		}
	}

	ds = lint(parse(t, nil, "#p 1 3\n(1,2);\n"))
	if !slices.Equal(codes(ds), []diag.Code{diag.LntTooFewLeaves}) {
		t.Fatalf("codes = %v", codes(ds))
	}
}

func TestDeterministic(t *testing.T) {
	inst := parse(t, strictRegistry(t), "p strict 6 4\n1 1\n2 3\n3 2\n5 6\n")
	first := lint(inst)
	for range 5 {
		if again := lint(inst); !slices.EqualFunc(first, again, func(a, b diag.Diagnostic) bool {
			return a.Code == b.Code && a.Primary == b.Primary && a.Message == b.Message
		}) {
			t.Fatalf("lint is not deterministic")
		}
	}
}
