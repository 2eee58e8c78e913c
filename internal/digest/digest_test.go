package digest

import (
	"crypto/sha256"
	"strings"
	"testing"

	"github.com/manpen/pace26checker/internal/diag"
	"github.com/manpen/pace26checker/internal/instance"
	"github.com/manpen/pace26checker/internal/solution"
	"github.com/manpen/pace26checker/internal/tree"
)

func parseInstance(t *testing.T, text string) *instance.Instance {
	t.Helper()
	bag := diag.NewBag(0)
	inst, err := instance.Parse(strings.NewReader(text), instance.Options{}, diag.BagReporter{Bag: bag})
	if err != nil || inst == nil {
		t.Fatalf("instance: %v %+v", err, bag.Items())
	}
	return inst
}

func parseSolution(t *testing.T, inst *instance.Instance, text string) *solution.Solution {
	t.Helper()
	bag := diag.NewBag(0)
	sol, err := solution.Parse(strings.NewReader(text), inst, solution.Options{File: 1}, diag.BagReporter{Bag: bag})
	if err != nil || sol == nil {
		t.Fatalf("solution: %v %+v", err, bag.Items())
	}
	return sol
}

func TestTreeSumNormalizes(t *testing.T) {
	tr, err := tree.ParseNewick("((3,4),(2,1));")
	if err != nil {
		t.Fatal(err)
	}
	got := treeSum(tr)
	want := sha256.Sum256([]byte("((1,2),(3,4));"))
	if got != want {
		t.Fatalf("treeSum = %x, want %x", got, want)
	}
	if tree.NewickString(tr, tr.Root) != "((3,4),(2,1));" {
		t.Fatalf("input tree was modified: %s", tr)
	}
	if got[0] != 0x5a || got[1] != 0xec || got[2] != 0xb1 {
		t.Fatalf("unexpected prefix %x", got[:3])
	}
}

func TestInstanceInvariance(t *testing.T) {
	variants := []string{
		"#p 2 4\n((3,4),(2,1));\n(1,(2,(3,4)));\n",
		"#p 2 4\n((4,3),(1,2));\n(1,(2,(4,3)));\n",
		"#p 2 4\n(1,(2,(3,4)));\n((3,4),(2,1));\n",
		"#p 2 4\n# comment\n(1,(2,(4,3)));\n((4,3),(1,2));\n",
	}
	var first Digest
	for i, text := range variants {
		d := Instance(parseInstance(t, text))
		if i == 0 {
			first = d
			continue
		}
		if d != first {
			t.Errorf("variant %d: %s != %s", i, d, first)
		}
	}
	other := Instance(parseInstance(t, "#p 2 4\n((1,3),(2,4));\n(1,(2,(3,4)));\n"))
	if other == first {
		t.Errorf("different instances share digest %s", first)
	}
}

func TestInstancePrefix(t *testing.T) {
	tests := []struct {
		trees, leaves int
		want          byte
	}{
		{2, 4, 0x00},
		{4, 16, 0x11},
		{8, 1 << 10, 0x27},
		{1 << 20, 1 << 30, 0xff},
		{0, 0, 0x00},
	}
	for _, tt := range tests {
		got := scale(tt.trees, 1)<<4 | scale(tt.leaves, 3)
		if got != tt.want {
			t.Errorf("scale(%d,%d) = %#x, want %#x", tt.trees, tt.leaves, got, tt.want)
		}
	}
}

func TestGraphInvariance(t *testing.T) {
	a := Instance(parseInstance(t, "p vc 4 3 k=2\n1 2\n2 3\n3 4\n"))
	b := Instance(parseInstance(t, "p vc 4 3 k=2\nc shuffled\n4 3\n2 1\n3 2\n"))
	if a != b {
		t.Fatalf("edge order changed digest: %s vs %s", a, b)
	}
	c := Instance(parseInstance(t, "p vc 4 3 k=3\n1 2\n2 3\n3 4\n"))
	if a == c {
		t.Fatalf("bound not part of digest")
	}
	d := Instance(parseInstance(t, "p ds 4 3 k=2\n1 2\n2 3\n3 4\n"))
	if a == d {
		t.Fatalf("track not part of digest")
	}

	// direction matters on directed tracks
	x := Instance(parseInstance(t, "p fvs 2 1\n1 2\n"))
	y := Instance(parseInstance(t, "p fvs 2 1\n2 1\n"))
	if x == y {
		t.Fatalf("directed edges were canonicalised")
	}
}

func TestSolutionDigest(t *testing.T) {
	inst := parseInstance(t, "#p 2 9\n(((1,2),(3,4)),((5,(6,(7,8))),9));\n(((1,2),(3,4)),((5,(6,(7,8))),9));\n")
	variants := []string{
		"((3,4),(2,1));\n(5,(6,(7,8)));\n9;\n",
		"((3,4),(1,2));\n9;\n(5,(6,(8,7)));\n",
		"((3,4),(2,1));\n(5,(6,(8,7)));\n",
	}
	var first Digest
	for i, text := range variants {
		d := Solution(inst, parseSolution(t, inst, text), 3)
		if Score(d) != 3 {
			t.Fatalf("score prefix = %d", Score(d))
		}
		if i == 0 {
			first = d
			continue
		}
		if d != first {
			t.Errorf("variant %d: %s != %s", i, d, first)
		}
	}
	if s := first.String(); len(s) != HexDigits || !strings.HasPrefix(s, "0003") {
		t.Fatalf("String() = %q", s)
	}

	if Score(Solution(inst, parseSolution(t, inst, "9;\n"), 1<<20)) != 0xffff {
		t.Errorf("score not clamped")
	}
}

func TestVertexSolutionDigest(t *testing.T) {
	vc := parseInstance(t, "p vc 4 3\n1 2\n2 3\n3 4\n")
	a := Solution(vc, parseSolution(t, vc, "2\n3\n"), 2)
	b := Solution(vc, parseSolution(t, vc, "3\n2\n"), 2)
	if a != b {
		t.Fatalf("set order changed digest")
	}

	ocm := parseInstance(t, "p ocm 4 2 a=2\n1 3\n2 4\n")
	x := Solution(ocm, parseSolution(t, ocm, "3\n4\n"), 0)
	y := Solution(ocm, parseSolution(t, ocm, "4\n3\n"), 1)
	if x == y || x.String()[4:] == y.String()[4:] {
		t.Fatalf("ordering digests must depend on the order")
	}
}

func TestParse(t *testing.T) {
	d := Trees(nil, 4)
	back, err := Parse(strings.ToUpper(d.String()))
	if err != nil || back != d {
		t.Fatalf("Parse(%s) = %s, %v", d, back, err)
	}
	for _, bad := range []string{"", "0123", strings.Repeat("z", HexDigits)} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q) succeeded", bad)
		}
	}
	text, _ := d.MarshalText()
	var u Digest
	if err := u.UnmarshalText(text); err != nil || u != d {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if !(Digest{}).IsZero() {
		t.Fatalf("zero digest not reported as zero")
	}
}
