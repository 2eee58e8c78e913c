package fuzztests

import (
	"bytes"
	"testing"

	"github.com/manpen/pace26checker/internal/diag"
	"github.com/manpen/pace26checker/internal/instance"
	"github.com/manpen/pace26checker/internal/solution"
	"github.com/manpen/pace26checker/internal/source"
	"github.com/manpen/pace26checker/internal/tree"
)

// checkParseContract: a nil result comes with exactly one error, a parsed
// input with none.
func checkParseContract(t *testing.T, parsed bool, bag *diag.Bag) {
	t.Helper()
	errs := bag.Count(diag.SevError)
	if !parsed && (errs != 1 || bag.Len() != 1) {
		t.Fatalf("failed parse reported %d diagnostics (%d errors)", bag.Len(), errs)
	}
	if parsed && errs != 0 {
		t.Fatalf("successful parse reported %d errors", errs)
	}
}

func FuzzInstanceParse(f *testing.F) {
	addInstanceSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		fs := source.NewFileSet()
		file := fs.AddVirtual("fuzz.in")

		bag := diag.NewBag(0)
		inst, err := instance.Parse(bytes.NewReader(input), instance.Options{File: file, Files: fs}, diag.BagReporter{Bag: bag})
		if err != nil {
			t.Fatalf("in-memory reader failed: %v", err)
		}
		checkParseContract(t, inst != nil, bag)
		if inst == nil {
			return
		}

		// a parsed instance encodes to an equivalent instance
		var buf bytes.Buffer
		if err := instance.Encode(&buf, inst); err != nil {
			t.Fatalf("encode: %v", err)
		}
		again, err := instance.Parse(bytes.NewReader(buf.Bytes()), instance.Options{}, diag.NopReporter{})
		if err != nil || again == nil {
			t.Fatalf("re-parse of encoded instance failed:\n%s", buf.String())
		}
	})
}

func FuzzSolutionParse(f *testing.F) {
	f.Add([]byte("2\n3\n"))
	f.Add([]byte("s 2\n2\n3\n"))
	f.Add([]byte("2\ns 2\n"))
	f.Add([]byte("5\n"))
	f.Add([]byte("-1\n"))
	f.Add([]byte("c comment\n\n4\n"))

	inst, err := instance.Parse(bytes.NewReader([]byte(builtinSeeds[0])), instance.Options{}, diag.NopReporter{})
	if err != nil || inst == nil {
		f.Fatalf("seed instance: %v", err)
	}
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		bag := diag.NewBag(0)
		sol, err := solution.Parse(bytes.NewReader(input), inst, solution.Options{File: 1}, diag.BagReporter{Bag: bag})
		if err != nil {
			t.Fatalf("in-memory reader failed: %v", err)
		}
		checkParseContract(t, sol != nil, bag)
		if sol == nil {
			return
		}
		for _, e := range sol.Entries {
			if !inst.Graph.Valid(e.V) {
				t.Fatalf("entry %d escaped the id range", e.V)
			}
		}
	})
}

func FuzzNewick(f *testing.F) {
	for _, s := range []string{"((1,2),(3,4));", "(1,(2,3));", "1;", "((1,2),3)", "(,);", "((1,2);"} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, s string) {
		if len(s) > maxFuzzInput {
			s = s[:maxFuzzInput]
		}
		tr, err := tree.ParseNewick(s)
		if err != nil {
			return
		}
		if err := tr.Validate(); err != nil {
			t.Fatalf("parsed tree is invalid: %v", err)
		}
		out := tree.NewickString(tr, tr.Root)
		back, err := tree.ParseNewick(out)
		if err != nil {
			t.Fatalf("re-parse of %q: %v", out, err)
		}
		if again := tree.NewickString(back, back.Root); again != out {
			t.Fatalf("newick round trip: %q -> %q", out, again)
		}
	})
}
