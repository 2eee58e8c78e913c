package diag

import (
	"testing"

	"github.com/manpen/pace26checker/internal/source"
)

func TestBagLimitKeepsErrorState(t *testing.T) {
	bag := NewBag(1)
	if !bag.Add(NewWarning(ParExtraWhitespace, source.LineSpan(0, 1), "extra whitespace")) {
		t.Fatal("first diagnostic must fit")
	}
	if bag.Add(NewError(VerEdgeUncovered, source.LineSpan(0, 2), "edge (1,2) is not covered")) {
		t.Fatal("second diagnostic must be dropped")
	}
	if bag.Len() != 1 || bag.Dropped() != 1 {
		t.Fatalf("Len=%d Dropped=%d, want 1/1", bag.Len(), bag.Dropped())
	}
	if !bag.HasErrors() {
		t.Fatal("dropped error must still fail the bag")
	}
}

func TestBagUnlimited(t *testing.T) {
	bag := NewBag(0)
	for i := 0; i < 1000; i++ {
		bag.Add(NewError(LntSelfLoop, source.LineSpan(0, uint32(i+1)), "self-loop"))
	}
	if bag.Len() != 1000 {
		t.Fatalf("Len() = %d, want 1000", bag.Len())
	}
}

func TestBagSort(t *testing.T) {
	bag := NewBag(0)
	bag.Add(NewWarning(ParExtraWhitespace, source.LineSpan(0, 3), "c"))
	bag.Add(NewError(LntSelfLoop, source.LineSpan(0, 3), "b"))
	bag.Add(NewError(LntDuplicateEdge, source.LineSpan(0, 1), "a"))
	bag.Sort()

	got := []Code{bag.Items()[0].Code, bag.Items()[1].Code, bag.Items()[2].Code}
	want := []Code{LntDuplicateEdge, LntSelfLoop, ParExtraWhitespace}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestVerdictPreservesStageOrder(t *testing.T) {
	lint := NewBag(0)
	lint.Add(NewError(LntSelfLoop, source.LineSpan(0, 9), "self-loop"))
	verify := NewBag(0)
	verify.Add(NewError(VerEdgeUncovered, source.LineSpan(0, 2), "uncovered"))
	verify.Add(NewError(VerObjectiveMismatch, source.LineSpan(1, 1), "mismatch"))

	v := NewVerdict(lint, nil, verify)
	if v.OK {
		t.Fatal("verdict with errors must not be ok")
	}
	want := []Code{LntSelfLoop, VerEdgeUncovered, VerObjectiveMismatch}
	got := v.Codes()
	if len(got) != len(want) {
		t.Fatalf("codes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("codes = %v, want %v", got, want)
		}
	}
	if v.Errors() != 3 || v.Warnings() != 0 {
		t.Errorf("Errors=%d Warnings=%d", v.Errors(), v.Warnings())
	}
}

func TestVerdictWarningsDoNotBlock(t *testing.T) {
	bag := NewBag(0)
	bag.Add(NewWarning(ParExtraWhitespace, source.LineSpan(0, 1), "extra whitespace"))
	v := NewVerdict(bag)
	if !v.OK {
		t.Fatal("warnings must not block acceptance")
	}
	if !v.Has(ParExtraWhitespace) || v.Has(LntSelfLoop) {
		t.Fatal("Has() is wrong")
	}
}

func TestPromoteReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewPromoteReporter(BagReporter{Bag: bag})
	ReportWarning(r, ParExtraWhitespace, source.LineSpan(0, 1), "extra whitespace").Emit()
	ReportError(r, LntSelfLoop, source.LineSpan(0, 2), "self-loop").Emit()

	for _, d := range bag.Items() {
		if d.Severity != SevError {
			t.Fatalf("%s has severity %s, want ERROR", d.Code.ID(), d.Severity)
		}
	}
}

func TestSeverityParanoid(t *testing.T) {
	tests := []struct {
		in, want Severity
		rejects  bool
	}{
		{SevInfo, SevInfo, false},
		{SevWarning, SevError, false},
		{SevError, SevError, true},
	}
	for _, tt := range tests {
		if got := tt.in.Paranoid(); got != tt.want {
			t.Errorf("%s.Paranoid() = %s, want %s", tt.in, got, tt.want)
		}
		if got := tt.in.Rejects(); got != tt.rejects {
			t.Errorf("%s.Rejects() = %v", tt.in, got)
		}
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	counter := NewCountingReporter(BagReporter{Bag: bag})
	b := ReportError(counter, LntDuplicateEdge, source.LineSpan(0, 4), "duplicate edge (1,2)").
		WithNote(source.LineSpan(0, 2), "first occurrence")
	b.Emit()
	b.Emit()

	if bag.Len() != 1 || counter.Total() != 1 || counter.Errors() != 1 {
		t.Fatalf("Len=%d Total=%d Errors=%d", bag.Len(), counter.Total(), counter.Errors())
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Fatal("note was lost")
	}
}

func TestCodeIDs(t *testing.T) {
	tests := map[Code]string{
		IOReadError:          "IO1001",
		ParNotInteger:        "PAR2008",
		LntSelfLoop:          "LNT3001",
		SolVertexOutOfRange:  "SOL4002",
		VerObjectiveMismatch: "VER5101",
		Code(9999):           "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("Code(%d).ID() = %q, want %q", code, got, want)
		}
	}
	for _, c := range Codes() {
		if c.Title() == codeDescription[UnknownCode] {
			t.Errorf("%s has no description", c.ID())
		}
	}
}

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSetWithBase("/workspace")
	inst := fs.Add("/workspace/tests/path.gr", 0)
	sol := fs.Add("/workspace/tests/path.sol", 0)

	diags := []Diagnostic{
		NewError(VerEdgeUncovered, source.LineSpan(inst, 4), "edge (3,4)\nis not covered"),
		NewError(LntDuplicateEdge, source.LineSpan(inst, 3), "duplicate edge (1,2)").
			WithNote(source.LineSpan(inst, 2), "first occurrence"),
		NewError(SolVertexOutOfRange, source.FieldSpan(sol, 2, 1), "vertex 9 outside [1,4]"),
	}

	expected := "note LNT3002 tests/path.gr:2 first occurrence\n" +
		"error LNT3002 tests/path.gr:3 duplicate edge (1,2)\n" +
		"error VER5003 tests/path.gr:4 edge (3,4) is not covered\n" +
		"error SOL4002 tests/path.sol:2:1 vertex 9 outside [1,4]"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}

	short := FormatShortDiagnostics(diags, fs, false)
	wantShort := "error VER5003 tests/path.gr:4 edge (3,4) is not covered\n" +
		"error LNT3002 tests/path.gr:3 duplicate edge (1,2)\n" +
		"error SOL4002 tests/path.sol:2:1 vertex 9 outside [1,4]"
	if short != wantShort {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", wantShort, short)
	}
}
