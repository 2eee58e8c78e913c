package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/manpen/pace26checker/internal/diag"
	"github.com/manpen/pace26checker/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	inst := fs.AddVirtual("path.in")
	sol := fs.AddVirtual("path.out")
	out := BuildVerdictOutput(sampleVerdict(fs, inst, sol), fs, JSONOpts{IncludeNotes: true})
	objective := int64(2)
	out.Objective = &objective

	var buf bytes.Buffer
	if err := JSON(&buf, out, true); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var back VerdictOutput
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}
	if back.OK || back.Count != 3 || len(back.Diagnostics) != 3 {
		t.Fatalf("output = %+v", back)
	}
	d := back.Diagnostics[1]
	if d.Severity != "ERROR" || d.Code != "VER5002" || d.Location != (LocationJSON{File: "path.out", Line: 3}) {
		t.Errorf("diagnostic = %+v", d)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.Line != 1 {
		t.Errorf("notes = %+v", d.Notes)
	}
	if back.Objective == nil || *back.Objective != 2 {
		t.Errorf("objective = %v", back.Objective)
	}
	if !strings.Contains(buf.String(), `"field": 5`) {
		t.Errorf("field of the bound warning missing:\n%s", buf.String())
	}
}

// TestJSONNotesOptIn: заметки выводятся только по запросу, кроме OBS6001
func TestJSONNotesOptIn(t *testing.T) {
	fs := source.NewFileSet()
	inst := fs.AddVirtual("a.in")
	v := sampleVerdict(fs, inst, inst)
	v.Diagnostics = append(v.Diagnostics, diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.ObsTimings,
		Message:  "timings",
		Notes:    []diag.Note{{Msg: `{"kind":"verify"}`}},
	})

	out := BuildVerdictOutput(v, fs, JSONOpts{})
	for _, d := range out.Diagnostics {
		switch d.Code {
		case "OBS6001":
			if len(d.Notes) != 1 {
				t.Errorf("timing payload dropped")
			}
		default:
			if len(d.Notes) != 0 {
				t.Errorf("%s: notes not requested but present", d.Code)
			}
		}
	}
}

func TestJSONIdempotent(t *testing.T) {
	fs := source.NewFileSet()
	inst := fs.AddVirtual("a.in")
	v := sampleVerdict(fs, inst, inst)

	var first, second bytes.Buffer
	if err := JSON(&first, BuildVerdictOutput(v, fs, JSONOpts{}), false); err != nil {
		t.Fatal(err)
	}
	if err := JSON(&second, BuildVerdictOutput(v, fs, JSONOpts{}), false); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatalf("outputs differ")
	}
}

func TestMsgPack(t *testing.T) {
	fs := source.NewFileSet()
	inst := fs.AddVirtual("a.in")
	out := BuildVerdictOutput(sampleVerdict(fs, inst, inst), fs, JSONOpts{})
	out.InstanceDigest = "13000000000000000000000000000000"

	var buf bytes.Buffer
	if err := MsgPack(&buf, out); err != nil {
		t.Fatal(err)
	}
	var back VerdictOutput
	if err := msgpack.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatal(err)
	}
	if back.Count != out.Count || back.InstanceDigest != out.InstanceDigest || back.Diagnostics[2].Message != "edge 3 4 is not covered" {
		t.Fatalf("decoded %+v", back)
	}
}

func TestSarif(t *testing.T) {
	fs := source.NewFileSetWithBase("/data")
	inst := fs.Add("/data/a.in", 0)
	sol := fs.Add("/data/a.out", 0)

	var buf bytes.Buffer
	if err := Sarif(&buf, sampleVerdict(fs, inst, sol), fs, SarifRunMeta{ToolVersion: "0.4.0"}); err != nil {
		t.Fatal(err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("log = %+v", log)
	}
	run := log.Runs[0]
	var rules []string
	for _, r := range run.Tool.Driver.Rules {
		rules = append(rules, r.ID)
	}
	if strings.Join(rules, ",") != "LNT3008,VER5002,VER5003" {
		t.Errorf("rules = %v", rules)
	}
	if len(run.Results) != 3 || run.Results[0].Level != "warning" {
		t.Fatalf("results = %+v", run.Results)
	}
	loc := run.Results[0].Locations[0].PhysicalLocation
	if loc.ArtifactLocation.URI != "a.in" || loc.Region.StartLine != 1 || loc.Region.StartColumn != 5 {
		t.Errorf("location = %+v", loc)
	}
	if len(run.Results[1].RelatedLocations) != 1 {
		t.Errorf("note location missing")
	}
}

func TestSummary(t *testing.T) {
	rows := []SummaryRow{
		{Name: "a.in", OK: true, Objective: 1234567, HasObjective: true, Elapsed: time.Millisecond},
		{Name: "b.in", Errors: 2, Elapsed: time.Millisecond},
		{Name: "c.in", Failed: true},
	}
	var buf bytes.Buffer
	if err := Summary(&buf, rows, SummaryOpts{Rows: true}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"ok       a.in  objective 1,234,567\n",
		"rejected b.in  (2 errors, 0 warnings)\n",
		"failed   c.in\n",
		"3 checked: 1 ok, 1 rejected, 1 failed in 2.0 ms\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}
