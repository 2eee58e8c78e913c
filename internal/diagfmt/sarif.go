package diagfmt

import (
	"encoding/json"
	"io"
	"path/filepath"
	"slices"

	"github.com/manpen/pace26checker/internal/diag"
	"github.com/manpen/pace26checker/internal/source"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID           string          `json:"ruleId"`
	Level            string          `json:"level"`
	Message          sarifMessage    `json:"message"`
	Locations        []sarifLocation `json:"locations,omitempty"`
	RelatedLocations []sarifLocation `json:"relatedLocations,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
	Message          *sarifMessage `json:"message,omitempty"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           *sarifRegion  `json:"region,omitempty"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

// sarifRegion: поле токена отображается в колонку, иначе вся строка
type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint16 `json:"startColumn,omitempty"`
}

func sarifLevel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

func sarifLoc(fs *source.FileSet, span source.Span) (sarifLocation, bool) {
	if fs == nil || !fs.Has(span.File) {
		return sarifLocation{}, false
	}
	f := fs.Get(span.File)
	loc := sarifLocation{PhysicalLocation: sarifPhysical{
		ArtifactLocation: sarifArtifact{URI: filepath.ToSlash(f.FormatPath("relative", fs.BaseDir()))},
	}}
	if span.Line > 0 {
		loc.PhysicalLocation.Region = &sarifRegion{StartLine: span.Line, StartColumn: span.Field}
	}
	return loc, true
}

// Sarif форматирует вердикт в SARIF (v2.1.0). Каждый использованный код
// становится правилом, порядок правил стабилен.
func Sarif(w io.Writer, v diag.Verdict, fs *source.FileSet, meta SarifRunMeta) error {
	var codes []diag.Code
	results := make([]sarifResult, 0, len(v.Diagnostics))
	for _, d := range v.Diagnostics {
		if !slices.Contains(codes, d.Code) {
			codes = append(codes, d.Code)
		}
		r := sarifResult{
			RuleID:  d.Code.ID(),
			Level:   sarifLevel(d.Severity),
			Message: sarifMessage{Text: diag.SanitizeMessage(d.Message)},
		}
		if loc, ok := sarifLoc(fs, d.Primary); ok {
			r.Locations = []sarifLocation{loc}
		}
		if d.Code != diag.ObsTimings {
			for _, n := range d.Notes {
				if loc, ok := sarifLoc(fs, n.Span); ok {
					loc.Message = &sarifMessage{Text: diag.SanitizeMessage(n.Msg)}
					r.RelatedLocations = append(r.RelatedLocations, loc)
				}
			}
		}
		results = append(results, r)
	}
	slices.Sort(codes)

	rules := make([]sarifRule, len(codes))
	for i, c := range codes {
		rules[i] = sarifRule{ID: c.ID(), ShortDescription: sarifMessage{Text: c.Title()}}
	}

	name := meta.ToolName
	if name == "" {
		name = "pace26check"
	}
	log := sarifLog{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{Name: name, Version: meta.ToolVersion, Rules: rules}},
			Invocations: []sarifInvocation{{
				Arguments:           meta.InvocationArgs,
				ExecutionSuccessful: true,
			}},
			Results: results,
		}},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}
