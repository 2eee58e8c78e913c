package diagfmt

import (
	"encoding/json"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/manpen/pace26checker/internal/diag"
	"github.com/manpen/pace26checker/internal/source"
)

// LocationJSON представляет местоположение во входном файле
type LocationJSON struct {
	File  string `json:"file" msgpack:"file"`
	Line  uint32 `json:"line,omitempty" msgpack:"line,omitempty"`
	Field uint16 `json:"field,omitempty" msgpack:"field,omitempty"`
}

// NoteJSON представляет дополнительную заметку
type NoteJSON struct {
	Message  string       `json:"message" msgpack:"message"`
	Location LocationJSON `json:"location" msgpack:"location"`
}

// DiagnosticJSON представляет диагностику в машинном формате
type DiagnosticJSON struct {
	Severity string       `json:"severity" msgpack:"severity"`
	Code     string       `json:"code" msgpack:"code"`
	Message  string       `json:"message" msgpack:"message"`
	Location LocationJSON `json:"location" msgpack:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty" msgpack:"notes,omitempty"`
}

// VerdictOutput is the root of json and msgpack output. The optional fields
// are filled by the caller from the check result.
type VerdictOutput struct {
	OK          bool             `json:"ok" msgpack:"ok"`
	Diagnostics []DiagnosticJSON `json:"diagnostics" msgpack:"diagnostics"`
	Count       int              `json:"count" msgpack:"count"`
	Dropped     int              `json:"dropped,omitempty" msgpack:"dropped,omitempty"`

	Objective      *int64 `json:"objective,omitempty" msgpack:"objective,omitempty"`
	InstanceDigest string `json:"instance_digest,omitempty" msgpack:"instance_digest,omitempty"`
	SolutionDigest string `json:"solution_digest,omitempty" msgpack:"solution_digest,omitempty"`
}

func makeLocation(span source.Span, fs *source.FileSet, mode PathMode) LocationJSON {
	loc := LocationJSON{Line: span.Line, Field: span.Field}
	if fs != nil && fs.Has(span.File) {
		loc.File = formatPath(fs, span, mode)
	}
	return loc
}

// BuildVerdictOutput формирует структуру вывода без сериализации.
func BuildVerdictOutput(v diag.Verdict, fs *source.FileSet, opts JSONOpts) VerdictOutput {
	out := VerdictOutput{
		OK:          v.OK,
		Diagnostics: make([]DiagnosticJSON, 0, len(v.Diagnostics)),
		Count:       len(v.Diagnostics),
		Dropped:     v.Dropped,
	}
	for _, d := range v.Diagnostics {
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: makeLocation(d.Primary, fs, opts.PathMode),
		}
		// timing payload is the point of OBS6001, so it is always included
		includeNotes := opts.IncludeNotes || d.Code == diag.ObsTimings
		if includeNotes && len(d.Notes) > 0 {
			dj.Notes = make([]NoteJSON, len(d.Notes))
			for j, n := range d.Notes {
				dj.Notes[j] = NoteJSON{
					Message:  n.Msg,
					Location: makeLocation(n.Span, fs, opts.PathMode),
				}
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	return out
}

// JSON writes out as a single JSON document.
func JSON(w io.Writer, out VerdictOutput, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}

// MsgPack writes out as one msgpack value.
func MsgPack(w io.Writer, out VerdictOutput) error {
	enc := msgpack.NewEncoder(w)
	enc.UseCompactInts(true)
	return enc.Encode(out)
}
