package diag

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/manpen/pace26checker/internal/source"
)

type goldenDiagnostic struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Field    uint16
	Message  string
}

// FormatGoldenDiagnostics renders diagnostics into a stable, single-line-per-entry
// representation suitable for golden files. Entries are sorted by location.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return formatDiagnostics(diags, fs, includeNotes, true)
}

// FormatShortDiagnostics renders one line per diagnostic in emission order,
// intended for CLI short output:
//
//	error VER5003 path:7 edge (3,4) is not covered
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return formatDiagnostics(diags, fs, includeNotes, false)
}

func formatDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes, sorted bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	rendered := make([]goldenDiagnostic, 0, len(diags))
	for i := range diags {
		rendered = appendDiagnostic(rendered, &diags[i], fs, includeNotes)
	}

	if sorted {
		sort.SliceStable(rendered, func(i, j int) bool {
			di, dj := rendered[i], rendered[j]
			if di.Path != dj.Path {
				return di.Path < dj.Path
			}
			if di.Line != dj.Line {
				return di.Line < dj.Line
			}
			if di.Field != dj.Field {
				return di.Field < dj.Field
			}
			if di.Severity != dj.Severity {
				return di.Severity < dj.Severity
			}
			if di.Code != dj.Code {
				return di.Code < dj.Code
			}
			return di.Message < dj.Message
		})
	}

	var b strings.Builder
	for i, d := range rendered {
		fmt.Fprintf(&b, "%s %s %s %s", d.Severity, d.Code, FormatLocation(d.Path, d.Line, d.Field), d.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// FormatLocation renders path[:line[:field]].
func FormatLocation(path string, line uint32, field uint16) string {
	switch {
	case line == 0:
		return path
	case field == 0:
		return fmt.Sprintf("%s:%d", path, line)
	default:
		return fmt.Sprintf("%s:%d:%d", path, line, field)
	}
}

func appendDiagnostic(out []goldenDiagnostic, d *Diagnostic, fs *source.FileSet, includeNotes bool) []goldenDiagnostic {
	out = append(out, goldenDiagnostic{
		Severity: SeverityLabel(d.Severity),
		Code:     d.Code.ID(),
		Path:     resolvePath(fs, d.Primary),
		Line:     d.Primary.Line,
		Field:    d.Primary.Field,
		Message:  SanitizeMessage(d.Message),
	})

	if includeNotes {
		for _, note := range d.Notes {
			out = append(out, goldenDiagnostic{
				Severity: "note",
				Code:     d.Code.ID(),
				Path:     resolvePath(fs, note.Span),
				Line:     note.Span.Line,
				Field:    note.Span.Field,
				Message:  SanitizeMessage(note.Msg),
			})
		}
	}

	return out
}

func resolvePath(fs *source.FileSet, span source.Span) string {
	file := fs.Get(span.File)
	return normalizePath(file.FormatPath("relative", fs.BaseDir()))
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

// SeverityLabel returns the lower-case severity used by line-oriented renderers.
func SeverityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}

// SanitizeMessage folds a message onto a single line.
func SanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
