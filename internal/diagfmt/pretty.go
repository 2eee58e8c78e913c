package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/manpen/pace26checker/internal/diag"
	"github.com/manpen/pace26checker/internal/source"
)

type palette struct {
	err, warn, info, note, loc, code *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		info: color.New(color.FgCyan),
		note: color.New(color.FgBlue),
		loc:  color.New(color.Bold),
		code: color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.loc, p.code} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует вердикт в человекочитаемый вид. Для каждой диагностики:
//
//	<path>:<line>:<field>: ERROR VER5003: <message>
//	  note: <path>:<line>: <message>
//
// Исходный текст не хранится, поэтому контекст строки не печатается.
func Pretty(w io.Writer, v diag.Verdict, fs *source.FileSet, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	for _, d := range v.Diagnostics {
		loc := location(fs, d.Primary, opts.PathMode)
		if _, err := fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.loc.Sprint(loc),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			diag.SanitizeMessage(d.Message)); err != nil {
			return err
		}
		if !opts.ShowNotes || d.Code == diag.ObsTimings {
			continue
		}
		for _, n := range d.Notes {
			if _, err := fmt.Fprintf(w, "  %s %s: %s\n",
				p.note.Sprint("note:"),
				location(fs, n.Span, opts.PathMode),
				diag.SanitizeMessage(n.Msg)); err != nil {
				return err
			}
		}
	}
	if v.Dropped > 0 {
		if _, err := fmt.Fprintf(w, "... %d more diagnostics not shown\n", v.Dropped); err != nil {
			return err
		}
	}
	if opts.Footer {
		return footer(w, v, p)
	}
	return nil
}

func footer(w io.Writer, v diag.Verdict, p palette) error {
	errs, warns := v.Errors(), v.Warnings()
	if v.OK {
		_, err := fmt.Fprintf(w, "%s (%s)\n", p.loc.Sprint("accepted"), plural(warns, "warning"))
		return err
	}
	_, err := fmt.Fprintf(w, "%s (%s, %s)\n", p.err.Sprint("rejected"), plural(errs, "error"), plural(warns, "warning"))
	return err
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func location(fs *source.FileSet, span source.Span, mode PathMode) string {
	if fs == nil || !fs.Has(span.File) {
		return "-"
	}
	return diag.FormatLocation(formatPath(fs, span, mode), span.Line, span.Field)
}

// Short prints one line per diagnostic in emission order, see
// diag.FormatShortDiagnostics.
func Short(w io.Writer, v diag.Verdict, fs *source.FileSet, includeNotes bool) error {
	out := diag.FormatShortDiagnostics(v.Diagnostics, fs, includeNotes)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}
