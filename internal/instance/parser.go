package instance

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/manpen/pace26checker/internal/diag"
	"github.com/manpen/pace26checker/internal/graph"
	"github.com/manpen/pace26checker/internal/source"
	"github.com/manpen/pace26checker/internal/track"
)

// Options configure Parse.
type Options struct {
	// Registry resolves header track names; nil selects track.Default().
	Registry *track.Registry
	File     source.FileID
	// Files, when set, receives the digest and size of the input.
	Files *source.FileSet
	// MaxLine caps the length of one line, 0 selects source.DefaultMaxLineBytes.
	MaxLine int
}

type grammar uint8

const (
	grammarUnknown grammar = iota
	grammarGraph
	grammarTree
)

type parser struct {
	reg  *track.Registry
	file source.FileID
	sc   *source.Scanner

	inst     *Instance
	warnings []diag.Diagnostic
	fatal    *diag.Diagnostic

	// graph grammar
	b *graph.Builder
}

// Parse reads one instance from r.
//
// On a structural defect Parse returns a nil instance and reports exactly one
// error to rep; non-fatal warnings are reported only for instances that parse.
// The error result is reserved for failures of r itself.
func Parse(r io.Reader, opts Options, rep diag.Reporter) (*Instance, error) {
	reg := opts.Registry
	if reg == nil {
		reg = track.Default()
	}
	p := &parser{
		reg:  reg,
		file: opts.File,
		sc:   source.NewScanner(r, opts.File, opts.MaxLine),
		inst: &Instance{File: opts.File},
	}

	g := grammarUnknown
	for !p.failed() && p.sc.Next() {
		line := p.sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if g == grammarUnknown {
			g = sniff(strings.TrimSpace(line))
		}
		switch g {
		case grammarGraph:
			p.graphLine(line)
		case grammarTree:
			p.treeLine(line)
		}
	}
	if err := p.sc.Err(); err != nil {
		if !errors.Is(err, bufio.ErrTooLong) {
			return nil, fmt.Errorf("read instance: %w", err)
		}
		p.fail(diag.IOLineTooLong, source.LineSpan(p.file, p.sc.Line()+1), "line exceeds the maximal line length")
	}
	if opts.Files != nil {
		opts.Files.Complete(opts.File, p.sc)
	}

	if !p.failed() {
		switch g {
		case grammarUnknown:
			p.fail(diag.ParEmptyInput, source.FileSpan(p.file), "instance is empty")
		case grammarGraph:
			p.finishGraph()
		case grammarTree:
			p.finishTree()
		}
	}

	if p.failed() {
		diag.Emit(rep, *p.fatal)
		return nil, nil
	}
	for _, w := range p.warnings {
		diag.Emit(rep, w)
	}
	p.inst.Sum = p.sc.Sum()
	p.inst.Bytes = p.sc.Bytes()
	p.inst.Flags = p.sc.Flags()
	return p.inst, nil
}

// sniff picks the grammar from the first significant line.
func sniff(line string) grammar {
	switch line[0] {
	case '#', '(':
		return grammarTree
	default:
		return grammarGraph
	}
}

func (p *parser) failed() bool {
	return p.fatal != nil
}

// fail records the first structural defect and returns it for decoration;
// later defects are dropped and yield nil.
func (p *parser) fail(code diag.Code, sp source.Span, format string, args ...any) *diag.Diagnostic {
	if p.fatal != nil {
		return nil
	}
	d := diag.NewError(code, sp, fmt.Sprintf(format, args...))
	p.fatal = &d
	return p.fatal
}

func (p *parser) warn(code diag.Code, sp source.Span, format string, args ...any) {
	p.warnings = append(p.warnings, diag.NewWarning(code, sp, fmt.Sprintf(format, args...)))
}

func (p *parser) checkWhitespace(line string) {
	if source.ExtraWhitespace(line) {
		p.warn(diag.ParExtraWhitespace, p.sc.Span(), "line has extra whitespace")
	}
}

// parseInt accepts an optional minus sign followed by decimal digits.
func parseInt(tok string) (int64, error) {
	if tok == "" || tok[0] == '+' {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseInt(tok, 10, 64)
}

// count parses a non-negative header count bounded by limit.
func (p *parser) count(tok string, sp source.Span, what string, limit int64) (int, bool) {
	v, err := parseInt(tok)
	switch {
	case errors.Is(err, strconv.ErrRange):
		p.fail(diag.ParCountOutOfRange, sp, "%s %s is out of range", what, tok)
		return 0, false
	case err != nil:
		p.fail(diag.ParNotInteger, sp, "%s %q is not an integer", what, tok)
		return 0, false
	case v < 0 || v > limit:
		p.fail(diag.ParCountOutOfRange, sp, "%s %d is out of range [0, %d]", what, v, limit)
		return 0, false
	}
	return int(v), true
}

func (p *parser) duplicateHeader(sp source.Span) {
	if d := p.fail(diag.ParDuplicateHeader, sp, "duplicate header"); d != nil {
		*d = d.WithNote(source.LineSpan(p.file, p.inst.Header.Line), "first header is here")
	}
}

func (p *parser) resolveError(err error, sp source.Span) {
	switch {
	case errors.Is(err, track.ErrUnknownTrack):
		p.fail(diag.ParUnknownTrack, sp, "%v", err)
	case errors.Is(err, track.ErrUnsupportedVersion):
		p.fail(diag.ParUnsupportedVersion, sp, "%v", err)
	default:
		p.fail(diag.ParMalformedHeader, sp, "%v", err)
	}
}
