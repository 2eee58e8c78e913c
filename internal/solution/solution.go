// Package solution reads candidate solutions against a parsed instance.
// Every referenced id is range-checked while reading: a solution that names
// a vertex or leaf the instance does not have cannot be interpreted and is a
// structural failure.
package solution

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/manpen/pace26checker/internal/diag"
	"github.com/manpen/pace26checker/internal/graph"
	"github.com/manpen/pace26checker/internal/instance"
	"github.com/manpen/pace26checker/internal/source"
	"github.com/manpen/pace26checker/internal/track"
	"github.com/manpen/pace26checker/internal/tree"
)

// ScoreKey is the stride key carrying the claimed objective of a forest.
const ScoreKey = "score"

// Entry is one vertex of a set or ordering together with its line.
type Entry struct {
	V    graph.Vertex
	Line uint32
}

// Solution is immutable after Parse returns it.
type Solution struct {
	Track *track.Spec

	// Claimed is the objective value the file declares, nil if none.
	Claimed   *int64
	ClaimSpan source.Span

	// vertex sets and orderings
	Entries []Entry

	// forests
	Trees     []*tree.Tree
	TreeLines []uint32
	Strides   []instance.Stride

	File  source.FileID
	Sum   [32]byte
	Bytes uint64
	Flags source.FileFlags
}

// Len is the number of entries or trees.
func (s *Solution) Len() int {
	if s.Track != nil && s.Track.Solution == track.Forest {
		return len(s.Trees)
	}
	return len(s.Entries)
}

// EntrySpan points at entry i.
func (s *Solution) EntrySpan(i int) source.Span {
	return source.LineSpan(s.File, s.Entries[i].Line)
}

// TreeSpan points at tree i.
func (s *Solution) TreeSpan(i int) source.Span {
	return source.LineSpan(s.File, s.TreeLines[i])
}

// Options configure Parse.
type Options struct {
	File    source.FileID
	Files   *source.FileSet
	MaxLine int
}

type parser struct {
	inst *instance.Instance
	file source.FileID
	sc   *source.Scanner

	sol      *Solution
	warnings []diag.Diagnostic
	fatal    *diag.Diagnostic
}

// Parse reads the solution of inst from r. The contract mirrors
// instance.Parse: nil plus exactly one reported error on structural defects,
// warnings only for solutions that parse, Go errors only for read failures.
func Parse(r io.Reader, inst *instance.Instance, opts Options, rep diag.Reporter) (*Solution, error) {
	p := &parser{
		inst: inst,
		file: opts.File,
		sc:   source.NewScanner(r, opts.File, opts.MaxLine),
		sol:  &Solution{Track: inst.Track, File: opts.File},
	}
	forest := inst.Track.Solution == track.Forest
	for !p.failed() && p.sc.Next() {
		line := p.sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if forest {
			p.forestLine(line)
		} else {
			p.vertexLine(line)
		}
	}
	if err := p.sc.Err(); err != nil {
		if !errors.Is(err, bufio.ErrTooLong) {
			return nil, fmt.Errorf("read solution: %w", err)
		}
		p.fail(diag.IOLineTooLong, source.LineSpan(p.file, p.sc.Line()+1), "line exceeds the maximal line length")
	}
	if opts.Files != nil {
		opts.Files.Complete(opts.File, p.sc)
	}
	if p.failed() {
		diag.Emit(rep, *p.fatal)
		return nil, nil
	}
	for _, w := range p.warnings {
		diag.Emit(rep, w)
	}
	p.sol.Sum = p.sc.Sum()
	p.sol.Bytes = p.sc.Bytes()
	p.sol.Flags = p.sc.Flags()
	return p.sol, nil
}

func (p *parser) failed() bool {
	return p.fatal != nil
}

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
		p.warn(diag.SolExtraWhitespace, p.sc.Span(), "line has extra whitespace")
	}
}

func (p *parser) claim(v int64, sp source.Span) {
	if p.sol.Claimed != nil {
		if d := p.fail(diag.SolDuplicateClaim, sp, "objective value claimed twice"); d != nil {
			*d = d.WithNote(p.sol.ClaimSpan, "first claim")
		}
		return
	}
	p.sol.Claimed = &v
	p.sol.ClaimSpan = sp
}

func parseInt(tok string) (int64, error) {
	if tok == "" || tok[0] == '+' {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseInt(tok, 10, 64)
}

// vertexLine handles the set and ordering grammar:
//
//	c <comment>
//	s <value>     optional claimed objective, before the first id
//	<id>          one 1-based vertex id per line
func (p *parser) vertexLine(line string) {
	fields := source.Fields(line)
	sp := p.sc.Span()
	if fields[0] == "c" {
		return
	}
	p.checkWhitespace(line)

	if fields[0] == "s" {
		if len(fields) != 2 {
			p.fail(diag.SolWrongTokenCount, sp, "expected `s <value>`")
			return
		}
		if len(p.sol.Entries) > 0 {
			if d := p.fail(diag.SolMisplacedClaim, sp, "objective claim after the first vertex"); d != nil {
				*d = d.WithNote(p.sol.EntrySpan(0), "first vertex is here")
			}
			return
		}
		v, err := parseInt(fields[1])
		if err != nil {
			p.fail(diag.SolNotInteger, sp.AtField(2), "claimed objective %q is not an integer", fields[1])
			return
		}
		p.claim(v, sp.AtField(2))
		return
	}

	if len(fields) != 1 {
		p.fail(diag.SolWrongTokenCount, sp, "expected one vertex id per line, found %d tokens", len(fields))
		return
	}
	id, err := parseInt(fields[0])
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		p.fail(diag.SolNotInteger, sp.AtField(1), "vertex id %q is not an integer", fields[0])
		return
	}
	v, ok := p.inst.Index.Internal(id)
	if err != nil || !ok {
		p.fail(diag.SolVertexOutOfRange, sp.AtField(1), "vertex %s is out of range [1, %d]", fields[0], p.inst.Header.N)
		return
	}
	p.sol.Entries = append(p.sol.Entries, Entry{V: v, Line: p.sc.Line()})
}

// forestLine handles the tree grammar of forest solutions. Lines that do not
// fit are warnings, as is an instance header.
func (p *parser) forestLine(raw string) {
	line := strings.TrimSpace(raw)
	sp := p.sc.Span()
	kind := instance.ClassifyTreeLine(line)
	if kind != instance.LineComment {
		p.checkWhitespace(raw)
	}

	switch kind {
	case instance.LineComment:
	case instance.LineHeader:
		p.warn(diag.SolFoundHeader, sp, "solutions should not carry an instance header")
	case instance.LineStride:
		key, value, ok := instance.ParseStride(line)
		if !ok {
			p.fail(diag.SolInvalidStride, sp, "expected `#s <key> <json value>` with valid JSON")
			return
		}
		if key == ScoreKey {
			var score int64
			if err := json.Unmarshal(value, &score); err != nil {
				p.fail(diag.SolInvalidStride, sp.AtField(3), "score %s is not an integer", value)
				return
			}
			p.claim(score, sp.AtField(3))
		}
		p.sol.Strides = append(p.sol.Strides, instance.Stride{Key: key, Value: value, Line: p.sc.Line()})
	case instance.LineTree:
		t, err := tree.ParseNewick(line)
		if err != nil {
			p.fail(diag.SolInvalidNewick, sp, "invalid Newick: %v", err)
			return
		}
		n := p.inst.Header.Leaves
		for _, label := range t.LeafLabels(t.Root) {
			if label == 0 || int(label) > n {
				p.fail(diag.SolLeafOutOfRange, sp, "leaf %d is out of range [1, %d]", label, n)
				return
			}
		}
		p.sol.Trees = append(p.sol.Trees, t)
		p.sol.TreeLines = append(p.sol.TreeLines, p.sc.Line())
	case instance.LineUnknownDash:
		p.warn(diag.SolUnrecognizedLine, sp, "line starts with '#' but is neither a comment ('# ') nor a stride ('#s'); ignored")
	default:
		p.warn(diag.SolUnrecognizedLine, sp, "line is neither a comment nor a tree; ignored")
	}
}
