package instance

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/manpen/pace26checker/internal/diag"
	"github.com/manpen/pace26checker/internal/source"
	"github.com/manpen/pace26checker/internal/track"
	"github.com/manpen/pace26checker/internal/tree"
)

const (
	maxTrees  = math.MaxInt32
	maxLeaves = math.MaxInt32 / 2
)

// LineKind classifies a line of the tree grammar. Solution files of the
// forest track share the grammar.
type LineKind uint8

const (
	LineComment LineKind = iota
	LineHeader
	LineStride
	LineTree
	LineUnknownDash
	LineUnknown
)

// ClassifyTreeLine decides what a non-empty line of a tree file is.
func ClassifyTreeLine(line string) LineKind {
	switch {
	case line == "#" || strings.HasPrefix(line, "# "):
		return LineComment
	case line == "#p" || strings.HasPrefix(line, "#p "):
		return LineHeader
	case line == "#s" || strings.HasPrefix(line, "#s "):
		return LineStride
	case line[0] == '#':
		return LineUnknownDash
	case line[0] == '(' || (line[0] >= '0' && line[0] <= '9'):
		return LineTree
	default:
		return LineUnknown
	}
}

// ParseStride splits `#s <key> <json>` and validates the JSON value.
func ParseStride(line string) (key string, value json.RawMessage, ok bool) {
	rest := strings.TrimLeft(strings.TrimPrefix(line, "#s"), " ")
	key, val, found := strings.Cut(rest, " ")
	val = strings.TrimSpace(val)
	if !found || key == "" || val == "" || !json.Valid([]byte(val)) {
		return "", nil, false
	}
	return key, json.RawMessage(val), true
}

func (p *parser) treeLine(raw string) {
	// лидирующие пробелы не меняют смысла строки, но о них предупреждаем
	line := strings.TrimSpace(raw)
	sp := p.sc.Span()
	kind := ClassifyTreeLine(line)
	if kind != LineComment {
		p.checkWhitespace(raw)
	}

	switch kind {
	case LineComment:
	case LineHeader:
		p.treeHeader(source.Fields(line), sp)
	case LineStride:
		key, value, ok := ParseStride(line)
		if !ok {
			p.fail(diag.ParInvalidStride, sp, "expected `#s <key> <json value>` with valid JSON")
			return
		}
		p.inst.Strides = append(p.inst.Strides, Stride{Key: key, Value: value, Line: p.sc.Line()})
	case LineTree:
		p.treeEntry(line, sp)
	case LineUnknownDash:
		p.fail(diag.ParUnrecognizedLine, sp, "line starts with '#' but is neither a comment ('# '), a header ('#p') nor a stride ('#s')")
	default:
		p.fail(diag.ParUnrecognizedLine, sp, "line is neither a comment, a header nor a tree")
	}
}

func (p *parser) treeHeader(fields []string, sp source.Span) {
	if p.inst.Header.Line != 0 {
		p.duplicateHeader(sp)
		return
	}
	if len(fields) != 3 {
		p.fail(diag.ParMalformedHeader, sp, "expected `#p <trees> <leaves>`")
		return
	}
	spec, err := p.reg.Lookup(track.Tree)
	if err != nil {
		p.resolveError(err, sp)
		return
	}
	trees, ok := p.count(fields[1], sp.AtField(2), "tree count", maxTrees)
	if !ok {
		return
	}
	leaves, ok := p.count(fields[2], sp.AtField(3), "leaf count", maxLeaves)
	if !ok {
		return
	}
	p.inst.Track = spec
	p.inst.Header = Header{
		Track:   spec,
		Version: spec.Version,
		Trees:   trees,
		Leaves:  leaves,
		Line:    p.sc.Line(),
	}
	p.inst.Trees = make([]*tree.Tree, 0, min(trees, 1<<16))
	p.inst.TreeLines = make([]uint32, 0, min(trees, 1<<16))
}

func (p *parser) treeEntry(line string, sp source.Span) {
	if p.inst.Header.Line == 0 {
		p.fail(diag.ParTreeBeforeHeader, sp, "tree before the `#p` header")
		return
	}
	if len(p.inst.Trees) == p.inst.Header.Trees {
		if d := p.fail(diag.ParTreeCountMismatch, sp, "more trees than the declared %d", p.inst.Header.Trees); d != nil {
			*d = d.WithNote(p.inst.HeaderSpan(), "tree count declared here")
		}
		return
	}
	t, err := tree.ParseNewick(line)
	if err != nil {
		p.fail(diag.ParInvalidNewick, sp, "invalid Newick: %v", err)
		return
	}
	p.inst.Trees = append(p.inst.Trees, t)
	p.inst.TreeLines = append(p.inst.TreeLines, p.sc.Line())
}

func (p *parser) finishTree() {
	if p.inst.Header.Line == 0 {
		p.fail(diag.ParMissingHeader, source.FileSpan(p.file), "no `#p` header found")
		return
	}
	if got := len(p.inst.Trees); got != p.inst.Header.Trees {
		if d := p.fail(diag.ParTreeCountMismatch, p.inst.HeaderSpan(), "header declares %d trees but found %d", p.inst.Header.Trees, got); d != nil {
			*d = d.WithNote(source.LineSpan(p.file, p.sc.Line()), "input ends here")
		}
	}
}
