package instance

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/manpen/pace26checker/internal/diag"
	"github.com/manpen/pace26checker/internal/graph"
	"github.com/manpen/pace26checker/internal/source"
	"github.com/manpen/pace26checker/internal/track"
)

const (
	maxVertices = math.MaxInt32 - 1
	maxEdges    = math.MaxInt32 / 2
)

func (p *parser) graphLine(line string) {
	fields := source.Fields(line)
	sp := p.sc.Span()
	if fields[0] == "c" {
		return
	}
	p.checkWhitespace(line)

	switch fields[0] {
	case "p":
		p.graphHeader(fields, sp)
	case "v":
		p.vertexWeight(fields, sp)
	default:
		c := fields[0][0]
		if (c < '0' || c > '9') && c != '-' {
			p.fail(diag.ParUnrecognizedLine, sp, "line is neither a comment, a header, a vertex weight nor an edge")
			return
		}
		p.edge(fields, sp)
	}
}

func (p *parser) graphHeader(fields []string, sp source.Span) {
	if p.inst.Header.Line != 0 {
		p.duplicateHeader(sp)
		return
	}
	if len(fields) < 4 {
		p.fail(diag.ParMalformedHeader, sp, "expected `p <track> <n> <m> [key=value ...]`")
		return
	}
	ref, err := track.ParseRef(fields[1])
	if err != nil {
		p.fail(diag.ParMalformedHeader, sp.AtField(2), "%v", err)
		return
	}
	spec, err := p.reg.Resolve(ref)
	if err != nil {
		p.resolveError(err, sp.AtField(2))
		return
	}
	if spec.Instance != track.GraphInstance {
		p.fail(diag.ParMalformedHeader, sp.AtField(2), "track %s uses the tree grammar `#p <trees> <leaves>`", spec.Name)
		return
	}

	n, ok := p.count(fields[2], sp.AtField(3), "vertex count", maxVertices)
	if !ok {
		return
	}
	m, ok := p.count(fields[3], sp.AtField(4), "edge count", maxEdges)
	if !ok {
		return
	}
	params, ok := p.params(spec, fields[4:], sp, n)
	if !ok {
		return
	}

	b, err := graph.NewBuilder(n, spec.Policy, m)
	if err != nil {
		p.fail(diag.ParCountOutOfRange, sp, "%v", err)
		return
	}
	p.b = b

	version := spec.Version
	if ref.HasVersion {
		version = ref.Version
	}
	p.inst.Track = spec
	p.inst.Header = Header{
		Track:   spec,
		Version: version,
		N:       n,
		M:       m,
		Params:  params,
		Line:    p.sc.Line(),
	}
	p.inst.Index = graph.NewIndexTable(n)
	if spec.Policy.WeightedVertices {
		p.inst.WeightLines = make([]uint32, n)
	}
}

// params validates the `key=value` tail of the header. The first parameter
// is token 5 of the line.
func (p *parser) params(spec *track.Spec, tokens []string, sp source.Span, n int) ([]ParamValue, bool) {
	out := make([]ParamValue, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))
	for i, tok := range tokens {
		field := i + 5
		key, val, ok := strings.Cut(tok, "=")
		if !ok || key == "" {
			p.fail(diag.ParBadParam, sp.AtField(field), "expected key=value, found %q", tok)
			return nil, false
		}
		if seen[key] {
			p.fail(diag.ParBadParam, sp.AtField(field), "parameter %q given twice", key)
			return nil, false
		}
		seen[key] = true

		decl, known := spec.Param(key)
		if !known {
			p.warn(diag.ParUnknownParam, sp.AtField(field), "track %s has no parameter %q; ignored", spec.Name, key)
			continue
		}
		v, err := parseInt(val)
		if err != nil {
			p.fail(diag.ParBadParam, sp.AtField(field), "parameter %s: %q is not an integer", key, val)
			return nil, false
		}
		if v < decl.Min {
			p.fail(diag.ParBadParam, sp.AtField(field), "parameter %s must be at least %d, got %d", key, decl.Min, v)
			return nil, false
		}
		if decl.AtMostN && v > int64(n) {
			p.fail(diag.ParBadParam, sp.AtField(field), "parameter %s must not exceed n=%d, got %d", key, n, v)
			return nil, false
		}
		out = append(out, ParamValue{Name: key, Value: v, Field: field})
	}
	for _, decl := range spec.Params {
		if decl.Required && !seen[decl.Name] {
			p.fail(diag.ParMissingParam, sp, "track %s requires parameter %s (%s)", spec.Name, decl.Name, decl.Doc)
			return nil, false
		}
	}
	return out, true
}

func (p *parser) vertexWeight(fields []string, sp source.Span) {
	if p.b == nil {
		p.fail(diag.ParMissingHeader, sp, "vertex weight before the `p` header")
		return
	}
	if p.inst.WeightLines == nil {
		p.fail(diag.ParUnexpectedWeight, sp, "track %s has no vertex weights", p.inst.Track.Name)
		return
	}
	if len(fields) != 3 {
		p.fail(diag.ParWrongTokenCount, sp, "expected `v <id> <weight>`, found %d tokens", len(fields))
		return
	}
	v, ok := p.vertex(fields[1], sp.AtField(2))
	if !ok {
		return
	}
	if prev := p.inst.WeightLines[v]; prev != 0 {
		if d := p.fail(diag.ParDuplicateVertex, sp.AtField(2), "weight of vertex %s declared twice", fields[1]); d != nil {
			*d = d.WithNote(source.LineSpan(p.file, prev), "first declaration is here")
		}
		return
	}
	w, ok := p.integer(fields[2], sp.AtField(3), "vertex weight")
	if !ok {
		return
	}
	if err := p.b.SetVertexWeight(v, w); err != nil {
		p.fail(diag.ParVertexOutOfRange, sp.AtField(2), "%v", err)
		return
	}
	p.inst.WeightLines[v] = p.sc.Line()
}

func (p *parser) edge(fields []string, sp source.Span) {
	if p.b == nil {
		p.fail(diag.ParMissingHeader, sp, "edge before the `p` header")
		return
	}
	policy := p.inst.Track.Policy
	want := 2
	if policy.WeightedEdges {
		want = 3
	}
	if len(fields) != want {
		p.fail(diag.ParWrongTokenCount, sp, "edge line needs %d tokens, found %d", want, len(fields))
		return
	}
	if p.b.M() == p.inst.Header.M {
		if d := p.fail(diag.ParEdgeCountMismatch, sp, "more edge lines than the declared m=%d", p.inst.Header.M); d != nil {
			*d = d.WithNote(p.inst.HeaderSpan(), "edge count declared here")
		}
		return
	}
	u, ok := p.vertex(fields[0], sp.AtField(1))
	if !ok {
		return
	}
	v, ok := p.vertex(fields[1], sp.AtField(2))
	if !ok {
		return
	}
	var w int64
	if policy.WeightedEdges {
		if w, ok = p.integer(fields[2], sp.AtField(3), "edge weight"); !ok {
			return
		}
	}
	if err := p.b.AddEdge(graph.Edge{U: u, V: v, W: w, Line: p.sc.Line()}); err != nil {
		p.fail(diag.ParCountOutOfRange, sp, "%v", err)
	}
}

// vertex parses an external id and maps it through the index table.
func (p *parser) vertex(tok string, sp source.Span) (graph.Vertex, bool) {
	id, err := parseInt(tok)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		p.fail(diag.ParNotInteger, sp, "vertex id %q is not an integer", tok)
		return 0, false
	}
	v, ok := p.inst.Index.Internal(id)
	if err != nil || !ok {
		p.fail(diag.ParVertexOutOfRange, sp, "vertex %s is out of range [1, %d]", tok, p.inst.Header.N)
		return 0, false
	}
	return v, true
}

func (p *parser) integer(tok string, sp source.Span, what string) (int64, bool) {
	v, err := parseInt(tok)
	if err != nil {
		p.fail(diag.ParNotInteger, sp, "%s %q is not a 64-bit integer", what, tok)
		return 0, false
	}
	return v, true
}

func (p *parser) finishGraph() {
	if p.b == nil {
		p.fail(diag.ParMissingHeader, source.FileSpan(p.file), "no `p` header found")
		return
	}
	if got := p.b.M(); got != p.inst.Header.M {
		if d := p.fail(diag.ParEdgeCountMismatch, p.inst.HeaderSpan(), "header declares m=%d but %d edge lines follow", p.inst.Header.M, got); d != nil {
			*d = d.WithNote(source.LineSpan(p.file, p.sc.Line()), "input ends here")
		}
		return
	}
	p.inst.Graph = p.b.Build()
	p.b = nil
}
