// Package dot renders instances as GraphViz DOT, optionally coloured by a
// solution: selected vertices are filled, and every forest component gets
// its own colour.
package dot

import (
	"fmt"
	"io"
	"strings"

	"github.com/manpen/pace26checker/internal/graph"
	"github.com/manpen/pace26checker/internal/instance"
	"github.com/manpen/pace26checker/internal/solution"
	"github.com/manpen/pace26checker/internal/track"
	"github.com/manpen/pace26checker/internal/tree"
)

// DefaultPalette is used for selected vertices (first entry) and forest components.
var DefaultPalette = []string{
	"#fdae61", "#abd9e9", "#a6d96a", "#f46d43", "#74add1",
	"#d9ef8b", "#fee090", "#4575b4", "#66bd63", "#d73027",
}

// Options configure rendering.
type Options struct {
	// Name of the graph statement, "pace26" by default.
	Name    string
	Palette []string
}

func (o Options) name() string {
	if o.Name == "" {
		return "pace26"
	}
	return sanitizeID(o.Name)
}

func (o Options) color(i int) string {
	p := o.Palette
	if len(p) == 0 {
		p = DefaultPalette
	}
	return p[i%len(p)]
}

// Write renders inst. sol may be nil; it must belong to inst.
func Write(w io.Writer, inst *instance.Instance, sol *solution.Solution, opts Options) error {
	if inst == nil {
		return fmt.Errorf("dot: nil instance")
	}
	var sb strings.Builder
	if inst.IsTree() {
		writeTrees(&sb, inst, sol, opts)
	} else {
		writeGraph(&sb, inst, sol, opts)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// String is Write into a string.
func String(inst *instance.Instance, sol *solution.Solution, opts Options) string {
	var sb strings.Builder
	_ = Write(&sb, inst, sol, opts)
	return sb.String()
}

func writeGraph(sb *strings.Builder, inst *instance.Instance, sol *solution.Solution, opts Options) {
	g := inst.Graph
	kind, arrow := "graph", "--"
	if g.Directed() {
		kind, arrow = "digraph", "->"
	}
	fmt.Fprintf(sb, "%s %s {\n", kind, opts.name())
	fmt.Fprintf(sb, "  label=\"%s\";\n", escapeLabel(headerLabel(inst)))
	sb.WriteString("  node [shape=circle];\n")

	selected := make([]bool, g.N())
	position := make([]int, g.N())
	if sol != nil {
		for i, e := range sol.Entries {
			if g.Valid(e.V) {
				selected[e.V] = true
				position[e.V] = i + 1
			}
		}
	}
	ordering := sol != nil && sol.Track != nil && sol.Track.Solution == track.VertexOrdering

	for v := range graph.Vertex(g.N()) {
		label := fmt.Sprint(inst.Index.External(v))
		if g.HasVertexWeights() {
			label = fmt.Sprintf("%s\\nw=%d", label, g.VertexWeight(v))
		}
		if ordering && position[v] > 0 {
			label = fmt.Sprintf("%s\\n#%d", label, position[v])
		}
		fmt.Fprintf(sb, "  %d [label=\"%s\"", inst.Index.External(v), label)
		if selected[v] && !ordering {
			fmt.Fprintf(sb, ", style=filled, fillcolor=%q", opts.color(0))
		}
		sb.WriteString("];\n")
	}

	for _, e := range g.Edges() {
		fmt.Fprintf(sb, "  %d %s %d", inst.Index.External(e.U), arrow, inst.Index.External(e.V))
		var attrs []string
		if g.Policy().WeightedEdges {
			attrs = append(attrs, fmt.Sprintf("label=\"%d\"", e.W))
		}
		// рёбра без выбранных концов: для vc непокрытые, для fvs остаток
		if sol != nil && !ordering && !selected[e.U] && !selected[e.V] {
			attrs = append(attrs, "style=bold", "color=\"#d73027\"")
		}
		if len(attrs) > 0 {
			fmt.Fprintf(sb, " [%s]", strings.Join(attrs, ", "))
		}
		sb.WriteString(";\n")
	}
	sb.WriteString("}\n")
}

func writeTrees(sb *strings.Builder, inst *instance.Instance, sol *solution.Solution, opts Options) {
	fmt.Fprintf(sb, "digraph %s {\n", opts.name())
	fmt.Fprintf(sb, "  label=\"%s\";\n", escapeLabel(headerLabel(inst)))
	sb.WriteString("  node [shape=point];\n")

	component := leafComponents(inst, sol)
	for i, t := range inst.Trees {
		fmt.Fprintf(sb, "  subgraph cluster_%d {\n", i)
		fmt.Fprintf(sb, "    label=\"tree %d\";\n", i+1)
		for _, id := range t.Postorder(t.Root) {
			n := t.Node(id)
			name := fmt.Sprintf("t%d_%d", i, id)
			if t.IsLeaf(id) {
				fmt.Fprintf(sb, "    %s [shape=circle, label=\"%d\"", name, n.Label)
				if c, ok := component[n.Label]; ok {
					fmt.Fprintf(sb, ", style=filled, fillcolor=%q", opts.color(c))
				}
				sb.WriteString("];\n")
			} else {
				fmt.Fprintf(sb, "    %s;\n", name)
			}
			if n.Parent != tree.NoNode {
				fmt.Fprintf(sb, "    t%d_%d -> %s;\n", i, n.Parent, name)
			}
		}
		sb.WriteString("  }\n")
	}
	sb.WriteString("}\n")
}

// leafComponents maps every leaf label to the index of the solution tree
// containing it. Singleton trees share no colour.
func leafComponents(inst *instance.Instance, sol *solution.Solution) map[uint32]int {
	if sol == nil || len(sol.Trees) == 0 {
		return nil
	}
	out := make(map[uint32]int, inst.Header.Leaves)
	color := 0
	for _, t := range sol.Trees {
		labels := t.LeafLabels(t.Root)
		if len(labels) < 2 {
			continue
		}
		for _, l := range labels {
			out[l] = color
		}
		color++
	}
	return out
}

func headerLabel(inst *instance.Instance) string {
	if inst.IsTree() {
		return fmt.Sprintf("%s: %d trees, %d leaves", inst.Track.Name, len(inst.Trees), inst.Header.Leaves)
	}
	return fmt.Sprintf("%s: n=%d m=%d", inst.Track.Name, inst.Graph.N(), inst.Graph.M())
}

// sanitizeID keeps DOT IDs unquoted.
func sanitizeID(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "pace26"
	}
	return b.String()
}

func escapeLabel(s string) string {
	return strings.NewReplacer("\\", "\\\\", "\"", "\\\"", "\n", " ").Replace(s)
}
