package instance

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/manpen/pace26checker/internal/graph"
	"github.com/manpen/pace26checker/internal/tree"
)

// Encode writes inst in the grammar it was read from. Comments are not kept;
// header parameters are written sorted by name, vertex weights of weighted
// tracks are written for every vertex.
func Encode(w io.Writer, inst *Instance) error {
	bw := bufio.NewWriter(w)
	var err error
	if inst.IsTree() {
		err = encodeTrees(bw, inst)
	} else {
		err = encodeGraph(bw, inst)
	}
	if err != nil {
		return fmt.Errorf("encode instance: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("encode instance: %w", err)
	}
	return nil
}

func encodeGraph(w *bufio.Writer, inst *Instance) error {
	h := &inst.Header
	fmt.Fprintf(w, "p %s/%d %d %d", inst.Track.Name, h.Version, h.N, inst.Graph.M())
	params := slices.Clone(h.Params)
	slices.SortFunc(params, func(a, b ParamValue) int {
		return strings.Compare(a.Name, b.Name)
	})
	for _, p := range params {
		fmt.Fprintf(w, " %s=%d", p.Name, p.Value)
	}
	w.WriteByte('\n')

	g := inst.Graph
	if g.HasVertexWeights() {
		for v := range g.N() {
			fmt.Fprintf(w, "v %d %d\n", v+1, g.VertexWeight(graph.Vertex(v)))
		}
	}
	weighted := g.Policy().WeightedEdges
	buf := make([]byte, 0, 48)
	for _, e := range g.Edges() {
		buf = buf[:0]
		buf = strconv.AppendInt(buf, inst.Index.External(e.U), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, inst.Index.External(e.V), 10)
		if weighted {
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, e.W, 10)
		}
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

func encodeTrees(w *bufio.Writer, inst *Instance) error {
	fmt.Fprintf(w, "#p %d %d\n", len(inst.Trees), inst.Header.Leaves)
	for _, s := range inst.Strides {
		fmt.Fprintf(w, "#s %s %s\n", s.Key, s.Value)
	}
	for _, t := range inst.Trees {
		if err := tree.WriteNewick(w, t, t.Root); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}
