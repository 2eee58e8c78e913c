package graph

// Components labels weakly connected components by BFS.
// It returns the component count and, per vertex, the component index
// ordered by the smallest vertex of each component.
func Components(g *Graph) (int, []int32) {
	n := g.N()
	label := make([]int32, n)
	for i := range label {
		label[i] = -1
	}
	queue := make([]Vertex, 0, 64)
	var count int32
	for s := range Vertex(n) {
		if label[s] >= 0 {
			continue
		}
		label[s] = count
		queue = append(queue[:0], s)
		for len(queue) > 0 {
			v := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			visit := func(u Vertex) {
				if label[u] < 0 {
					label[u] = count
					queue = append(queue, u)
				}
			}
			for _, u := range g.Neighbors(v) {
				visit(u)
			}
			if g.Directed() {
				for _, u := range g.InNeighbors(v) {
					visit(u)
				}
			}
		}
		count++
	}
	return int(count), label
}
