package tree

// Coverage summarises how the leaves of some trees cover the labels 1..n.
type Coverage struct {
	Total      int      // leaves seen
	Invalid    []uint32 // labels outside 1..n, one entry per occurrence
	Duplicates []uint32 // labels seen more than once, one entry per label
	Missing    []uint32 // labels of 1..n never seen
	// Owner maps a label to the index of the first tree it occurs in, -1 if none.
	Owner []int32
}

// Exact reports whether every label 1..n occurs exactly once.
func (c *Coverage) Exact() bool {
	return len(c.Invalid) == 0 && len(c.Duplicates) == 0 && len(c.Missing) == 0
}

// Cover walks the leaves of trees in order.
func Cover(trees []*Tree, n int) Coverage {
	c := Coverage{Owner: make([]int32, n+1)}
	for i := range c.Owner {
		c.Owner[i] = -1
	}
	seen := make([]uint8, n+1)
	for ti, t := range trees {
		for _, label := range t.LeafLabels(t.Root) {
			c.Total++
			if label == 0 || int(label) > n {
				c.Invalid = append(c.Invalid, label)
				continue
			}
			switch seen[label] {
			case 0:
				c.Owner[label] = int32(ti)
				seen[label] = 1
			case 1:
				c.Duplicates = append(c.Duplicates, label)
				seen[label] = 2
			}
		}
	}
	for label := 1; label <= n; label++ {
		if seen[label] == 0 {
			c.Missing = append(c.Missing, uint32(label))
		}
	}
	return c
}
