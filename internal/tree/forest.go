package tree

import (
	"fmt"
)

// LeafError is returned by Forest.AddTree for unusable leaf labels.
type LeafError struct {
	Label     uint32
	NumLeaves int
	Duplicate bool
}

func (e *LeafError) Error() string {
	if e.Duplicate {
		return fmt.Sprintf("leaf %d is already present in the forest", e.Label)
	}
	return fmt.Sprintf("leaf %d is not in required range [1, %d]", e.Label, e.NumLeaves)
}

// Forest is a mutable working copy of input trees on which solution trees are
// isolated one after another. Every isolation cuts the matched subtree free
// from the rest: siblings hanging off the contracted paths become new roots.
type Forest struct {
	t      *Tree
	leaves []NodeID // label -> node, index 0 unused
	roots  []NodeID
}

// NewForest prepares an empty forest over leaves 1..numLeaves.
func NewForest(numLeaves int) *Forest {
	leaves := make([]NodeID, numLeaves+1)
	for i := range leaves {
		leaves[i] = NoNode
	}
	return &Forest{
		t:      &Tree{Root: NoNode},
		leaves: leaves,
	}
}

// AddTree copies src into the forest.
func (f *Forest) AddTree(src *Tree) error {
	offset := NodeID(len(f.t.Nodes))
	shift := func(id NodeID) NodeID {
		if id == NoNode {
			return NoNode
		}
		return id + offset
	}
	for _, n := range src.Nodes {
		f.t.Nodes = append(f.t.Nodes, Node{
			Parent: shift(n.Parent),
			Left:   shift(n.Left),
			Right:  shift(n.Right),
			Label:  n.Label,
			Depth:  n.Depth,
		})
	}
	for _, id := range src.Postorder(src.Root) {
		n := &src.Nodes[id]
		if n.Left != NoNode {
			continue
		}
		if n.Label == 0 || int(n.Label) >= len(f.leaves) {
			return &LeafError{Label: n.Label, NumLeaves: len(f.leaves) - 1}
		}
		if f.leaves[n.Label] != NoNode {
			return &LeafError{Label: n.Label, NumLeaves: len(f.leaves) - 1, Duplicate: true}
		}
		f.leaves[n.Label] = id + offset
	}
	root := src.Root + offset
	f.t.Nodes[root].Parent = NoNode
	f.t.Nodes[root].Depth = 0
	f.t.UpdateDepths(root)
	f.roots = append(f.roots, root)
	if f.t.Root == NoNode {
		f.t.Root = root
	}
	return nil
}

// Isolate matches pattern (a solution tree) inside the forest and cuts it out.
// It returns false when the pattern is not an induced topological subtree of
// the current forest; the forest must then be discarded.
func (f *Forest) Isolate(pattern *Tree) bool {
	match := make([]NodeID, len(pattern.Nodes))
	for _, p := range pattern.Postorder(pattern.Root) {
		pn := &pattern.Nodes[p]
		if pn.Left == NoNode {
			if pn.Label == 0 || int(pn.Label) >= len(f.leaves) || f.leaves[pn.Label] == NoNode {
				return false
			}
			match[p] = f.leaves[pn.Label]
			continue
		}

		left, right := match[pn.Left], match[pn.Right]
		lca := f.lca(left, right)
		if lca == NoNode || lca == left || lca == right {
			return false
		}
		// образ вершины шаблона не может оказаться выше, чем она сама в шаблоне
		if f.t.Nodes[lca].Depth < pn.Depth {
			return false
		}
		if !f.contract(left, lca) || !f.contract(right, lca) {
			return false
		}
		match[p] = lca
	}
	f.t.UpdateDepths(match[pattern.Root])
	return true
}

func (f *Forest) lca(a, b NodeID) NodeID {
	nodes := f.t.Nodes
	if nodes[a].Depth < nodes[b].Depth {
		a, b = b, a
	}
	for nodes[a].Depth > nodes[b].Depth {
		a = nodes[a].Parent
		if a == NoNode {
			return NoNode
		}
	}
	for a != b {
		a, b = nodes[a].Parent, nodes[b].Parent
		if a == NoNode || b == NoNode {
			return NoNode
		}
	}
	return a
}

// contract removes every inner node strictly between lower and upper; the
// sibling subtrees that hung off those nodes become roots of their own.
func (f *Forest) contract(lower, upper NodeID) bool {
	steps := f.t.Nodes[lower].Depth - f.t.Nodes[upper].Depth - 1
	for range steps {
		sibling, ok := f.removeSibling(lower)
		if !ok {
			return false
		}
		f.makeRoot(sibling)
	}
	return true
}

// removeSibling splices out the parent of x, attaching x to its grandparent.
func (f *Forest) removeSibling(x NodeID) (NodeID, bool) {
	nodes := f.t.Nodes
	parent := nodes[x].Parent
	if parent == NoNode {
		return NoNode, false
	}
	grand := nodes[parent].Parent
	if grand == NoNode {
		return NoNode, false
	}
	sibling := nodes[parent].Left
	if sibling == x {
		sibling = nodes[parent].Right
	}

	if nodes[grand].Left == parent {
		nodes[grand].Left = x
	} else {
		nodes[grand].Right = x
	}
	nodes[x].Parent = grand

	nodes[parent].Parent = NoNode
	nodes[parent].Left = NoNode
	nodes[parent].Right = NoNode
	return sibling, true
}

func (f *Forest) makeRoot(id NodeID) {
	f.t.Nodes[id].Parent = NoNode
	f.t.Nodes[id].Depth = 0
	f.t.UpdateDepths(id)
	f.roots = append(f.roots, id)
}
