// Package tree holds rooted binary phylogenetic trees with parent pointers,
// their Newick encoding and the agreement-forest isolation used to verify
// forest solutions.
package tree

import (
	"fmt"
)

// NodeID indexes Tree.Nodes.
type NodeID int32

// NoNode marks a missing parent or child.
const NoNode NodeID = -1

// Node is either a leaf (Label > 0 or a parsed label of 0, no children)
// or an inner node with exactly two children.
type Node struct {
	Parent NodeID
	Left   NodeID
	Right  NodeID
	Label  uint32
	Depth  int32
}

// Tree is an arena of nodes. Several disjoint rooted trees may share one arena
// (see Forest); Root is the root of the tree the arena was parsed from.
type Tree struct {
	Nodes []Node
	Root  NodeID
}

func (t *Tree) Node(id NodeID) *Node { return &t.Nodes[id] }

func (t *Tree) IsLeaf(id NodeID) bool {
	return t.Nodes[id].Left == NoNode
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int { return len(t.Nodes) }

// Postorder lists the nodes of the subtree at from, children before parents,
// left subtree before right subtree.
func (t *Tree) Postorder(from NodeID) []NodeID {
	out := make([]NodeID, 0, len(t.Nodes))
	type frame struct {
		id       NodeID
		expanded bool
	}
	stack := []frame{{id: from}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.Nodes[top.id]
		if top.expanded || n.Left == NoNode {
			out = append(out, top.id)
			continue
		}
		stack = append(stack, frame{id: top.id, expanded: true}, frame{id: n.Right}, frame{id: n.Left})
	}
	return out
}

// LeafLabels returns the labels of the subtree at from in left-to-right order.
func (t *Tree) LeafLabels(from NodeID) []uint32 {
	out := make([]uint32, 0)
	stack := []NodeID{from}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.Nodes[id]
		if n.Left == NoNode {
			out = append(out, n.Label)
			continue
		}
		stack = append(stack, n.Right, n.Left)
	}
	return out
}

// UpdateDepths recomputes Depth below from, keeping the depth stored at from.
func (t *Tree) UpdateDepths(from NodeID) {
	stack := []NodeID{from}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.Nodes[id]
		if n.Left == NoNode {
			continue
		}
		for _, c := range [2]NodeID{n.Left, n.Right} {
			t.Nodes[c].Depth = n.Depth + 1
			t.Nodes[c].Parent = id
			stack = append(stack, c)
		}
	}
}

// Clone returns a deep copy.
func (t *Tree) Clone() *Tree {
	nodes := make([]Node, len(t.Nodes))
	copy(nodes, t.Nodes)
	return &Tree{Nodes: nodes, Root: t.Root}
}

// NormalizeChildOrder swaps children so that the left subtree always holds the
// smaller minimal leaf label. Two trees that differ only by child swaps become
// identical in Newick form.
func (t *Tree) NormalizeChildOrder() {
	minLabel := make([]uint32, len(t.Nodes))
	for _, id := range t.Postorder(t.Root) {
		n := &t.Nodes[id]
		if n.Left == NoNode {
			minLabel[id] = n.Label
			continue
		}
		if minLabel[n.Right] < minLabel[n.Left] {
			n.Left, n.Right = n.Right, n.Left
		}
		minLabel[id] = minLabel[n.Left]
	}
}

func (t *Tree) String() string {
	if t == nil || len(t.Nodes) == 0 {
		return "<empty>"
	}
	return NewickString(t, t.Root)
}

func (t *Tree) newLeaf(label uint32) NodeID {
	id := NodeID(len(t.Nodes))
	t.Nodes = append(t.Nodes, Node{Parent: NoNode, Left: NoNode, Right: NoNode, Label: label})
	return id
}

func (t *Tree) newInner() NodeID {
	id := NodeID(len(t.Nodes))
	t.Nodes = append(t.Nodes, Node{Parent: NoNode, Left: NoNode, Right: NoNode})
	return id
}

// Validate checks arena consistency; used by tests and fuzzing.
func (t *Tree) Validate() error {
	if t.Root < 0 || int(t.Root) >= len(t.Nodes) {
		return fmt.Errorf("root %d out of range", t.Root)
	}
	if t.Nodes[t.Root].Parent != NoNode {
		return fmt.Errorf("root %d has parent %d", t.Root, t.Nodes[t.Root].Parent)
	}
	for _, id := range t.Postorder(t.Root) {
		n := &t.Nodes[id]
		if (n.Left == NoNode) != (n.Right == NoNode) {
			return fmt.Errorf("node %d has exactly one child", id)
		}
		if n.Left == NoNode {
			continue
		}
		for _, c := range [2]NodeID{n.Left, n.Right} {
			if t.Nodes[c].Parent != id {
				return fmt.Errorf("child %d of %d points to parent %d", c, id, t.Nodes[c].Parent)
			}
			if t.Nodes[c].Depth != n.Depth+1 {
				return fmt.Errorf("child %d of %d has depth %d, want %d", c, id, t.Nodes[c].Depth, n.Depth+1)
			}
		}
	}
	return nil
}
