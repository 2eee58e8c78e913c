package tree

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// NewickError describes why a Newick string was rejected.
// Offset is the 0-based byte position of the offending character.
type NewickError struct {
	Offset int
	Msg    string
}

func (e *NewickError) Error() string {
	return fmt.Sprintf("at byte %d: %s", e.Offset+1, e.Msg)
}

// ParseNewick parses a rooted binary tree such as "((1,2),3);".
// Leaves carry unsigned integer labels; whitespace is not allowed.
// The parser is iterative, so deep caterpillars do not grow the goroutine stack.
func ParseNewick(s string) (*Tree, error) {
	t := &Tree{
		Nodes: make([]Node, 0, estimateNodes(s)),
		Root:  NoNode,
	}
	var open []NodeID // внутренние вершины, ждущие детей
	expectNode := true
	done := false

	attach := func(child NodeID) {
		if len(open) == 0 {
			t.Root = child
			return
		}
		parent := open[len(open)-1]
		p := &t.Nodes[parent]
		if p.Left == NoNode {
			p.Left = child
		} else {
			p.Right = child
		}
		t.Nodes[child].Parent = parent
	}

	for i := 0; i < len(s); {
		if done {
			return nil, &NewickError{Offset: i, Msg: "trailing characters after ';'"}
		}
		c := s[i]
		if expectNode {
			switch {
			case c == '(':
				open = append(open, t.newInner())
				i++
			case c >= '0' && c <= '9':
				j := i
				for j < len(s) && s[j] >= '0' && s[j] <= '9' {
					j++
				}
				label, err := strconv.ParseUint(s[i:j], 10, 32)
				if err != nil {
					return nil, &NewickError{Offset: i, Msg: fmt.Sprintf("leaf label %q out of range", s[i:j])}
				}
				attach(t.newLeaf(uint32(label)))
				expectNode = false
				i = j
			default:
				return nil, &NewickError{Offset: i, Msg: fmt.Sprintf("expected '(' or leaf label, found %q", c)}
			}
			continue
		}

		switch c {
		case ',':
			if len(open) == 0 || t.Nodes[open[len(open)-1]].Right != NoNode || t.Nodes[open[len(open)-1]].Left == NoNode {
				return nil, &NewickError{Offset: i, Msg: "unexpected ','"}
			}
			expectNode = true
		case ')':
			if len(open) == 0 {
				return nil, &NewickError{Offset: i, Msg: "unbalanced ')'"}
			}
			top := open[len(open)-1]
			if t.Nodes[top].Right == NoNode {
				return nil, &NewickError{Offset: i, Msg: "inner node needs exactly two children"}
			}
			open = open[:len(open)-1]
			attach(top)
		case ';':
			if len(open) != 0 {
				return nil, &NewickError{Offset: i, Msg: "unclosed '('"}
			}
			done = true
		default:
			return nil, &NewickError{Offset: i, Msg: fmt.Sprintf("unexpected %q", c)}
		}
		i++
	}

	if !done {
		return nil, &NewickError{Offset: len(s), Msg: "missing terminating ';'"}
	}
	t.Nodes[t.Root].Depth = 0
	t.UpdateDepths(t.Root)
	return t, nil
}

func estimateNodes(s string) int {
	return strings.Count(s, ",")*2 + 1
}

// WriteNewick writes the subtree at from followed by ';'.
func WriteNewick(w io.Writer, t *Tree, from NodeID) error {
	var b strings.Builder
	appendNewick(&b, t, from)
	b.WriteByte(';')
	_, err := io.WriteString(w, b.String())
	return err
}

// NewickString is WriteNewick into a string.
func NewickString(t *Tree, from NodeID) string {
	var b strings.Builder
	appendNewick(&b, t, from)
	b.WriteByte(';')
	return b.String()
}

func appendNewick(b *strings.Builder, t *Tree, from NodeID) {
	// close and comma frames only emit punctuation
	type frame struct {
		id    NodeID
		close bool
		comma bool
	}
	stack := []frame{{id: from}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch {
		case f.close:
			b.WriteByte(')')
		case f.comma:
			b.WriteByte(',')
		default:
			n := &t.Nodes[f.id]
			if n.Left == NoNode {
				b.WriteString(strconv.FormatUint(uint64(n.Label), 10))
				continue
			}
			b.WriteByte('(')
			stack = append(stack, frame{close: true}, frame{id: n.Right}, frame{comma: true}, frame{id: n.Left})
		}
	}
}
