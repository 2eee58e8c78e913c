// Package digest computes short fingerprints of instances and solutions.
//
// A digest is 16 bytes rendered as 32 hex digits. Instance digests start with
// two size nibbles (log2 scale), solution digests with the score clamped to
// 0xffff. The rest is SHA-256 over a canonical form, so the digest does not
// depend on tree order, child order, edge order or the endpoint order of
// undirected edges.
package digest

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math/bits"
	"slices"
	"strconv"

	"github.com/manpen/pace26checker/internal/graph"
	"github.com/manpen/pace26checker/internal/instance"
	"github.com/manpen/pace26checker/internal/solution"
	"github.com/manpen/pace26checker/internal/track"
	"github.com/manpen/pace26checker/internal/tree"
)

const (
	// Bytes is the binary size of a digest.
	Bytes = 16
	// HexDigits is the length of the textual form.
	HexDigits = 2 * Bytes
)

var ErrMalformed = errors.New("malformed digest")

// Digest is a fingerprint; the zero value means "not computed".
type Digest [Bytes]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether d was never computed.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// MarshalText renders the hex form, so digests serialise as strings.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText accepts exactly HexDigits hex digits of either case.
func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Parse reads the hex form.
func Parse(s string) (Digest, error) {
	var d Digest
	if len(s) != HexDigits {
		return d, fmt.Errorf("%w: want %d hex digits, got %d", ErrMalformed, HexDigits, len(s))
	}
	if _, err := hex.Decode(d[:], []byte(s)); err != nil {
		return Digest{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return d, nil
}

type sum = [sha256.Size]byte

// Instance fingerprints inst. Trees are normalised on copies; inst is not modified.
func Instance(inst *instance.Instance) Digest {
	if inst.IsTree() {
		return Trees(inst.Trees, inst.Header.Leaves)
	}
	return graphDigest(inst)
}

// Trees fingerprints a tree instance given its trees and leaf count.
func Trees(trees []*tree.Tree, leaves int) Digest {
	sums := make([]sum, 0, len(trees))
	for _, t := range trees {
		sums = append(sums, treeSum(t))
	}
	all := combine(sums)

	var d Digest
	d[0] = scale(len(trees), 1)<<4 | scale(leaves, 3)
	copy(d[1:], all[:Bytes-1])
	return d
}

// Solution fingerprints sol with its score in front. Singleton trees of a
// forest are skipped: they are implied by the leaves the other trees miss.
func Solution(inst *instance.Instance, sol *solution.Solution, score int64) Digest {
	var all sum
	switch inst.Track.Solution {
	case track.Forest:
		sums := make([]sum, 0, len(sol.Trees))
		for _, t := range sol.Trees {
			if t.IsLeaf(t.Root) {
				continue
			}
			sums = append(sums, treeSum(t))
		}
		all = combine(sums)
	case track.VertexOrdering:
		all = entriesSum(inst, sol.Entries, false)
	default:
		all = entriesSum(inst, sol.Entries, true)
	}

	var d Digest
	binary.BigEndian.PutUint16(d[:2], clampScore(score))
	copy(d[2:], all[:Bytes-2])
	return d
}

// Score returns the score prefix of a solution digest.
func Score(d Digest) uint16 {
	return binary.BigEndian.Uint16(d[:2])
}

func clampScore(score int64) uint16 {
	switch {
	case score < 0:
		return 0
	case score > 0xffff:
		return 0xffff
	}
	return uint16(score)
}

// scale maps x onto a nibble: floor(log2 x) - shift, saturating at 0 and 0xf.
func scale(x, shift int) byte {
	if x <= 0 {
		return 0
	}
	l := bits.Len(uint(x)) - 1 - shift
	switch {
	case l < 0:
		return 0
	case l > 0xf:
		return 0xf
	}
	return byte(l)
}

func treeSum(t *tree.Tree) sum {
	c := t.Clone()
	c.NormalizeChildOrder()
	return sha256.Sum256([]byte(tree.NewickString(c, c.Root)))
}

// combine hashes the sorted member hashes.
func combine(sums []sum) sum {
	slices.SortFunc(sums, func(a, b sum) int { return bytes.Compare(a[:], b[:]) })
	h := sha256.New()
	for _, s := range sums {
		_, _ = h.Write(s[:])
	}
	var out sum
	copy(out[:], h.Sum(nil))
	return out
}

func graphDigest(inst *instance.Instance) Digest {
	g := inst.Graph
	h := sha256.New()
	fmt.Fprintf(h, "%s/%d %d %d", inst.Track.Name, inst.Header.Version, inst.Header.N, inst.Header.M)
	params := slices.Clone(inst.Header.Params)
	slices.SortFunc(params, func(a, b instance.ParamValue) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	for _, p := range params {
		fmt.Fprintf(h, " %s=%d", p.Name, p.Value)
	}
	_, _ = h.Write([]byte{'\n'})

	if g != nil {
		if g.HasVertexWeights() {
			for v := range g.N() {
				fmt.Fprintf(h, "v %d\n", g.VertexWeight(graph.Vertex(v)))
			}
		}
		edges := make([][3]int64, 0, g.M())
		for _, e := range g.Edges() {
			u, v := int64(e.U), int64(e.V)
			if !g.Directed() && v < u {
				u, v = v, u
			}
			edges = append(edges, [3]int64{u, v, e.W})
		}
		slices.SortFunc(edges, func(a, b [3]int64) int {
			for i := range a {
				if a[i] != b[i] {
					if a[i] < b[i] {
						return -1
					}
					return 1
				}
			}
			return 0
		})
		var buf []byte
		for _, e := range edges {
			buf = buf[:0]
			buf = strconv.AppendInt(buf, e[0], 10)
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, e[1], 10)
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, e[2], 10)
			buf = append(buf, '\n')
			_, _ = h.Write(buf)
		}
	}

	var all sum
	copy(all[:], h.Sum(nil))
	var d Digest
	d[0] = scale(inst.Header.M, 1)<<4 | scale(inst.Header.N, 3)
	copy(d[1:], all[:Bytes-1])
	return d
}

// entriesSum hashes the external ids; sets are sorted first, orderings keep their order.
func entriesSum(inst *instance.Instance, entries []solution.Entry, sorted bool) sum {
	ids := make([]int64, len(entries))
	for i, e := range entries {
		ids[i] = inst.Index.External(e.V)
	}
	if sorted {
		slices.Sort(ids)
	}
	h := sha256.New()
	var buf []byte
	for _, id := range ids {
		buf = strconv.AppendInt(buf[:0], id, 10)
		buf = append(buf, '\n')
		_, _ = h.Write(buf)
	}
	var out sum
	copy(out[:], h.Sum(nil))
	return out
}
