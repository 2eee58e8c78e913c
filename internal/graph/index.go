package graph

// IndexTable maps external 1-based ids onto internal dense vertices.
// One table is built per instance; there is no process-wide lookup state.
type IndexTable struct {
	n int64
}

// NewIndexTable covers the external ids 1..n.
func NewIndexTable(n int) IndexTable {
	return IndexTable{n: int64(n)}
}

// Len returns the number of ids covered by the table.
func (t IndexTable) Len() int { return int(t.n) }

// Internal converts an external id; ok is false when ext is outside 1..n.
func (t IndexTable) Internal(ext int64) (Vertex, bool) {
	if ext < 1 || ext > t.n {
		return -1, false
	}
	return Vertex(ext - 1), true
}

// External converts an internal vertex back to its 1-based id.
func (t IndexTable) External(v Vertex) int64 {
	return int64(v) + 1
}
