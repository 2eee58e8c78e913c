package source

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"hash"
	"io"
)

const (
	initialLineBuffer = 64 << 10
	// DefaultMaxLineBytes caps a single line; Newick trees of large instances are long.
	DefaultMaxLineBytes = 64 << 20
)

// Scanner streams an input line by line. It strips a leading BOM and
// tolerates CRLF line endings, hashing the raw bytes on the fly.
type Scanner struct {
	sc    *bufio.Scanner
	sum   hash.Hash
	count *countingReader
	file  FileID
	line  uint32
	text  string
	flags FileFlags
}

type countingReader struct {
	r io.Reader
	n uint64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += uint64(n) // #nosec G115 -- n is never negative
	return n, err
}

// NewScanner wraps r. maxLine <= 0 selects DefaultMaxLineBytes.
func NewScanner(r io.Reader, file FileID, maxLine int) *Scanner {
	if maxLine <= 0 {
		maxLine = DefaultMaxLineBytes
	}
	s := &Scanner{
		sum:  sha256.New(),
		file: file,
	}
	s.count = &countingReader{r: io.TeeReader(r, s.sum)}
	s.sc = bufio.NewScanner(s.count)
	s.sc.Buffer(make([]byte, 0, min(initialLineBuffer, maxLine)), maxLine)
	s.sc.Split(s.split)
	return s
}

func (s *Scanner) split(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		s.flags |= FileMissingFinalNewline
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Next advances to the next line. It returns false at EOF or on a read error.
func (s *Scanner) Next() bool {
	if !s.sc.Scan() {
		return false
	}
	s.line++
	raw := s.sc.Bytes()
	if s.line == 1 {
		var hadBOM bool
		if raw, hadBOM = removeBOM(raw); hadBOM {
			s.flags |= FileHadBOM
		}
	}
	if n := len(raw); n > 0 && raw[n-1] == '\r' {
		raw = raw[:n-1]
		s.flags |= FileNormalizedCRLF
	}
	s.text = string(raw)
	return true
}

// Text returns the current line without its terminator.
func (s *Scanner) Text() string {
	return s.text
}

// Line returns the 1-based number of the current line.
func (s *Scanner) Line() uint32 {
	return s.line
}

// Span returns a span covering the current line.
func (s *Scanner) Span() Span {
	return LineSpan(s.file, s.line)
}

// Err returns the first non-EOF error, bufio.ErrTooLong included.
func (s *Scanner) Err() error {
	return s.sc.Err()
}

func (s *Scanner) Flags() FileFlags {
	return s.flags
}

// Sum returns the SHA-256 of the bytes consumed so far.
func (s *Scanner) Sum() [32]byte {
	var out [32]byte
	copy(out[:], s.sum.Sum(nil))
	return out
}

// Bytes returns the number of bytes consumed so far.
func (s *Scanner) Bytes() uint64 {
	return s.count.n
}
