package source

import (
	"fmt"
)

// Span points at a place in a line-oriented input.
// Line and Field are 1-based; zero means "whole file" and "whole line" respectively.
type Span struct {
	File  FileID
	Line  uint32
	Field uint16
}

// FileSpan covers the whole input.
func FileSpan(file FileID) Span {
	return Span{File: file}
}

// LineSpan covers a whole line.
func LineSpan(file FileID, line uint32) Span {
	return Span{File: file, Line: line}
}

// FieldSpan points at a single whitespace-separated token of a line.
func FieldSpan(file FileID, line uint32, field int) Span {
	return Span{File: file, Line: line, Field: clampField(field)}
}

func (s Span) WholeFile() bool {
	return s.Line == 0
}

func (s Span) WholeLine() bool {
	return s.Field == 0
}

// AtField narrows a line span to one of its tokens.
func (s Span) AtField(field int) Span {
	if s.Line == 0 {
		return s
	}
	s.Field = clampField(field)
	return s
}

// Line-only view, the field reference is dropped.
func (s Span) LineOnly() Span {
	s.Field = 0
	return s
}

// Before orders spans by file, line and field; whole-line spans precede field spans.
func (s Span) Before(other Span) bool {
	if s.File != other.File {
		return s.File < other.File
	}
	if s.Line != other.Line {
		return s.Line < other.Line
	}
	return s.Field < other.Field
}

func (s Span) String() string {
	switch {
	case s.Line == 0:
		return fmt.Sprintf("%d", s.File)
	case s.Field == 0:
		return fmt.Sprintf("%d:%d", s.File, s.Line)
	default:
		return fmt.Sprintf("%d:%d:%d", s.File, s.Line, s.Field)
	}
}

func clampField(field int) uint16 {
	if field <= 0 {
		return 0
	}
	if field > int(^uint16(0)) {
		return ^uint16(0)
	}
	return uint16(field)
}
