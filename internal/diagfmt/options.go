package diagfmt

import (
	"github.com/manpen/pace26checker/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode maps a flag value to a PathMode.
func ParsePathMode(s string) (PathMode, bool) {
	switch s {
	case "", "auto":
		return PathModeAuto, true
	case "absolute":
		return PathModeAbsolute, true
	case "relative":
		return PathModeRelative, true
	case "basename":
		return PathModeBasename, true
	}
	return PathModeAuto, false
}

func (m PathMode) String() string {
	switch m {
	case PathModeAbsolute:
		return "absolute"
	case PathModeRelative:
		return "relative"
	case PathModeBasename:
		return "basename"
	default:
		return "auto"
	}
}

// formatPath renders the file of span according to mode.
func formatPath(fs *source.FileSet, span source.Span, mode PathMode) string {
	f := fs.Get(span.File)
	baseDir := ""
	if mode == PathModeRelative {
		baseDir = fs.BaseDir()
	}
	return f.FormatPath(mode.String(), baseDir)
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	ShowNotes bool
	// Footer prints the accepted/rejected line after the list.
	Footer bool
}

// JSONOpts configures JSON and msgpack output of diagnostics.
type JSONOpts struct {
	PathMode     PathMode
	IncludeNotes bool
	Indent       bool
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
}
