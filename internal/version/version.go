// Package version carries build metadata of pace26check.
// The variables can be overridden at build time via -ldflags.
package version

import (
	"strings"

	"github.com/fatih/color"
)

var (
	// Version is the semantic version of the checker.
	Version = "0.4.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with the major, minor and patch parts highlighted.
// Anything that is not a dotted triple is returned unchanged.
func Colored() string {
	core, suffix := Version, ""
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core, suffix = core[:i], core[i:]
	}
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Version
	}
	return versionMajorColor.Sprint(parts[0]) + "." +
		versionMinorColor.Sprint(parts[1]) + "." +
		versionPatchColor.Sprint(parts[2]) + suffix
}

// String is the one-line description printed by `pace26check version`.
func String() string {
	var b strings.Builder
	b.WriteString("pace26check ")
	b.WriteString(Version)
	if GitCommit != "" {
		b.WriteString(" (" + GitCommit)
		if BuildDate != "" {
			b.WriteString(", " + BuildDate)
		}
		b.WriteByte(')')
	}
	return b.String()
}
