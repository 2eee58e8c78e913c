// Package testkit holds checks shared by tests and fuzz targets.
package testkit

import (
	"fmt"
	"slices"
	"strings"

	"github.com/manpen/pace26checker/internal/diag"
	"github.com/manpen/pace26checker/internal/source"
)

// CheckVerdictInvariants runs a minimal set of invariants on a verdict:
// 1) OK is false whenever an error is listed
// 2) every code is a known code and every message a non-empty single line
// 3) every span points into a registered file and not past its last line
func CheckVerdictInvariants(v diag.Verdict, fs *source.FileSet) error {
	known := diag.Codes()
	for i, d := range v.Diagnostics {
		if d.IsError() && v.OK {
			return fmt.Errorf("diagnostic %d (%s) is an error but the verdict is ok", i, d.Code.ID())
		}
		if !slices.Contains(known, d.Code) {
			return fmt.Errorf("diagnostic %d has unknown code %d", i, d.Code)
		}
		if d.Message == "" || strings.ContainsAny(d.Message, "\r\n") {
			return fmt.Errorf("diagnostic %d (%s) has a bad message %q", i, d.Code.ID(), d.Message)
		}
		if err := checkSpan(d.Primary, fs); err != nil {
			return fmt.Errorf("diagnostic %d (%s): %w", i, d.Code.ID(), err)
		}
		for j, n := range d.Notes {
			// timing notes carry no location
			if d.Code == diag.ObsTimings {
				continue
			}
			if err := checkSpan(n.Span, fs); err != nil {
				return fmt.Errorf("diagnostic %d (%s) note %d: %w", i, d.Code.ID(), j, err)
			}
		}
	}
	if v.Dropped < 0 {
		return fmt.Errorf("negative dropped count %d", v.Dropped)
	}
	return nil
}

func checkSpan(sp source.Span, fs *source.FileSet) error {
	if fs == nil {
		return nil
	}
	if !fs.Has(sp.File) {
		return fmt.Errorf("span %s points to unregistered file %d", sp, sp.File)
	}
	if sp.Line == 0 && sp.Field != 0 {
		return fmt.Errorf("span %s has a field but no line", sp)
	}
	f := fs.Get(sp.File)
	// an overlong line is reported one past the last complete line
	if f.Lines > 0 && sp.Line > f.Lines+1 {
		return fmt.Errorf("span %s is past the last line %d of %s", sp, f.Lines, f.Path)
	}
	return nil
}
