package diag

import (
	"github.com/manpen/pace26checker/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

// IsError reports whether the diagnostic blocks acceptance.
func (d Diagnostic) IsError() bool {
	return d.Severity.Rejects()
}
