package diag

// Verdict is the aggregated outcome of one lint or check call.
// OK is true iff no error-severity diagnostic was produced.
type Verdict struct {
	OK          bool         `json:"ok" msgpack:"ok"`
	Diagnostics []Diagnostic `json:"diagnostics" msgpack:"diagnostics"`
	// Dropped counts diagnostics cut by the configured limit.
	Dropped int `json:"dropped,omitempty" msgpack:"dropped,omitempty"`
}

// NewVerdict concatenates stage bags in the given order, preserving the
// emission order inside every bag. Nil bags are skipped.
func NewVerdict(bags ...*Bag) Verdict {
	total := 0
	for _, b := range bags {
		if b != nil {
			total += b.Len()
		}
	}
	v := Verdict{
		OK:          true,
		Diagnostics: make([]Diagnostic, 0, total),
	}
	for _, b := range bags {
		if b == nil {
			continue
		}
		v.Diagnostics = append(v.Diagnostics, b.Items()...)
		v.Dropped += b.Dropped()
		if b.HasErrors() {
			v.OK = false
		}
	}
	return v
}

// Errors returns the number of error diagnostics.
func (v Verdict) Errors() int {
	return v.count(SevError)
}

// Warnings returns the number of warning diagnostics.
func (v Verdict) Warnings() int {
	return v.count(SevWarning)
}

// Codes returns the codes of all diagnostics in order.
func (v Verdict) Codes() []Code {
	out := make([]Code, len(v.Diagnostics))
	for i, d := range v.Diagnostics {
		out[i] = d.Code
	}
	return out
}

// Has reports whether some diagnostic carries code.
func (v Verdict) Has(code Code) bool {
	for _, d := range v.Diagnostics {
		if d.Code == code {
			return true
		}
	}
	return false
}

func (v Verdict) count(sev Severity) int {
	n := 0
	for _, d := range v.Diagnostics {
		if d.Severity == sev {
			n++
		}
	}
	return n
}
