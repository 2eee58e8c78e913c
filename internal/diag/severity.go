package diag

// Severity ranks a diagnostic. Only SevError rejects a verdict.
type Severity uint8

const (
	// SevInfo carries data such as timings; it is never a finding.
	SevInfo Severity = iota
	// SevWarning is for cosmetic findings that never block acceptance.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Rejects reports whether a diagnostic of this severity flips the verdict.
func (s Severity) Rejects() bool { return s >= SevError }

// Paranoid is the severity under paranoid mode: warnings count as errors,
// info stays info.
func (s Severity) Paranoid() Severity {
	if s == SevWarning {
		return SevError
	}
	return s
}
