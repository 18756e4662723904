// Package doctor diagnoses a share repository and the shareful
// configuration around it: config syntax and semantics, repository
// structure, slug/path correspondence, tag casing, and corpus health.
// Some findings can be repaired in place via the Fixer.
package doctor

// Severity ranks a check outcome.
type Severity int

const (
	SeverityPass Severity = iota
	SeverityInfo
	SeverityWarning
	// SeverityError marks findings that block publish.
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityPass:
		return "pass"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// CheckResult is the outcome of a single check.
type CheckResult struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Status   Severity `json:"status"`
	Message  string   `json:"message"`
	// Details carries check-specific context, e.g. the offending slugs.
	Details map[string]any `json:"details,omitempty"`
	// Fixable marks findings doctor --fix knows how to repair.
	Fixable bool   `json:"fixable,omitempty"`
	FixHint string `json:"fix_hint,omitempty"`
}

// Summary counts results by severity.
type Summary struct {
	Passed   int `json:"passed"`
	Info     int `json:"info"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

func (s *Summary) tally(sev Severity) {
	switch sev {
	case SeverityPass:
		s.Passed++
	case SeverityInfo:
		s.Info++
	case SeverityWarning:
		s.Warnings++
	case SeverityError:
		s.Errors++
	}
}
