package doctor

import "time"

// Check is one diagnostic probe over the repository or configuration.
type Check interface {
	// Name identifies the check in reports, e.g. "structure".
	Name() string
	// Category groups checks in output: "config", "repository", "content".
	Category() string
	Run() *CheckResult
}

// Runner holds checks and executes them in registration order.
type Runner struct {
	checks []Check
}

func NewRunner() *Runner {
	return &Runner{}
}

// AddCheck appends c to the run order.
func (r *Runner) AddCheck(c Check) {
	r.checks = append(r.checks, c)
}

// Checks returns the registered checks in order.
func (r *Runner) Checks() []Check {
	return r.checks
}

// Run executes every check and tallies the outcomes. Checks run even
// when earlier ones fail, so one report shows everything wrong at once.
func (r *Runner) Run() *Report {
	report := &Report{
		Timestamp: time.Now().UTC(),
		Results:   make([]*CheckResult, 0, len(r.checks)),
	}
	for _, check := range r.checks {
		result := check.Run()
		report.Results = append(report.Results, result)
		report.Summary.tally(result.Status)
	}
	return report
}

// Report is the aggregate outcome of one doctor run.
type Report struct {
	Timestamp time.Time      `json:"timestamp"`
	Results   []*CheckResult `json:"results"`
	Summary   Summary        `json:"summary"`
	// Fixes records what --fix attempted, when it ran.
	Fixes []FixResult `json:"fixes,omitempty"`
}

// HasErrors reports whether any check ended at SeverityError.
func (r *Report) HasErrors() bool { return r.Summary.Errors > 0 }

// HasWarnings reports whether any check ended at SeverityWarning.
func (r *Report) HasWarnings() bool { return r.Summary.Warnings > 0 }
