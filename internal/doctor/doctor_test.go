package doctor

import (
	"testing"
	"time"
)

// stubCheck is a minimal Check returning a canned result.
type stubCheck struct {
	name     string
	category string
	result   *CheckResult
}

func (c *stubCheck) Name() string      { return c.name }
func (c *stubCheck) Category() string  { return c.category }
func (c *stubCheck) Run() *CheckResult { return c.result }

func TestNewRunner(t *testing.T) {
	r := NewRunner()
	if r == nil {
		t.Fatal("NewRunner returned nil")
	}
	if len(r.Checks()) != 0 {
		t.Errorf("NewRunner().Checks() = %d, want 0", len(r.Checks()))
	}
}

func TestRunner_AddCheck(t *testing.T) {
	r := NewRunner()
	names := []string{"first", "second", "third"}

	for _, name := range names {
		r.AddCheck(&stubCheck{name: name})
	}

	checks := r.Checks()
	if len(checks) != 3 {
		t.Fatalf("AddCheck: checks count = %d, want 3", len(checks))
	}
	for i, want := range names {
		if checks[i].Name() != want {
			t.Errorf("AddCheck order: checks[%d].Name() = %q, want %q", i, checks[i].Name(), want)
		}
	}
}

func TestRunner_Run(t *testing.T) {
	tests := []struct {
		name         string
		statuses     []Severity
		wantPassed   int
		wantInfo     int
		wantWarnings int
		wantErrors   int
	}{
		{
			name:     "empty runner",
			statuses: nil,
		},
		{
			name:       "single pass",
			statuses:   []Severity{SeverityPass},
			wantPassed: 1,
		},
		{
			name:     "single info",
			statuses: []Severity{SeverityInfo},
			wantInfo: 1,
		},
		{
			name:         "single warning",
			statuses:     []Severity{SeverityWarning},
			wantWarnings: 1,
		},
		{
			name:       "single error",
			statuses:   []Severity{SeverityError},
			wantErrors: 1,
		},
		{
			name: "mixed severities",
			statuses: []Severity{
				SeverityPass, SeverityPass, SeverityInfo,
				SeverityWarning, SeverityWarning, SeverityError,
			},
			wantPassed:   2,
			wantInfo:     1,
			wantWarnings: 2,
			wantErrors:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner()
			for _, status := range tt.statuses {
				r.AddCheck(&stubCheck{result: &CheckResult{Status: status}})
			}

			before := time.Now().UTC()
			report := r.Run()
			after := time.Now().UTC()

			if report.Timestamp.Before(before) || report.Timestamp.After(after) {
				t.Errorf("Timestamp %v not in expected range [%v, %v]",
					report.Timestamp, before, after)
			}

			if len(report.Results) != len(tt.statuses) {
				t.Errorf("Results count = %d, want %d", len(report.Results), len(tt.statuses))
			}

			if report.Summary.Passed != tt.wantPassed {
				t.Errorf("Summary.Passed = %d, want %d", report.Summary.Passed, tt.wantPassed)
			}
			if report.Summary.Info != tt.wantInfo {
				t.Errorf("Summary.Info = %d, want %d", report.Summary.Info, tt.wantInfo)
			}
			if report.Summary.Warnings != tt.wantWarnings {
				t.Errorf("Summary.Warnings = %d, want %d", report.Summary.Warnings, tt.wantWarnings)
			}
			if report.Summary.Errors != tt.wantErrors {
				t.Errorf("Summary.Errors = %d, want %d", report.Summary.Errors, tt.wantErrors)
			}
		})
	}
}

func TestRunner_Run_ResultsOrder(t *testing.T) {
	r := NewRunner()
	names := []string{"first", "second", "third"}
	statuses := []Severity{SeverityPass, SeverityWarning, SeverityError}

	for i, name := range names {
		r.AddCheck(&stubCheck{result: &CheckResult{Name: name, Status: statuses[i]}})
	}

	report := r.Run()

	// Results should be in the same order as checks were added
	for i, want := range names {
		if report.Results[i].Name != want {
			t.Errorf("Results[%d].Name = %q, want %q", i, report.Results[i].Name, want)
		}
	}
}

func TestReport_HasErrors(t *testing.T) {
	tests := []struct {
		name   string
		errors int
		want   bool
	}{
		{"no errors", 0, false},
		{"one error", 1, true},
		{"multiple errors", 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Report{Summary: Summary{Errors: tt.errors}}
			if got := r.HasErrors(); got != tt.want {
				t.Errorf("HasErrors() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReport_HasWarnings(t *testing.T) {
	r := &Report{Summary: Summary{Warnings: 0, Errors: 10}}
	if r.HasWarnings() {
		t.Error("HasWarnings() = true when only errors present, want false")
	}

	r = &Report{Summary: Summary{Warnings: 1}}
	if !r.HasWarnings() {
		t.Error("HasWarnings() = false when warnings present, want true")
	}
}

func TestReport_ZeroValue(t *testing.T) {
	var r Report

	if r.HasErrors() {
		t.Error("zero-value HasErrors() = true, want false")
	}
	if r.HasWarnings() {
		t.Error("zero-value HasWarnings() = true, want false")
	}
	if r.Timestamp != (time.Time{}) {
		t.Error("zero-value Timestamp should be zero time")
	}
	if r.Results != nil {
		t.Error("zero-value Results should be nil")
	}
}

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityPass, "pass"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.severity.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.severity, got, tt.want)
		}
	}
}
