package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/shareful-ai/shareful/internal/errors"
)

// Format specifies the output format for validation reports.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// Reporter formats and writes validation results.
type Reporter struct {
	out    io.Writer
	format Format
}

// NewReporter creates a new Reporter.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{
		out:    out,
		format: format,
	}
}

// Report writes the validation result for a single document. The label
// names the document in text output; pass the file path, or an empty
// string when validating anonymous content.
func (r *Reporter) Report(label string, result *Result) error {
	if result == nil {
		return nil
	}

	switch r.format {
	case FormatJSON:
		return r.reportJSON(label, result)
	default:
		return r.reportText(label, result)
	}
}

// jsonReport is the serialized form of one document's result.
type jsonReport struct {
	Path       string      `json:"path,omitempty"`
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations,omitempty"`
}

func (r *Reporter) reportJSON(label string, result *Result) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	report := jsonReport{
		Path:       label,
		Valid:      result.IsValid(),
		Violations: result.Violations,
	}
	return errors.Wrap(enc.Encode(report), "encoding JSON report")
}

func (r *Reporter) reportText(label string, result *Result) error {
	subject := label
	if subject != "" {
		subject += ": "
	}

	if result.IsValid() {
		fmt.Fprintf(r.out, "%s%s\n", subject, color.GreenString("✓ valid"))
		return nil
	}

	fmt.Fprintf(r.out, "%s%s\n", subject,
		color.RedString("✗ %d violation(s)", len(result.Violations)))
	for _, v := range result.Violations {
		r.printViolation(v)
	}
	return nil
}

func (r *Reporter) printViolation(v Violation) {
	var sb strings.Builder
	sb.WriteString("  • ")

	if v.Field != "" {
		sb.WriteString(color.RedString(v.Field))
		sb.WriteString(": ")
	}
	sb.WriteString(v.Message)

	if v.Reason != "" {
		sb.WriteString(" ")
		sb.WriteString(color.New(color.FgHiBlack).Sprintf("(%s)", v.Reason))
	}

	if v.Value != nil {
		valStr := fmt.Sprintf("%v", v.Value)
		if len(valStr) > 50 {
			valStr = valStr[:47] + "..."
		}
		sb.WriteString(color.New(color.FgHiBlack).Sprintf(" [%s]", valStr))
	}

	fmt.Fprintln(r.out, sb.String())
}
