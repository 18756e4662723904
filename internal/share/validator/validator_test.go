package validator

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/shareful-ai/shareful/internal/share"
)

// fmLine values for a fully valid document. Tests override single entries
// to probe field independence.
func validFields() map[string]string {
	return map[string]string{
		"title":         `title: Fix X`,
		"slug":          `slug: fix-x`,
		"tags":          `tags: [bug]`,
		"problem":       `problem: X breaks.`,
		"solution_type": `solution_type: fix`,
		"created":       `created: "2026-02-08"`,
	}
}

// fieldOrder is the canonical field order used to build documents.
var fieldOrder = []string{"title", "slug", "tags", "problem", "solution_type", "created"}

const validBody = `
## Problem

X breaks under load.

## Solution

Restart with the right flag.

## Why It Works

The flag disables the broken path.

## Context

Applies to v2 and later.
`

// buildDoc assembles a SHARE.md document from frontmatter lines and a body.
func buildDoc(fields map[string]string, body string) []byte {
	var sb strings.Builder
	sb.WriteString("---\n")
	for _, name := range fieldOrder {
		if line, ok := fields[name]; ok {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	sb.WriteString("---\n")
	sb.WriteString(body)
	return []byte(sb.String())
}

// violationKey is the (code, field, reason) shape assertions compare on.
type violationKey struct {
	code   Code
	field  string
	reason Reason
}

func keysOf(result *Result) []violationKey {
	keys := make([]violationKey, 0, len(result.Violations))
	for _, v := range result.Violations {
		keys = append(keys, violationKey{code: v.Code, field: v.Field, reason: v.Reason})
	}
	return keys
}

func TestValidate_ValidDocument(t *testing.T) {
	v := New()
	result, err := v.Validate(buildDoc(validFields(), validBody))
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !result.IsValid() {
		t.Errorf("IsValid() = false, violations: %v", result.Violations)
	}
	if len(result.Violations) != 0 {
		t.Errorf("len(Violations) = %d, want 0", len(result.Violations))
	}
}

func TestValidate_NilInput(t *testing.T) {
	v := New()
	if _, err := v.Validate(nil); err != ErrNilInput {
		t.Errorf("Validate(nil) error = %v, want ErrNilInput", err)
	}
}

func TestValidate_EmptyInput(t *testing.T) {
	v := New()
	result, err := v.Validate([]byte{})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	want := []violationKey{
		{code: CodeMissingFrontmatter},
		{code: CodeMissingSection, field: "Problem"},
		{code: CodeMissingSection, field: "Solution"},
		{code: CodeMissingSection, field: "Why It Works"},
		{code: CodeMissingSection, field: "Context"},
	}
	if got := keysOf(result); !reflect.DeepEqual(got, want) {
		t.Errorf("violations = %v, want %v", got, want)
	}
}

func TestValidate_MissingFrontmatterStillChecksSections(t *testing.T) {
	// No frontmatter at all, but the body carries two of the required
	// headings; only the other two plus the structural violation appear.
	doc := []byte("## Problem\n\ntext\n\n## Solution\n\ntext\n")

	result, err := New().Validate(doc)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	want := []violationKey{
		{code: CodeMissingFrontmatter},
		{code: CodeMissingSection, field: "Why It Works"},
		{code: CodeMissingSection, field: "Context"},
	}
	if got := keysOf(result); !reflect.DeepEqual(got, want) {
		t.Errorf("violations = %v, want %v", got, want)
	}
}

func TestValidate_UnterminatedFrontmatter(t *testing.T) {
	doc := []byte("---\ntitle: Fix X\n" + validBody)

	result, err := New().Validate(doc)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if result.IsValid() {
		t.Fatal("IsValid() = true for unterminated frontmatter")
	}
	if result.Violations[0].Code != CodeMissingFrontmatter {
		t.Errorf("first violation = %v, want missing_frontmatter", result.Violations[0].Code)
	}
	// The body headings live after the lone delimiter; section checks run
	// over the full text and find them.
	for _, v := range result.Violations[1:] {
		if v.Code == CodeMissingSection {
			t.Errorf("unexpected missing_section %q", v.Field)
		}
	}
}

func TestValidate_InvalidYAMLSyntax(t *testing.T) {
	tests := []struct {
		name   string
		matter string
	}{
		{name: "malformed yaml", matter: "title: [unclosed\n"},
		{name: "scalar not mapping", matter: "just a scalar\n"},
		{name: "sequence not mapping", matter: "- a\n- b\n"},
		{name: "empty block", matter: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := []byte("---\n" + tt.matter + "---\n" + validBody)
			result, err := New().Validate(doc)
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}

			want := []violationKey{{code: CodeInvalidFrontmatterSyntax}}
			if got := keysOf(result); !reflect.DeepEqual(got, want) {
				t.Errorf("violations = %v, want %v", got, want)
			}
		})
	}
}

func TestValidate_FieldConstraints(t *testing.T) {
	tests := []struct {
		name string
		// field name -> replacement frontmatter line; a nil line drops
		// the field entirely.
		mutate map[string]string
		want   violationKey
	}{
		{
			name:   "title 129 chars",
			mutate: map[string]string{"title": "title: " + strings.Repeat("a", 129)},
			want:   violationKey{code: CodeInvalidField, field: "title", reason: ReasonLength},
		},
		{
			name:   "title empty",
			mutate: map[string]string{"title": `title: ""`},
			want:   violationKey{code: CodeInvalidField, field: "title", reason: ReasonLength},
		},
		{
			name:   "title not a string",
			mutate: map[string]string{"title": "title: [a, b]"},
			want:   violationKey{code: CodeInvalidField, field: "title", reason: ReasonType},
		},
		{
			name:   "title null",
			mutate: map[string]string{"title": "title:"},
			want:   violationKey{code: CodeInvalidField, field: "title", reason: ReasonType},
		},
		{
			name:   "slug uppercase",
			mutate: map[string]string{"slug": "slug: Fix-X"},
			want:   violationKey{code: CodeInvalidField, field: "slug", reason: ReasonPattern},
		},
		{
			name:   "slug underscore",
			mutate: map[string]string{"slug": "slug: fix_x"},
			want:   violationKey{code: CodeInvalidField, field: "slug", reason: ReasonPattern},
		},
		{
			name:   "slug too long",
			mutate: map[string]string{"slug": "slug: " + strings.Repeat("a", 65)},
			want:   violationKey{code: CodeInvalidField, field: "slug", reason: ReasonLength},
		},
		{
			name:   "tags empty sequence",
			mutate: map[string]string{"tags": "tags: []"},
			want:   violationKey{code: CodeInvalidField, field: "tags", reason: ReasonLength},
		},
		{
			name:   "tags eleven entries",
			mutate: map[string]string{"tags": "tags: [a, b, c, d, e, f, g, h, i, j, k]"},
			want:   violationKey{code: CodeInvalidField, field: "tags", reason: ReasonLength},
		},
		{
			name:   "tag entry 33 chars",
			mutate: map[string]string{"tags": "tags: [" + strings.Repeat("a", 33) + "]"},
			want:   violationKey{code: CodeInvalidField, field: "tags", reason: ReasonLength},
		},
		{
			name:   "tag entry uppercase",
			mutate: map[string]string{"tags": "tags: [Bug]"},
			want:   violationKey{code: CodeInvalidField, field: "tags", reason: ReasonPattern},
		},
		{
			name:   "tags not a sequence",
			mutate: map[string]string{"tags": "tags: bug"},
			want:   violationKey{code: CodeInvalidField, field: "tags", reason: ReasonType},
		},
		{
			name:   "tag entry not a string",
			mutate: map[string]string{"tags": "tags: [123]"},
			want:   violationKey{code: CodeInvalidField, field: "tags", reason: ReasonType},
		},
		{
			name:   "problem too long",
			mutate: map[string]string{"problem": "problem: " + strings.Repeat("x", 257)},
			want:   violationKey{code: CodeInvalidField, field: "problem", reason: ReasonLength},
		},
		{
			name:   "solution_type not in enum",
			mutate: map[string]string{"solution_type": "solution_type: hack"},
			want:   violationKey{code: CodeInvalidField, field: "solution_type", reason: ReasonEnum},
		},
		{
			name:   "created impossible date",
			mutate: map[string]string{"created": `created: "2026-13-40"`},
			want:   violationKey{code: CodeInvalidField, field: "created", reason: ReasonDate},
		},
		{
			name:   "created wrong format",
			mutate: map[string]string{"created": `created: "02/08/2026"`},
			want:   violationKey{code: CodeInvalidField, field: "created", reason: ReasonDate},
		},
		{
			name:   "created not a date kind",
			mutate: map[string]string{"created": "created: [2026]"},
			want:   violationKey{code: CodeInvalidField, field: "created", reason: ReasonType},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validFields()
			for name, line := range tt.mutate {
				fields[name] = line
			}

			result, err := New().Validate(buildDoc(fields, validBody))
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}

			// Field independence: exactly one violation, for the
			// mutated field only.
			want := []violationKey{tt.want}
			if got := keysOf(result); !reflect.DeepEqual(got, want) {
				t.Errorf("violations = %v, want %v", got, want)
			}
		})
	}
}

func TestValidate_BoundaryValuesAccepted(t *testing.T) {
	tests := []struct {
		name   string
		mutate map[string]string
	}{
		{name: "title exactly 128", mutate: map[string]string{"title": "title: " + strings.Repeat("a", 128)}},
		{name: "slug exactly 64", mutate: map[string]string{"slug": "slug: " + strings.Repeat("a", 64)}},
		{name: "ten tags", mutate: map[string]string{"tags": "tags: [a, b, c, d, e, f, g, h, i, j]"}},
		{name: "tag exactly 32", mutate: map[string]string{"tags": "tags: [" + strings.Repeat("a", 32) + "]"}},
		{name: "problem exactly 256", mutate: map[string]string{"problem": "problem: " + strings.Repeat("x", 256)}},
		{name: "unquoted created date", mutate: map[string]string{"created": "created: 2026-02-08"}},
		{name: "slug leading hyphen allowed", mutate: map[string]string{"slug": `slug: "-fix-"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validFields()
			for name, line := range tt.mutate {
				fields[name] = line
			}

			result, err := New().Validate(buildDoc(fields, validBody))
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if !result.IsValid() {
				t.Errorf("IsValid() = false, violations: %v", result.Violations)
			}
		})
	}
}

func TestValidate_MissingFields(t *testing.T) {
	for _, name := range fieldOrder {
		t.Run(name, func(t *testing.T) {
			fields := validFields()
			delete(fields, name)

			result, err := New().Validate(buildDoc(fields, validBody))
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}

			want := []violationKey{{code: CodeMissingField, field: name}}
			if got := keysOf(result); !reflect.DeepEqual(got, want) {
				t.Errorf("violations = %v, want %v", got, want)
			}
		})
	}
}

func TestValidate_SectionMatching(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []violationKey
	}{
		{
			name: "reverse order still valid",
			body: "## Context\n\nx\n\n## Why It Works\n\nx\n\n## Solution\n\nx\n\n## Problem\n\nx\n",
			want: nil,
		},
		{
			name: "lowercase heading does not match",
			body: "## problem\n\nx\n\n## Solution\n\nx\n\n## Why It Works\n\nx\n\n## Context\n\nx\n",
			want: []violationKey{{code: CodeMissingSection, field: "Problem"}},
		},
		{
			name: "level-3 heading does not match",
			body: "### Problem\n\nx\n\n## Solution\n\nx\n\n## Why It Works\n\nx\n\n## Context\n\nx\n",
			want: []violationKey{{code: CodeMissingSection, field: "Problem"}},
		},
		{
			name: "no space after hashes does not match",
			body: "##Problem\n\nx\n\n## Solution\n\nx\n\n## Why It Works\n\nx\n\n## Context\n\nx\n",
			want: []violationKey{{code: CodeMissingSection, field: "Problem"}},
		},
		{
			name: "indented heading does not match",
			body: "  ## Problem\n\nx\n\n## Solution\n\nx\n\n## Why It Works\n\nx\n\n## Context\n\nx\n",
			want: []violationKey{{code: CodeMissingSection, field: "Problem"}},
		},
		{
			name: "extra interior spaces tolerated by trim",
			body: "##  Problem \n\nx\n\n## Solution\n\nx\n\n## Why It Works\n\nx\n\n## Context\n\nx\n",
			want: nil,
		},
		{
			name: "all sections missing reported in canonical order",
			body: "plain text only\n",
			want: []violationKey{
				{code: CodeMissingSection, field: "Problem"},
				{code: CodeMissingSection, field: "Solution"},
				{code: CodeMissingSection, field: "Why It Works"},
				{code: CodeMissingSection, field: "Context"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := New().Validate(buildDoc(validFields(), tt.body))
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}

			got := keysOf(result)
			if len(got) == 0 {
				got = nil
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("violations = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidate_ViolationOrdering(t *testing.T) {
	// Counter-scenario: invalid slug plus missing Context. Field
	// violations precede section violations.
	fields := validFields()
	fields["slug"] = `slug: "Fix_X"`
	body := "## Problem\n\nx\n\n## Solution\n\nx\n\n## Why It Works\n\nx\n"

	result, err := New().Validate(buildDoc(fields, body))
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	want := []violationKey{
		{code: CodeInvalidField, field: "slug", reason: ReasonPattern},
		{code: CodeMissingSection, field: "Context"},
	}
	if got := keysOf(result); !reflect.DeepEqual(got, want) {
		t.Errorf("violations = %v, want %v", got, want)
	}
	if result.IsValid() {
		t.Error("IsValid() = true, want false")
	}
}

func TestValidate_FieldOrderIndependentOfYAMLOrder(t *testing.T) {
	// Fields written in reverse YAML order are still reported in
	// canonical field order.
	doc := []byte(`---
created: nonsense
title: ` + strings.Repeat("a", 200) + `
---
`)

	result, err := New().Validate(doc)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	want := []violationKey{
		{code: CodeInvalidField, field: "title", reason: ReasonLength},
		{code: CodeMissingField, field: "slug"},
		{code: CodeMissingField, field: "tags"},
		{code: CodeMissingField, field: "problem"},
		{code: CodeMissingField, field: "solution_type"},
		{code: CodeInvalidField, field: "created", reason: ReasonDate},
		{code: CodeMissingSection, field: "Problem"},
		{code: CodeMissingSection, field: "Solution"},
		{code: CodeMissingSection, field: "Why It Works"},
		{code: CodeMissingSection, field: "Context"},
	}
	if got := keysOf(result); !reflect.DeepEqual(got, want) {
		t.Errorf("violations = %v, want %v", got, want)
	}
}

func TestValidate_Deterministic(t *testing.T) {
	fields := validFields()
	fields["slug"] = "slug: BAD_SLUG"
	fields["tags"] = "tags: []"
	doc := buildDoc(fields, "## Problem\n")

	v := New()
	first, err := v.Validate(doc)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	second, err := v.Validate(doc)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated validation differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestValidate_CRLFDocument(t *testing.T) {
	doc := buildDoc(validFields(), validBody)
	crlf := strings.ReplaceAll(string(doc), "\n", "\r\n")

	result, err := New().Validate([]byte(crlf))
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !result.IsValid() {
		t.Errorf("IsValid() = false for CRLF document, violations: %v", result.Violations)
	}
}

func TestViolation_Error(t *testing.T) {
	v := Violation{
		Code:    CodeInvalidField,
		Field:   "slug",
		Reason:  ReasonPattern,
		Message: "slug may contain only lowercase letters, digits, and hyphens",
		Value:   "Fix_X",
	}
	got := v.Error()
	for _, part := range []string{"invalid_field", "slug", "Fix_X"} {
		if !strings.Contains(got, part) {
			t.Errorf("Error() = %q, missing %q", got, part)
		}
	}
}

func TestValidate_ScaffoldRoundTrip(t *testing.T) {
	// A freshly scaffolded share with valid frontmatter must validate
	// clean, otherwise create would emit documents its own validator
	// rejects.
	doc, err := share.Scaffold(share.Frontmatter{
		Title:        "Fix X",
		Slug:         "fix-x",
		Tags:         []string{"bug"},
		Problem:      "X breaks.",
		SolutionType: share.TypeFix,
		Created:      "2026-02-08",
	})
	if err != nil {
		t.Fatalf("Scaffold() error = %v", err)
	}

	result, err := New().Validate(doc)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !result.IsValid() {
		t.Errorf("scaffolded document failed validation: %v", result.Violations)
	}
}

func TestValidate_ConcurrentUse(t *testing.T) {
	v := New()
	doc := buildDoc(validFields(), validBody)

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			for j := 0; j < 50; j++ {
				result, err := v.Validate(doc)
				if err != nil {
					done <- err
					return
				}
				if !result.IsValid() {
					done <- fmt.Errorf("unexpected violations: %v", result.Violations)
					return
				}
			}
			done <- nil
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Fatal(err)
		}
	}
}
