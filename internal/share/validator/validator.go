// Package validator checks share documents against the shareful.ai schema:
// six constrained frontmatter fields and four required body sections.
//
// Validation never fails on malformed content; every deviation is collected
// into a Result so an author sees all problems in one pass. The only error
// return is for a nil document, which is a caller bug rather than a content
// problem.
package validator

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/internal/share"
	"github.com/shareful-ai/shareful/pkg/frontmatter"
)

// ErrNilInput indicates Validate was called with a nil document.
// An empty document is valid input; a nil one is a programming error.
var ErrNilInput = errors.New("nil document")

// Code identifies the kind of violation.
type Code string

// Violation codes.
const (
	// CodeMissingFrontmatter means no delimited YAML block opens the document.
	CodeMissingFrontmatter Code = "missing_frontmatter"

	// CodeInvalidFrontmatterSyntax means the delimited block does not parse
	// as a YAML mapping.
	CodeInvalidFrontmatterSyntax Code = "invalid_frontmatter_syntax"

	// CodeMissingField means a required frontmatter key is absent.
	CodeMissingField Code = "missing_field"

	// CodeInvalidField means a required frontmatter key violates its constraint.
	CodeInvalidField Code = "invalid_field"

	// CodeMissingSection means a required level-2 body heading is absent.
	CodeMissingSection Code = "missing_section"
)

// Reason identifies which constraint an invalid field failed.
type Reason string

// Constraint reasons for CodeInvalidField.
const (
	ReasonType    Reason = "type"
	ReasonLength  Reason = "length"
	ReasonPattern Reason = "pattern"
	ReasonEnum    Reason = "enum"
	ReasonDate    Reason = "date"
)

// Violation is a single reported deviation from the share schema.
type Violation struct {
	// Code is the kind of violation.
	Code Code `json:"code"`

	// Field is the frontmatter field or section name the violation refers
	// to. Empty for structural violations.
	Field string `json:"field,omitempty"`

	// Reason names the failed constraint for CodeInvalidField.
	Reason Reason `json:"reason,omitempty"`

	// Message is a human-readable description of the problem.
	Message string `json:"message"`

	// Value is the offending value where it helps locate the problem.
	Value any `json:"value,omitempty"`
}

// Error implements the error interface.
func (v Violation) Error() string {
	var sb strings.Builder
	sb.WriteString(string(v.Code))
	if v.Field != "" {
		sb.WriteString(": ")
		sb.WriteString(v.Field)
	}
	sb.WriteString(": ")
	sb.WriteString(v.Message)
	if v.Value != nil {
		fmt.Fprintf(&sb, " (got %v)", v.Value)
	}
	return sb.String()
}

// Result aggregates the violations found in one document, ordered
// structural first, then fields in canonical field order, then sections in
// canonical section order.
type Result struct {
	Violations []Violation `json:"violations"`
}

// IsValid reports whether the document satisfied every constraint.
func (r *Result) IsValid() bool {
	return r != nil && len(r.Violations) == 0
}

func (r *Result) add(v Violation) {
	r.Violations = append(r.Violations, v)
}

// Validator validates share documents. It is stateless and safe for
// concurrent use from any number of goroutines.
type Validator struct{}

// New creates a Validator.
func New() *Validator {
	return &Validator{}
}

// Validate checks raw SHARE.md content against the share schema.
//
// The returned error is non-nil only for a nil doc. All content problems,
// including a missing or unparseable frontmatter block, are reported as
// violations in the Result. A malformed frontmatter block suppresses
// field-level checks but never section checks, which then run over the
// full text.
func (v *Validator) Validate(doc []byte) (*Result, error) {
	if doc == nil {
		return nil, ErrNilInput
	}

	result := &Result{}

	matter, body, err := frontmatter.Split(doc)
	switch {
	case err == nil:
		checkFields(matter, result)
	default:
		// ErrMissing and ErrUnterminated both mean no well-formed
		// delimiter pair; Split hands back the full document as body so
		// section checks still run.
		result.add(Violation{
			Code:    CodeMissingFrontmatter,
			Message: "no '---' delimited YAML frontmatter block at the top of the document",
		})
	}

	checkSections(body, result)
	return result, nil
}

// checkFields parses the raw frontmatter bytes and applies every field
// constraint independently, recording at most one violation per field.
func checkFields(matter []byte, result *Result) {
	fields, err := decodeMapping(matter)
	if err != nil {
		result.add(Violation{
			Code:    CodeInvalidFrontmatterSyntax,
			Message: "frontmatter does not parse as a YAML mapping",
		})
		return
	}

	for _, name := range share.Fields() {
		node, ok := fields[name]
		if !ok {
			result.add(Violation{
				Code:    CodeMissingField,
				Field:   name,
				Message: fmt.Sprintf("required field %q is missing", name),
			})
			continue
		}
		if violation := checkField(name, node); violation != nil {
			result.add(*violation)
		}
	}
}

// decodeMapping parses raw YAML into a field-name to node map. It fails
// when the content is not well-formed YAML or its top level is not a
// mapping.
func decodeMapping(matter []byte) (map[string]*yaml.Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(matter, &root); err != nil {
		return nil, err
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, errors.New("empty frontmatter")
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, errors.New("frontmatter is not a mapping")
	}

	fields := make(map[string]*yaml.Node, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i]
		if key.Kind != yaml.ScalarNode {
			continue
		}
		fields[key.Value] = mapping.Content[i+1]
	}
	return fields, nil
}

// checkField applies one field's constraints in fixed order: YAML kind
// first, then length, then the field-specific pattern, enum, or date rule.
func checkField(name string, node *yaml.Node) *Violation {
	switch name {
	case share.FieldTitle:
		return checkTitle(node)
	case share.FieldSlug:
		return checkSlug(node)
	case share.FieldTags:
		return checkTags(node)
	case share.FieldProblem:
		return checkProblem(node)
	case share.FieldSolutionType:
		return checkSolutionType(node)
	case share.FieldCreated:
		return checkCreated(node)
	}
	return nil
}

// scalarString returns the string value of node when it is a YAML string
// scalar. Nulls, non-string scalars, sequences, and mappings all fail.
func scalarString(node *yaml.Node) (string, bool) {
	if node.Kind != yaml.ScalarNode || node.Tag != "!!str" {
		return "", false
	}
	return node.Value, true
}

func invalidType(field, want string) *Violation {
	return &Violation{
		Code:    CodeInvalidField,
		Field:   field,
		Reason:  ReasonType,
		Message: fmt.Sprintf("%s must be a %s", field, want),
	}
}

func checkTitle(node *yaml.Node) *Violation {
	s, ok := scalarString(node)
	if !ok {
		return invalidType(share.FieldTitle, "string")
	}
	if n := utf8.RuneCountInString(s); n < 1 || n > share.MaxTitleLen {
		return &Violation{
			Code:    CodeInvalidField,
			Field:   share.FieldTitle,
			Reason:  ReasonLength,
			Message: fmt.Sprintf("title must be between 1 and %d characters", share.MaxTitleLen),
			Value:   s,
		}
	}
	return nil
}

func checkSlug(node *yaml.Node) *Violation {
	s, ok := scalarString(node)
	if !ok {
		return invalidType(share.FieldSlug, "string")
	}
	if n := utf8.RuneCountInString(s); n < 1 || n > share.MaxSlugLen {
		return &Violation{
			Code:    CodeInvalidField,
			Field:   share.FieldSlug,
			Reason:  ReasonLength,
			Message: fmt.Sprintf("slug must be between 1 and %d characters", share.MaxSlugLen),
			Value:   s,
		}
	}
	if !share.SlugPattern.MatchString(s) {
		return &Violation{
			Code:    CodeInvalidField,
			Field:   share.FieldSlug,
			Reason:  ReasonPattern,
			Message: "slug may contain only lowercase letters, digits, and hyphens",
			Value:   s,
		}
	}
	return nil
}

func checkTags(node *yaml.Node) *Violation {
	if node.Kind != yaml.SequenceNode {
		return invalidType(share.FieldTags, "sequence of strings")
	}
	if n := len(node.Content); n < share.MinTags || n > share.MaxTags {
		return &Violation{
			Code:    CodeInvalidField,
			Field:   share.FieldTags,
			Reason:  ReasonLength,
			Message: fmt.Sprintf("tags must contain between %d and %d entries", share.MinTags, share.MaxTags),
			Value:   n,
		}
	}
	for _, entry := range node.Content {
		tag, ok := scalarString(entry)
		if !ok {
			return invalidType(share.FieldTags, "sequence of strings")
		}
		if n := utf8.RuneCountInString(tag); n < 1 || n > share.MaxTagLen {
			return &Violation{
				Code:    CodeInvalidField,
				Field:   share.FieldTags,
				Reason:  ReasonLength,
				Message: fmt.Sprintf("each tag must be between 1 and %d characters", share.MaxTagLen),
				Value:   tag,
			}
		}
		if strings.ToLower(tag) != tag {
			return &Violation{
				Code:    CodeInvalidField,
				Field:   share.FieldTags,
				Reason:  ReasonPattern,
				Message: "tags must be lowercase",
				Value:   tag,
			}
		}
	}
	return nil
}

func checkProblem(node *yaml.Node) *Violation {
	s, ok := scalarString(node)
	if !ok {
		return invalidType(share.FieldProblem, "string")
	}
	if utf8.RuneCountInString(s) > share.MaxProblemLen {
		return &Violation{
			Code:    CodeInvalidField,
			Field:   share.FieldProblem,
			Reason:  ReasonLength,
			Message: fmt.Sprintf("problem must be at most %d characters", share.MaxProblemLen),
		}
	}
	return nil
}

func checkSolutionType(node *yaml.Node) *Violation {
	s, ok := scalarString(node)
	if !ok {
		return invalidType(share.FieldSolutionType, "string")
	}
	if !share.ValidSolutionType(s) {
		return &Violation{
			Code:    CodeInvalidField,
			Field:   share.FieldSolutionType,
			Reason:  ReasonEnum,
			Message: "solution_type must be one of: " + strings.Join(share.SolutionTypes(), ", "),
			Value:   s,
		}
	}
	return nil
}

func checkCreated(node *yaml.Node) *Violation {
	// An unquoted YYYY-MM-DD scalar resolves to !!timestamp in YAML, so
	// both string and timestamp tags are acceptable kinds here.
	if node.Kind != yaml.ScalarNode || (node.Tag != "!!str" && node.Tag != "!!timestamp") {
		return invalidType(share.FieldCreated, "string")
	}
	if _, err := time.Parse(share.DateLayout, node.Value); err != nil {
		return &Violation{
			Code:    CodeInvalidField,
			Field:   share.FieldCreated,
			Reason:  ReasonDate,
			Message: "created must be a calendar date in YYYY-MM-DD form",
			Value:   node.Value,
		}
	}
	return nil
}

// checkSections records a violation for each required heading absent from
// the body, in canonical section order. Matching is exact and
// case-sensitive.
func checkSections(body []byte, result *Result) {
	present := share.HeadingSet(body)
	for _, section := range share.Sections() {
		if !present[section] {
			result.add(Violation{
				Code:    CodeMissingSection,
				Field:   section,
				Message: fmt.Sprintf("required section %q is missing", "## "+section),
			})
		}
	}
}
