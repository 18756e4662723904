// Package share defines the canonical share document model for the
// shareful.ai convention: a SHARE.md file with YAML frontmatter describing
// one coding solution, plus a markdown body with four required sections.
package share

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"
	"time"
)

// Frontmatter field names, in the order they are validated and rendered.
const (
	FieldTitle        = "title"
	FieldSlug         = "slug"
	FieldTags         = "tags"
	FieldProblem      = "problem"
	FieldSolutionType = "solution_type"
	FieldCreated      = "created"
)

// Fields returns the required frontmatter field names in canonical order.
func Fields() []string {
	return []string{FieldTitle, FieldSlug, FieldTags, FieldProblem, FieldSolutionType, FieldCreated}
}

// Required body section headings, exact and case-sensitive.
const (
	SectionProblem    = "Problem"
	SectionSolution   = "Solution"
	SectionWhyItWorks = "Why It Works"
	SectionContext    = "Context"
)

// Sections returns the required level-2 heading texts in canonical order.
func Sections() []string {
	return []string{SectionProblem, SectionSolution, SectionWhyItWorks, SectionContext}
}

// Field constraints from the shareful.ai schema.
const (
	// MaxTitleLen is the maximum title length in runes.
	MaxTitleLen = 128

	// MaxSlugLen is the maximum slug length in runes.
	MaxSlugLen = 64

	// MinTags and MaxTags bound the number of tag entries.
	MinTags = 1
	MaxTags = 10

	// MaxTagLen is the maximum length of a single tag in runes.
	MaxTagLen = 32

	// MaxProblemLen is the maximum problem statement length in runes.
	MaxProblemLen = 256

	// DateLayout is the required format for the created field.
	DateLayout = "2006-01-02"
)

// SlugPattern is the full-match constraint on slug values: lowercase
// letters, digits, and hyphens only.
var SlugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Solution type values classifying a share's intent.
const (
	TypeFix        = "fix"
	TypeWorkaround = "workaround"
	TypePattern    = "pattern"
	TypeReference  = "reference"
	TypeConfig     = "config"
)

// SolutionTypes returns the fixed set of valid solution_type values.
func SolutionTypes() []string {
	return []string{TypeFix, TypeWorkaround, TypePattern, TypeReference, TypeConfig}
}

// ValidSolutionType reports whether t is a member of the solution type enum.
func ValidSolutionType(t string) bool {
	switch t {
	case TypeFix, TypeWorkaround, TypePattern, TypeReference, TypeConfig:
		return true
	}
	return false
}

// Frontmatter is the YAML header of a SHARE.md document.
//
// Created stays a string rather than a time.Time so that malformed dates
// survive parsing and can be reported as validation violations instead of
// decode errors.
type Frontmatter struct {
	// Title is a short human-readable name for the share.
	Title string `yaml:"title" json:"title"`

	// Slug identifies the share and names its directory under shares/.
	Slug string `yaml:"slug" json:"slug"`

	// Tags classify the share for search and export.
	Tags []string `yaml:"tags" json:"tags"`

	// Problem is a one-sentence statement of what goes wrong.
	Problem string `yaml:"problem" json:"problem"`

	// SolutionType is one of the values in SolutionTypes.
	SolutionType string `yaml:"solution_type" json:"solution_type"`

	// Created is the authoring date in YYYY-MM-DD form.
	Created string `yaml:"created" json:"created"`
}

// CreatedDate parses the created field. The zero time and an error are
// returned when the field does not hold a valid calendar date.
func (f *Frontmatter) CreatedDate() (time.Time, error) {
	return time.Parse(DateLayout, f.Created)
}

// Document is a fully parsed SHARE.md file.
type Document struct {
	Frontmatter Frontmatter
	Body        string
}

// Headings extracts the level-2 markdown headings from body in order of
// appearance. A heading line begins with exactly "## " followed by
// non-empty text; the returned values are trimmed of surrounding
// whitespace. Deeper headings ("###") do not match.
func Headings(body []byte) []string {
	var headings []string
	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		rest, ok := strings.CutPrefix(line, "## ")
		if !ok {
			continue
		}
		text := strings.TrimSpace(rest)
		if text == "" {
			continue
		}
		headings = append(headings, text)
	}
	return headings
}

// HeadingSet returns the headings of body as a membership set.
func HeadingSet(body []byte) map[string]bool {
	set := make(map[string]bool)
	for _, h := range Headings(body) {
		set[h] = true
	}
	return set
}
