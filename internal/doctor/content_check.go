package doctor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shareful-ai/shareful/internal/paths"
	"github.com/shareful-ai/shareful/internal/repo"
)

// StructureCheck inspects the shares/ tree for layout problems: slug
// fields that disagree with their directory, directories without a
// SHARE.md, duplicate slugs, and stray files. Slug mismatches are
// fixable; the other findings need a human decision.
type StructureCheck struct {
	SlugFixer
	root string
}

var _ Check = (*StructureCheck)(nil)
var _ Fixer = (*StructureCheck)(nil)

// NewStructureCheck creates a structure check for the repository at root.
// An empty root means no repository was located.
func NewStructureCheck(root string) *StructureCheck {
	c := &StructureCheck{root: root}
	c.SlugFixer.backup = sharesBackup(filepath.Join(root, paths.SharesDirName))
	return c
}

// Name returns the unique identifier for this check.
func (c *StructureCheck) Name() string {
	return "structure"
}

// Category returns the grouping for this check.
func (c *StructureCheck) Category() string {
	return "repository"
}

// Run executes the structure check.
func (c *StructureCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	if c.root == "" {
		result.Status = SeverityInfo
		result.Message = "no repository located; structure not checked"
		return result
	}

	issues, err := repo.New(c.root).CheckStructure()
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot inspect repository structure: %v", err)
		return result
	}

	if len(issues) == 0 {
		c.setRewrites(nil)
		result.Status = SeverityPass
		result.Message = "repository structure is clean"
		return result
	}

	var rewrites []slugRewrite
	highest := SeverityPass
	issueDetails := make([]map[string]any, 0, len(issues))

	for _, issue := range issues {
		severity := SeverityError
		if issue.Kind == repo.IssueStrayFile {
			severity = SeverityWarning
		}
		if severity > highest {
			highest = severity
		}

		issueDetails = append(issueDetails, map[string]any{
			"kind":     string(issue.Kind),
			"path":     issue.Path,
			"problem":  issue.Message,
			"severity": severity.String(),
		})

		// The directory name is authoritative; the slug field follows it.
		if issue.Kind == repo.IssueSlugMismatch {
			rewrites = append(rewrites, slugRewrite{
				Path: filepath.Join(c.root, issue.Path),
				Slug: filepath.Base(filepath.Dir(issue.Path)),
			})
		}
	}

	c.setRewrites(rewrites)

	result.Status = highest
	result.Message = fmt.Sprintf("found %d structure issue(s)", len(issues))
	result.Details = map[string]any{"issues": issueDetails}
	result.Fixable = len(rewrites) > 0
	if result.Fixable {
		result.FixHint = "'shareful doctor --fix' rewrites mismatched slug fields"
	}
	return result
}

// TagCaseCheck finds share documents whose tags contain uppercase
// characters. Tags are defined as lowercase; the fix folds them.
type TagCaseCheck struct {
	TagCaseFixer
	root string
}

var _ Check = (*TagCaseCheck)(nil)
var _ Fixer = (*TagCaseCheck)(nil)

// NewTagCaseCheck creates a tag case check for the repository at root.
func NewTagCaseCheck(root string) *TagCaseCheck {
	c := &TagCaseCheck{root: root}
	c.TagCaseFixer.backup = sharesBackup(filepath.Join(root, paths.SharesDirName))
	return c
}

// Name returns the unique identifier for this check.
func (c *TagCaseCheck) Name() string {
	return "tag-case"
}

// Category returns the grouping for this check.
func (c *TagCaseCheck) Category() string {
	return "content"
}

// Run executes the tag case check.
func (c *TagCaseCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	if c.root == "" {
		result.Status = SeverityInfo
		result.Message = "no repository located; tags not checked"
		return result
	}

	entries, err := repo.New(c.root).Scan()
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot scan repository: %v", err)
		return result
	}

	var offenders []map[string]any
	var fixPaths []string

	for _, e := range entries {
		if e.Err != nil {
			continue
		}

		var bad []string
		for _, tag := range e.Meta.Tags {
			if strings.ToLower(tag) != tag {
				bad = append(bad, tag)
			}
		}
		if len(bad) == 0 {
			continue
		}

		offenders = append(offenders, map[string]any{
			"slug": e.Slug,
			"tags": bad,
		})
		fixPaths = append(fixPaths, e.Path)
	}

	c.setPaths(fixPaths)

	if len(offenders) == 0 {
		result.Status = SeverityPass
		result.Message = "all tags are lowercase"
		return result
	}

	result.Status = SeverityWarning
	result.Message = fmt.Sprintf("%d share(s) have uppercase tags", len(offenders))
	result.Details = map[string]any{"shares": offenders}
	result.Fixable = true
	result.FixHint = "'shareful doctor --fix' lowercases tags"
	return result
}

// CorpusCheck runs full document validation over every share and
// summarizes the outcome.
type CorpusCheck struct {
	root string
}

var _ Check = (*CorpusCheck)(nil)

// NewCorpusCheck creates a corpus validation check for the repository at root.
func NewCorpusCheck(root string) *CorpusCheck {
	return &CorpusCheck{root: root}
}

// Name returns the unique identifier for this check.
func (c *CorpusCheck) Name() string {
	return "validation"
}

// Category returns the grouping for this check.
func (c *CorpusCheck) Category() string {
	return "content"
}

// Run executes the corpus validation check.
func (c *CorpusCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	if c.root == "" {
		result.Status = SeverityInfo
		result.Message = "no repository located; documents not validated"
		return result
	}

	results, err := repo.New(c.root).CheckAll()
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot validate repository: %v", err)
		return result
	}

	if len(results) == 0 {
		result.Status = SeverityInfo
		result.Message = "no share documents yet"
		return result
	}

	var failures []map[string]any
	for _, fr := range results {
		if fr.Ok() {
			continue
		}

		detail := map[string]any{"path": fr.Path}
		if fr.Err != nil {
			detail["error"] = fr.Err.Error()
		} else {
			detail["violations"] = len(fr.Result.Violations)
		}
		failures = append(failures, detail)
	}

	if len(failures) == 0 {
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("all %d share document(s) pass validation", len(results))
		return result
	}

	result.Status = SeverityError
	result.Message = fmt.Sprintf("%d of %d share document(s) fail validation", len(failures), len(results))
	result.Details = map[string]any{"failures": failures}
	result.FixHint = "run 'shareful validate' for the full report"
	return result
}
