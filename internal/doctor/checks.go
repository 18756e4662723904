package doctor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"gopkg.in/yaml.v3"

	"github.com/shareful-ai/shareful/internal/config"
	"github.com/shareful-ai/shareful/internal/redact"
	"github.com/shareful-ai/shareful/internal/repo"
)

// ConfigSyntaxCheck validates that the configuration file parses as YAML.
type ConfigSyntaxCheck struct {
	path string
}

var _ Check = (*ConfigSyntaxCheck)(nil)

// NewConfigSyntaxCheck creates a syntax check for the config file at path.
// An empty path means no config file is in use.
func NewConfigSyntaxCheck(path string) *ConfigSyntaxCheck {
	return &ConfigSyntaxCheck{path: path}
}

// Name returns the unique identifier for this check.
func (c *ConfigSyntaxCheck) Name() string {
	return "config-syntax"
}

// Category returns the grouping for this check.
func (c *ConfigSyntaxCheck) Category() string {
	return "config"
}

// Run executes the syntax validation check.
func (c *ConfigSyntaxCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	if c.path == "" {
		result.Status = SeverityInfo
		result.Message = "no config file in use (defaults apply)"
		return result
	}

	result.Details = map[string]any{"path": c.path}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			result.Status = SeverityInfo
			result.Message = "config file does not exist (defaults apply)"
			return result
		}
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot read config file: %v", err)
		return result
	}

	// Empty files are valid (no content to parse)
	if len(data) == 0 {
		result.Status = SeverityPass
		result.Message = "config file is empty"
		return result
	}

	var v map[string]any
	if err := yaml.Unmarshal(data, &v); err != nil {
		result.Status = SeverityError
		result.Message = formatYAMLError(err)
		result.FixHint = "fix the YAML syntax in " + c.path
		return result
	}

	result.Status = SeverityPass
	result.Message = "config file is valid YAML"
	return result
}

// formatYAMLError flattens yaml.v3 errors into a single message.
// Type errors carry one line-prefixed message per problem.
func formatYAMLError(err error) string {
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
		return "YAML error: " + typeErr.Errors[0]
	}
	return fmt.Sprintf("YAML error: %v", err)
}

// ConfigSemanticCheck validates configuration values beyond syntax:
// field constraints, that a configured repo path is actually a share
// repository, and that a configured editor resolves to an executable.
type ConfigSemanticCheck struct {
	cfg *config.Config

	// lookPath resolves a command name against PATH. Swappable in tests.
	lookPath func(string) (string, error)
}

var _ Check = (*ConfigSemanticCheck)(nil)

// NewConfigSemanticCheck creates a semantic check for the loaded config.
func NewConfigSemanticCheck(cfg *config.Config) *ConfigSemanticCheck {
	return &ConfigSemanticCheck{
		cfg:      cfg,
		lookPath: exec.LookPath,
	}
}

// Name returns the unique identifier for this check.
func (c *ConfigSemanticCheck) Name() string {
	return "config-semantics"
}

// Category returns the grouping for this check.
func (c *ConfigSemanticCheck) Category() string {
	return "config"
}

// semanticIssue is one configuration value problem.
type semanticIssue struct {
	Field    string
	Problem  string
	Severity Severity
}

// Run executes the semantic validation check.
func (c *ConfigSemanticCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	if c.cfg == nil {
		result.Status = SeverityInfo
		result.Message = "no configuration loaded"
		return result
	}

	var issues []semanticIssue

	for _, err := range config.Validate(c.cfg) {
		issues = append(issues, semanticIssue{
			Field:    fieldOf(err),
			Problem:  err.Error(),
			Severity: SeverityError,
		})
	}

	issues = append(issues, c.checkRepo()...)
	issues = append(issues, c.checkEditor()...)

	if len(issues) == 0 {
		result.Status = SeverityPass
		result.Message = "configuration is valid"
		return result
	}

	highest := SeverityPass
	issueDetails := make([]map[string]any, 0, len(issues))
	for _, issue := range issues {
		if issue.Severity > highest {
			highest = issue.Severity
		}
		m := map[string]any{
			"problem":  issue.Problem,
			"severity": issue.Severity.String(),
		}
		if issue.Field != "" {
			m["field"] = issue.Field
		}
		issueDetails = append(issueDetails, m)
	}

	result.Status = highest
	result.Message = fmt.Sprintf("found %d configuration issue(s)", len(issues))
	result.Details = map[string]any{
		"issues":         issueDetails,
		"publish_remote": redact.MaskURL(c.cfg.Publish.Remote),
	}
	result.FixHint = "edit the config with 'shareful config edit'"
	return result
}

// checkRepo verifies that a configured repo path points at a repository.
func (c *ConfigSemanticCheck) checkRepo() []semanticIssue {
	if c.cfg.Repo == "" {
		return nil
	}

	info, err := os.Stat(c.cfg.Repo)
	if err != nil {
		return []semanticIssue{{
			Field:    "repo",
			Problem:  fmt.Sprintf("repo path %s does not exist", c.cfg.Repo),
			Severity: SeverityWarning,
		}}
	}
	if !info.IsDir() {
		return []semanticIssue{{
			Field:    "repo",
			Problem:  fmt.Sprintf("repo path %s is not a directory", c.cfg.Repo),
			Severity: SeverityWarning,
		}}
	}
	if !repo.IsRoot(c.cfg.Repo) {
		return []semanticIssue{{
			Field:    "repo",
			Problem:  fmt.Sprintf("repo path %s is not a share repository", c.cfg.Repo),
			Severity: SeverityWarning,
		}}
	}

	return nil
}

// checkEditor verifies that a configured editor resolves to an executable.
func (c *ConfigSemanticCheck) checkEditor() []semanticIssue {
	if c.cfg.Editor == "" {
		return nil
	}

	if _, err := c.lookPath(c.cfg.Editor); err != nil {
		return []semanticIssue{{
			Field:    "editor",
			Problem:  fmt.Sprintf("editor %q not found in PATH", c.cfg.Editor),
			Severity: SeverityWarning,
		}}
	}

	return nil
}

// fieldOf extracts the field name from a typed validation error.
func fieldOf(err error) string {
	var pathErr *config.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Field
	}
	var refErr *config.RefError
	if errors.As(err, &refErr) {
		return refErr.Field
	}
	if errors.Is(err, config.ErrVersionTooLow) {
		return "version"
	}
	return ""
}
