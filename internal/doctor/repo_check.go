package doctor

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shareful-ai/shareful/internal/git"
	"github.com/shareful-ai/shareful/internal/index"
	"github.com/shareful-ai/shareful/internal/paths"
	"github.com/shareful-ai/shareful/internal/repo"
)

// RepoCheck verifies that a share repository can be located and that its
// shares directory exists.
type RepoCheck struct {
	startDir   string
	flagRepo   string
	configRepo string
}

var _ Check = (*RepoCheck)(nil)

// NewRepoCheck creates a repository location check. The arguments mirror
// repo.Locate: an explicit --repo flag wins, then the config value, then
// a walk up from startDir.
func NewRepoCheck(startDir, flagRepo, configRepo string) *RepoCheck {
	return &RepoCheck{startDir: startDir, flagRepo: flagRepo, configRepo: configRepo}
}

// Name returns the unique identifier for this check.
func (c *RepoCheck) Name() string {
	return "repository"
}

// Category returns the grouping for this check.
func (c *RepoCheck) Category() string {
	return "repository"
}

// Run executes the repository location check.
func (c *RepoCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	root, err := repo.Locate(c.startDir, c.flagRepo, c.configRepo)
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("no share repository found: %v", err)
		result.FixHint = "run 'shareful init' to create a repository"
		return result
	}

	result.Details = map[string]any{"root": root}

	sharesDir := filepath.Join(root, paths.SharesDirName)
	entries, err := os.ReadDir(sharesDir)
	if err != nil {
		if os.IsNotExist(err) {
			result.Status = SeverityWarning
			result.Message = "repository has no shares directory"
			result.FixHint = "create the shares directory under " + root
			return result
		}
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot read shares directory: %v", err)
		return result
	}

	count := 0
	for _, e := range entries {
		if e.IsDir() {
			count++
		}
	}
	result.Details["shares"] = count

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("repository at %s with %d share(s)", root, count)
	return result
}

// CacheCheck verifies that the scan cache, when present, can be opened.
type CacheCheck struct {
	root string
}

var _ Check = (*CacheCheck)(nil)

// NewCacheCheck creates a cache check for the repository at root.
// An empty root means no repository was located.
func NewCacheCheck(root string) *CacheCheck {
	return &CacheCheck{root: root}
}

// Name returns the unique identifier for this check.
func (c *CacheCheck) Name() string {
	return "cache"
}

// Category returns the grouping for this check.
func (c *CacheCheck) Category() string {
	return "cache"
}

// Run executes the cache check.
func (c *CacheCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	if c.root == "" {
		result.Status = SeverityInfo
		result.Message = "no repository located; cache not checked"
		return result
	}

	path := filepath.Join(c.root, paths.MarkerDirName, paths.IndexFileName)
	result.Details = map[string]any{"path": path}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		result.Status = SeverityInfo
		result.Message = "no cache yet; it is built on the first scan"
		return result
	}

	ix, err := index.Open(path)
	if err != nil {
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("cache cannot be opened: %v", err)
		result.FixHint = fmt.Sprintf("remove %s; the cache rebuilds on the next scan", path)
		return result
	}
	defer ix.Close()

	entries := ix.Len()
	result.Details["entries"] = entries

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("cache holds %d entries", entries)
	return result
}

// GitCheck reports whether the repository is under git version control.
// Absence is informational; only publish requires git.
type GitCheck struct {
	root string
}

var _ Check = (*GitCheck)(nil)

// NewGitCheck creates a git presence check for the repository at root.
func NewGitCheck(root string) *GitCheck {
	return &GitCheck{root: root}
}

// Name returns the unique identifier for this check.
func (c *GitCheck) Name() string {
	return "git"
}

// Category returns the grouping for this check.
func (c *GitCheck) Category() string {
	return "git"
}

// Run executes the git presence check.
func (c *GitCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	if c.root == "" {
		result.Status = SeverityInfo
		result.Message = "no repository located; git not checked"
		return result
	}

	if !git.IsRepo(c.root) {
		result.Status = SeverityInfo
		result.Message = "not a git repository; publish requires one"
		result.FixHint = "run 'git init' in " + c.root
		return result
	}

	result.Status = SeverityPass
	result.Message = "git repository detected"

	if branch, err := git.CurrentBranch(c.root); err == nil {
		result.Details = map[string]any{"branch": branch}
		result.Message = fmt.Sprintf("git repository on branch %s", branch)
	}

	return result
}
