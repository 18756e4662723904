package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/internal/paths"
	"github.com/shareful-ai/shareful/internal/share"
	"github.com/shareful-ai/shareful/pkg/frontmatter"
)

// IssueKind classifies a structural problem in the shares/ tree.
type IssueKind string

const (
	// IssueSlugMismatch means a frontmatter slug differs from its directory name.
	IssueSlugMismatch IssueKind = "slug_mismatch"

	// IssueMissingShareFile means a share directory has no SHARE.md.
	IssueMissingShareFile IssueKind = "missing_share_file"

	// IssueDuplicateSlug means the same frontmatter slug appears in
	// multiple share directories.
	IssueDuplicateSlug IssueKind = "duplicate_slug"

	// IssueStrayFile means a regular file sits directly under shares/.
	IssueStrayFile IssueKind = "stray_file"
)

// StructureIssue is one structural problem found by CheckStructure.
// Issues are informational and never block the check itself; callers
// (doctor, publish) decide whether they block.
type StructureIssue struct {
	Kind    IssueKind
	Path    string // relative to the repository root
	Message string
}

// CheckStructure inspects the shares/ tree for layout problems that
// document validation cannot see: slug fields that disagree with their
// directory, directories without a SHARE.md, duplicate slug fields, and
// stray files directly under shares/. Documents whose frontmatter does
// not parse are skipped here; CheckAll reports those.
func (r *Repository) CheckStructure() ([]StructureIssue, error) {
	sharesDir := r.SharesDir()

	dirents, err := os.ReadDir(sharesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading shares directory %s", sharesDir)
	}

	var issues []StructureIssue
	slugDirs := make(map[string][]string)

	for _, d := range dirents {
		rel := filepath.Join(paths.SharesDirName, d.Name())

		if !d.IsDir() {
			issues = append(issues, StructureIssue{
				Kind:    IssueStrayFile,
				Path:    rel,
				Message: "stray file directly under shares/; shares live in shares/<slug>/SHARE.md",
			})
			continue
		}

		sharePath := filepath.Join(sharesDir, d.Name(), paths.ShareFileName)
		f, err := os.Open(sharePath)
		if err != nil {
			if os.IsNotExist(err) {
				issues = append(issues, StructureIssue{
					Kind:    IssueMissingShareFile,
					Path:    rel,
					Message: "share directory missing " + paths.ShareFileName,
				})
			}
			continue
		}

		var meta share.Frontmatter
		err = frontmatter.ParseHeader(f, &meta)
		f.Close()
		if err != nil || meta.Slug == "" {
			// Unparseable or slugless documents are validation findings.
			continue
		}

		if meta.Slug != d.Name() {
			issues = append(issues, StructureIssue{
				Kind:    IssueSlugMismatch,
				Path:    filepath.Join(rel, paths.ShareFileName),
				Message: fmt.Sprintf("slug %q does not match directory name %q", meta.Slug, d.Name()),
			})
		}
		slugDirs[meta.Slug] = append(slugDirs[meta.Slug], d.Name())
	}

	duplicates := make([]string, 0, len(slugDirs))
	for slug, dirs := range slugDirs {
		if len(dirs) > 1 {
			duplicates = append(duplicates, slug)
		}
	}
	sort.Strings(duplicates)
	for _, slug := range duplicates {
		issues = append(issues, StructureIssue{
			Kind:    IssueDuplicateSlug,
			Path:    paths.SharesDirName,
			Message: fmt.Sprintf("slug %q used by directories %s", slug, strings.Join(slugDirs[slug], ", ")),
		})
	}

	return issues, nil
}
