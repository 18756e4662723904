package export

import (
	"os"
	"path/filepath"

	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/pkg/fileutil"
)

// MkDocs renders shares as an MkDocs site skeleton: one page per share
// under docs/ plus an mkdocs.yml whose nav lists every page by title.
type MkDocs struct{}

var _ Target = MkDocs{}

// mkdocsMatter is the page meta block the meta extension reads.
type mkdocsMatter struct {
	Title string   `yaml:"title"`
	Tags  []string `yaml:"tags,omitempty"`
}

// mkdocsConfig is the subset of mkdocs.yml the export fills in.
type mkdocsConfig struct {
	SiteName string              `yaml:"site_name"`
	Nav      []map[string]string `yaml:"nav"`
}

// Name returns the target identifier.
func (MkDocs) Name() string {
	return "mkdocs"
}

// Description returns a one-line summary for listings.
func (MkDocs) Description() string {
	return "MkDocs site with docs tree and mkdocs.yml nav"
}

// Export writes docs/<slug>.md per share and an mkdocs.yml at outDir.
func (m MkDocs) Export(outDir string, shares []Share) error {
	docsDir := filepath.Join(outDir, "docs")
	if err := os.MkdirAll(docsDir, 0o755); err != nil {
		return errors.Wrap(err, "creating docs directory")
	}

	nav := make([]map[string]string, 0, len(shares))
	for _, s := range shares {
		matter := mkdocsMatter{
			Title: s.Meta.Title,
			Tags:  s.Meta.Tags,
		}

		page, err := renderYAMLDoc(matter, s.Body)
		if err != nil {
			return errors.Wrapf(err, "rendering %s", s.Meta.Slug)
		}

		path := filepath.Join(docsDir, s.Meta.Slug+".md")
		if err := fileutil.AtomicWriteFile(path, page, 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}

		nav = append(nav, map[string]string{s.Meta.Title: s.Meta.Slug + ".md"})
	}

	cfg := mkdocsConfig{
		SiteName: "Shares",
		Nav:      nav,
	}
	path := filepath.Join(outDir, "mkdocs.yml")
	if err := fileutil.AtomicWriteYAML(path, cfg); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}

	return nil
}
