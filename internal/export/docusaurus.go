package export

import (
	"os"
	"path/filepath"

	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/pkg/fileutil"
)

// Docusaurus renders shares as a Docusaurus docs tree: one page per
// share under docs/ plus a sidebars.json listing every page.
type Docusaurus struct{}

var _ Target = Docusaurus{}

// docusaurusMatter is the page frontmatter Docusaurus reads.
type docusaurusMatter struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
}

// Name returns the target identifier.
func (Docusaurus) Name() string {
	return "docusaurus"
}

// Description returns a one-line summary for listings.
func (Docusaurus) Description() string {
	return "Docusaurus docs tree with sidebars.json"
}

// Export writes docs/<slug>.md per share and a sidebars.json at outDir.
func (d Docusaurus) Export(outDir string, shares []Share) error {
	docsDir := filepath.Join(outDir, "docs")
	if err := os.MkdirAll(docsDir, 0o755); err != nil {
		return errors.Wrap(err, "creating docs directory")
	}

	items := make([]string, 0, len(shares))
	for _, s := range shares {
		matter := docusaurusMatter{
			ID:          s.Meta.Slug,
			Title:       s.Meta.Title,
			Description: s.Meta.Problem,
			Tags:        s.Meta.Tags,
		}

		page, err := renderYAMLDoc(matter, s.Body)
		if err != nil {
			return errors.Wrapf(err, "rendering %s", s.Meta.Slug)
		}

		path := filepath.Join(docsDir, s.Meta.Slug+".md")
		if err := fileutil.AtomicWriteFile(path, page, 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}

		items = append(items, s.Meta.Slug)
	}

	sidebars := map[string]any{
		"shares": []any{
			map[string]any{
				"type":  "category",
				"label": "Shares",
				"items": items,
			},
		},
	}
	path := filepath.Join(outDir, "sidebars.json")
	if err := fileutil.AtomicWriteJSON(path, sidebars); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}

	return nil
}
