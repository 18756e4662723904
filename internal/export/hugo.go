package export

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/pkg/fileutil"
)

// Hugo renders shares as a Hugo content section: one page per share
// under content/shares/ with TOML (+++) frontmatter.
type Hugo struct{}

var _ Target = Hugo{}

// hugoMatter is the page frontmatter Hugo reads.
type hugoMatter struct {
	Title       string   `toml:"title"`
	Slug        string   `toml:"slug"`
	Date        string   `toml:"date"`
	Description string   `toml:"description,omitempty"`
	Tags        []string `toml:"tags,omitempty"`
}

// Name returns the target identifier.
func (Hugo) Name() string {
	return "hugo"
}

// Description returns a one-line summary for listings.
func (Hugo) Description() string {
	return "Hugo content section with TOML frontmatter"
}

// Export writes content/shares/<slug>.md per share beneath outDir.
func (h Hugo) Export(outDir string, shares []Share) error {
	contentDir := filepath.Join(outDir, "content", "shares")
	if err := os.MkdirAll(contentDir, 0o755); err != nil {
		return errors.Wrap(err, "creating content directory")
	}

	for _, s := range shares {
		matter := hugoMatter{
			Title:       s.Meta.Title,
			Slug:        s.Meta.Slug,
			Date:        s.Meta.Created,
			Description: s.Meta.Problem,
			Tags:        s.Meta.Tags,
		}

		page, err := renderTOMLDoc(matter, s.Body)
		if err != nil {
			return errors.Wrapf(err, "rendering %s", s.Meta.Slug)
		}

		path := filepath.Join(contentDir, s.Meta.Slug+".md")
		if err := fileutil.AtomicWriteFile(path, page, 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
	}

	return nil
}

// renderTOMLDoc renders a markdown document: fm as a TOML frontmatter
// block between +++ delimiters, then body verbatim.
func renderTOMLDoc(fm any, body string) ([]byte, error) {
	matter, err := toml.Marshal(fm)
	if err != nil {
		return nil, errors.Wrap(err, "encoding frontmatter")
	}

	var buf bytes.Buffer
	buf.WriteString("+++\n")
	buf.Write(matter)
	buf.WriteString("+++\n")
	buf.WriteString(body)
	return buf.Bytes(), nil
}
