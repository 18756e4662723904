// Package export renders validated share documents into the layouts
// external site and search tools consume. Targets are registered by
// name; the built-ins cover Docusaurus, MkDocs, Hugo, and a flat JSON
// search index.
//
// Targets never invent paths: every file they write is derived from a
// share slug, whose charset is already confined by validation.
package export

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/internal/share"
)

// Share is one validated document handed to a target. Body is the
// markdown after the frontmatter block, passed through verbatim.
type Share struct {
	Meta share.Frontmatter
	Body string
}

// Target renders shares into a directory layout for one external tool.
// Implementations must be safe for concurrent use.
type Target interface {
	// Name returns the target identifier used on the command line.
	Name() string

	// Description returns a one-line summary for listings.
	Description() string

	// Export writes every share beneath outDir. Implementations create
	// the directories they need.
	Export(outDir string, shares []Share) error
}

// renderYAMLDoc renders a markdown document: fm as a YAML frontmatter
// block, then body verbatim.
func renderYAMLDoc(fm any, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, errors.Wrap(err, "encoding frontmatter")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encoding frontmatter")
	}

	buf.WriteString("---\n")
	buf.WriteString(body)
	return buf.Bytes(), nil
}
