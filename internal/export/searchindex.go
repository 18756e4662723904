package export

import (
	"os"
	"path/filepath"

	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/internal/share"
	"github.com/shareful-ai/shareful/pkg/fileutil"
)

// IndexFileName is the flat index written by the index target.
const IndexFileName = "share-index.json"

// SearchIndex renders shares as a single share-index.json of flat
// records for external search platforms to ingest.
type SearchIndex struct{}

var _ Target = SearchIndex{}

// indexRecord is one search-index entry.
type indexRecord struct {
	Slug         string   `json:"slug"`
	Title        string   `json:"title"`
	Tags         []string `json:"tags"`
	Problem      string   `json:"problem"`
	SolutionType string   `json:"solution_type"`
	Created      string   `json:"created"`
	Sections     []string `json:"sections"`
}

// Name returns the target identifier.
func (SearchIndex) Name() string {
	return "index"
}

// Description returns a one-line summary for listings.
func (SearchIndex) Description() string {
	return "flat share-index.json for search ingestion"
}

// Export writes share-index.json at outDir.
func (i SearchIndex) Export(outDir string, shares []Share) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	records := make([]indexRecord, 0, len(shares))
	for _, s := range shares {
		records = append(records, indexRecord{
			Slug:         s.Meta.Slug,
			Title:        s.Meta.Title,
			Tags:         s.Meta.Tags,
			Problem:      s.Meta.Problem,
			SolutionType: s.Meta.SolutionType,
			Created:      s.Meta.Created,
			Sections:     share.Headings([]byte(s.Body)),
		})
	}

	path := filepath.Join(outDir, IndexFileName)
	if err := fileutil.AtomicWriteJSON(path, records); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}

	return nil
}
