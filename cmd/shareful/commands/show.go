package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/internal/paths"
	"github.com/shareful-ai/shareful/internal/share"
	"github.com/shareful-ai/shareful/pkg/fileutil"
)

var (
	showRender bool
	showJSON   bool
)

func init() {
	showCmd.Flags().BoolVar(&showRender, "render", false, "render the markdown for the terminal")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output frontmatter metadata as JSON")
	showCmd.MarkFlagsMutuallyExclusive("render", "json")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Print a share document",
	Long: `Print the SHARE.md document for a slug.

By default the raw document is written unchanged, suitable for piping.
--render typesets the markdown for the terminal; --json prints the
frontmatter metadata instead of the document.`,
	Example: `  # Print the raw document
  shareful show fix-flaky-ci-cache

  # Typeset for reading
  shareful show fix-flaky-ci-cache --render

  # Metadata only
  shareful show fix-flaky-ci-cache --json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

// showMetaJSON is the --json output shape.
type showMetaJSON struct {
	share.Frontmatter
	Path     string   `json:"path"`
	Sections []string `json:"sections"`
}

func runShow(_ *cobra.Command, args []string) error {
	return runShowWithWriter(os.Stdout, args[0])
}

// runShowWithWriter allows injecting a writer for testing.
func runShowWithWriter(w io.Writer, slug string) error {
	rp, closer, err := openRepository(true)
	if err != nil {
		return err
	}
	defer closer()

	path := paths.ShareFile(rp.Root(), slug)
	raw, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewUserError(errors.Wrapf(errors.ErrNotFound, "%s", slug),
				"Run 'shareful list' to see available shares")
		}
		return errors.NewSystemError(errors.Wrapf(err, "reading %s", path), "")
	}

	switch {
	case showJSON:
		doc, err := rp.ReadDocument(slug)
		if err != nil {
			return errors.NewUserError(err, "The document's frontmatter must parse; run 'shareful validate'")
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(showMetaJSON{
			Frontmatter: doc.Frontmatter,
			Path:        path,
			Sections:    share.Headings([]byte(doc.Body)),
		})

	case showRender:
		doc, err := rp.ReadDocument(slug)
		if err != nil {
			return errors.NewUserError(err, "The document's frontmatter must parse; run 'shareful validate'")
		}
		return renderMarkdown(w, doc)

	default:
		_, err = w.Write(raw)
		return err
	}
}

// renderMarkdown typesets a share for the terminal: the title as a
// top-level heading, then the body.
func renderMarkdown(w io.Writer, doc *share.Document) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return errors.Wrap(err, "creating renderer")
	}

	out, err := renderer.Render(fmt.Sprintf("# %s\n%s", doc.Frontmatter.Title, doc.Body))
	if err != nil {
		return errors.Wrap(err, "rendering markdown")
	}

	_, err = io.WriteString(w, out)
	return err
}
