package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/internal/repo"
)

func runInteractiveSearch(w io.Writer, results []repo.Entry) error {
	if len(results) == 0 {
		fmt.Fprintln(w, "No shares found.")
		return nil
	}

	idx, err := fuzzyfinder.Find(
		results,
		func(i int) string {
			return fmt.Sprintf("%s: %s", results[i].Slug, results[i].Meta.Title)
		},
		fuzzyfinder.WithPreviewWindow(func(i, width, height int) string {
			if i == -1 {
				return ""
			}
			e := results[i]
			return fmt.Sprintf("Title: %s\nType: %s\nTags: %s\nCreated: %s\n\nProblem:\n%s",
				e.Meta.Title,
				e.Meta.SolutionType,
				strings.Join(e.Meta.Tags, ", "),
				e.Meta.Created,
				e.Meta.Problem,
			)
		}),
	)

	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		return errors.Wrap(err, "interactive search failed")
	}

	e := results[idx]
	fmt.Fprintf(w, "Selected: %s (%s)\n", e.Slug, e.Meta.SolutionType)
	fmt.Fprintf(w, "Title: %s\n", e.Meta.Title)
	fmt.Fprintf(w, "Path: %s\n", e.Path)

	return nil
}
