package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/internal/repo"
	"github.com/shareful-ai/shareful/internal/search"
	"github.com/shareful-ai/shareful/internal/share"
)

var (
	searchTag         string
	searchType        string
	searchJSON        bool
	searchInteractive bool
	searchNoCache     bool
)

func init() {
	searchCmd.Flags().StringVar(&searchTag, "tag", "", "Filter by tag")
	searchCmd.Flags().StringVar(&searchType, "type", "",
		"Filter by solution type: "+strings.Join(share.SolutionTypes(), ", "))
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
	searchCmd.Flags().BoolVarP(&searchInteractive, "interactive", "i", false,
		"Pick a result with a fuzzy finder")
	searchCmd.Flags().BoolVar(&searchNoCache, "no-cache", false, "ignore the scan cache")
	searchCmd.MarkFlagsMutuallyExclusive("json", "interactive")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search shares by slug, title, tags, or problem",
	Long: `Search the repository's shares.

The search is case-insensitive and matches against slugs, titles, tags,
and problem statements. Results are sorted by match quality: exact slug
or title matches first, then prefix matches, then substring matches,
then matches found only in a tag or the problem text.

If no query is given, all shares are listed (subject to filters).`,
	Example: `  # Search for shares about timeouts
  shareful search timeout

  # Only workarounds tagged "ci"
  shareful search --type=workaround --tag=ci

  # Pick a share interactively
  shareful search -i

  # Output as JSON
  shareful search timeout --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func runSearch(_ *cobra.Command, args []string) error {
	return runSearchWithWriter(os.Stdout, args)
}

// runSearchWithWriter allows injecting a writer for testing.
func runSearchWithWriter(w io.Writer, args []string) error {
	var query string
	if len(args) > 0 {
		query = args[0]
	}

	rp, closer, err := openRepository(searchNoCache)
	if err != nil {
		return err
	}
	defer closer()

	entries, err := rp.Scan()
	if err != nil {
		return errors.NewSystemError(err, "")
	}

	results := search.Search(entries, query, search.Options{
		Tag:  searchTag,
		Type: searchType,
	})

	switch {
	case searchInteractive:
		return runInteractiveSearch(w, results)
	case searchJSON:
		return outputListJSON(w, results, nil)
	default:
		return outputSearchTabular(w, results)
	}
}

// outputSearchTabular prints matches as a table, best match first.
func outputSearchTabular(w io.Writer, results []repo.Entry) error {
	if len(results) == 0 {
		fmt.Fprintln(w, "No shares found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sSLUG%s\t%sTITLE%s\t%sTYPE%s\t%sPROBLEM%s\n",
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset)

	for _, e := range results {
		fmt.Fprintf(tw, "%s%s%s\t%s\t%s\t%s%s%s\n",
			colorGreen, e.Slug, colorReset,
			truncate(e.Meta.Title, 50),
			e.Meta.SolutionType,
			colorGray, truncate(e.Meta.Problem, 50), colorReset)
	}

	return tw.Flush()
}
