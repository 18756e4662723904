package commands

import (
	"encoding/json"
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
	listJSON    bool
	listTag     string
	listType    string
	listNoCache bool
)

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listTag, "tag", "", "Filter by tag")
	listCmd.Flags().StringVar(&listType, "type", "",
		"Filter by solution type: "+strings.Join(share.SolutionTypes(), ", "))
	listCmd.Flags().BoolVar(&listNoCache, "no-cache", false, "ignore the scan cache")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the shares in the repository",
	Long: `List every share in the repository with its title, solution type,
tags, and creation date.

Shares whose frontmatter cannot be parsed are listed with the parse
problem, so broken documents stay visible.`,
	Example: `  # List all shares
  shareful list

  # List only workarounds
  shareful list --type workaround

  # List shares tagged "ci" as JSON
  shareful list --tag ci --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// listEntryJSON is one share in JSON output.
type listEntryJSON struct {
	Slug         string   `json:"slug"`
	Title        string   `json:"title,omitempty"`
	SolutionType string   `json:"solution_type,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Created      string   `json:"created,omitempty"`
	Problem      string   `json:"problem,omitempty"`
	Error        string   `json:"error,omitempty"`
}

func runList(_ *cobra.Command, _ []string) error {
	return runListWithWriter(os.Stdout)
}

// runListWithWriter allows injecting a writer for testing.
func runListWithWriter(w io.Writer) error {
	rp, closer, err := openRepository(listNoCache)
	if err != nil {
		return err
	}
	defer closer()

	entries, err := rp.Scan()
	if err != nil {
		return errors.NewSystemError(err, "")
	}

	// Broken entries bypass the filters; hiding them behind a tag filter
	// would make a corrupt share invisible.
	var broken []repo.Entry
	for _, e := range entries {
		if e.Err != nil {
			broken = append(broken, e)
		}
	}
	filtered := search.Search(entries, "", search.Options{Tag: listTag, Type: listType})

	if listJSON {
		return outputListJSON(w, filtered, broken)
	}
	return outputListTabular(w, filtered, broken)
}

func outputListJSON(w io.Writer, entries, broken []repo.Entry) error {
	out := make([]listEntryJSON, 0, len(entries)+len(broken))
	for _, e := range entries {
		out = append(out, listEntryJSON{
			Slug:         e.Slug,
			Title:        e.Meta.Title,
			SolutionType: e.Meta.SolutionType,
			Tags:         e.Meta.Tags,
			Created:      e.Meta.Created,
			Problem:      e.Meta.Problem,
		})
	}
	for _, e := range broken {
		out = append(out, listEntryJSON{Slug: e.Slug, Error: e.Err.Error()})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func outputListTabular(w io.Writer, entries, broken []repo.Entry) error {
	if len(entries) == 0 && len(broken) == 0 {
		fmt.Fprintln(w, "No shares found.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Author one with:")
		fmt.Fprintln(w, "  shareful create")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sSLUG%s\t%sTITLE%s\t%sTYPE%s\t%sTAGS%s\t%sCREATED%s\n",
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset)

	for _, e := range entries {
		fmt.Fprintf(tw, "%s%s%s\t%s\t%s\t%s%s%s\t%s\n",
			colorGreen, e.Slug, colorReset,
			truncate(e.Meta.Title, 50),
			e.Meta.SolutionType,
			colorGray, strings.Join(e.Meta.Tags, ","), colorReset,
			e.Meta.Created)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, e := range broken {
		fmt.Fprintf(w, "%s%s: unreadable: %v%s\n", colorYellow, e.Slug, e.Err, colorReset)
	}

	return nil
}
