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
	"github.com/shareful-ai/shareful/internal/export"
	"github.com/shareful-ai/shareful/internal/logging"
)

var (
	exportTarget  string
	exportOut     string
	exportStrict  bool
	exportJSON    bool
	exportNoCache bool
)

func init() {
	exportCmd.Flags().StringVarP(&exportTarget, "target", "t", "",
		"Export target: "+strings.Join(export.Names(), ", "))
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "",
		"Output directory (default from config export.out)")
	exportCmd.Flags().BoolVar(&exportStrict, "strict", false,
		"Abort on the first share that cannot be exported")
	exportCmd.Flags().BoolVar(&exportJSON, "json", false, "Output the result as JSON")
	exportCmd.Flags().BoolVar(&exportNoCache, "no-cache", false, "ignore the scan cache")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render shares for an external site or search tool",
	Long: `Render every valid share into the file layout an external tool
consumes. Invalid or unreadable shares are skipped with a warning;
--strict aborts instead before anything is written.

Without --target the available targets are listed.`,
	Example: `  # See what targets exist
  shareful export

  # Render a Docusaurus docs tree into dist/
  shareful export --target docusaurus

  # Build the search index somewhere specific
  shareful export -t index -o public/search`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, _ []string) error {
	return runExportWithWriter(os.Stdout, cmd)
}

// runExportWithWriter allows injecting a writer for testing.
func runExportWithWriter(w io.Writer, cmd *cobra.Command) error {
	if exportTarget == "" {
		return listTargets(w)
	}

	outDir := exportOut
	if outDir == "" {
		outDir = currentConfig().Export.Out
	}
	if outDir == "" {
		outDir = "dist"
	}

	rp, closer, err := openRepository(exportNoCache)
	if err != nil {
		return err
	}
	defer closer()

	unlock, err := acquireLock(cmd.Context(), rp.Root())
	if err != nil {
		return err
	}
	defer unlock()

	result, err := export.Run(rp, exportTarget, outDir, export.Options{
		Strict: exportStrict,
		Logger: logging.Default(),
	})
	switch {
	case errors.Is(err, export.ErrUnknownTarget):
		return errors.NewUserError(err,
			"Available targets: "+strings.Join(export.Names(), ", "))
	case errors.Is(err, export.ErrNotExportable):
		return errors.NewUserError(err,
			"Fix the share with 'shareful validate', or drop --strict to skip it")
	case err != nil:
		return errors.NewSystemError(err, "")
	}

	if exportJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintf(w, "%sExported %d share(s)%s to %s (%s)\n",
		colorGreen, result.Exported, colorReset, result.OutDir, result.Target)
	for _, s := range result.Skipped {
		fmt.Fprintf(w, "%sskipped %s: %s%s\n", colorYellow, s.Slug, s.Reason, colorReset)
	}
	return nil
}

// listTargets prints the registered export targets.
func listTargets(w io.Writer) error {
	fmt.Fprintln(w, "Available export targets:")
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, name := range export.Names() {
		target, err := export.Get(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(tw, "  %s%s%s\t%s\n", colorCyan, name, colorReset, target.Description())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render one with:")
	fmt.Fprintln(w, "  shareful export --target <name>")
	return nil
}
