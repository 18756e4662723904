package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/internal/repo"
	"github.com/shareful-ai/shareful/internal/share/validator"
)

var (
	validateJSON    bool
	validateNoCache bool
)

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "output results as JSON")
	validateCmd.Flags().BoolVar(&validateNoCache, "no-cache", false, "ignore the scan cache")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [path...]",
	Short: "Validate share documents against the schema",
	Long: `Check share documents against the shareful.ai schema: the six
frontmatter fields (title, slug, tags, problem, solution_type, created)
and the four required body sections (Problem, Solution, Why It Works,
Context).

With no arguments, every share in the repository is validated
concurrently. Arguments may be SHARE.md files or directories, which are
walked for SHARE.md files; paths outside a repository work too.

Every violation in a document is reported in one pass, so all problems
can be fixed before re-running.

Exit codes:
  0 - every document is valid
  1 - at least one document has violations
  2 - a document or the repository could not be read`,
	Example: `  # Validate the whole repository
  shareful validate

  # Validate one share
  shareful validate shares/fix-flaky-ci-cache

  # Validate a loose file, machine-readable
  shareful validate /tmp/SHARE.md --json

  See Also: shareful doctor, shareful publish`,
	RunE: runValidate,
}

func runValidate(_ *cobra.Command, args []string) error {
	return runValidateWithWriter(os.Stdout, args)
}

// runValidateWithWriter allows injecting a writer for testing.
func runValidateWithWriter(w io.Writer, args []string) error {
	results, err := collectResults(args)
	if err != nil {
		return err
	}

	format := validator.FormatText
	if validateJSON {
		format = validator.FormatJSON
	}
	reporter := validator.NewReporter(w, format)

	var invalid, unreadable int
	for _, fr := range results {
		if fr.Err != nil {
			unreadable++
			if err := reportReadError(w, fr); err != nil {
				return errors.NewSystemError(err, "")
			}
			continue
		}
		if !fr.Result.IsValid() {
			invalid++
		}
		if err := reporter.Report(fr.Path, fr.Result); err != nil {
			return errors.NewSystemError(err, "")
		}
	}

	if !validateJSON {
		fmt.Fprintf(w, "\n%d document(s) checked: %d valid, %d invalid",
			len(results), len(results)-invalid-unreadable, invalid)
		if unreadable > 0 {
			fmt.Fprintf(w, ", %d unreadable", unreadable)
		}
		fmt.Fprintln(w)
	}

	switch {
	case unreadable > 0:
		return errors.NewExitError(errors.Newf("%d document(s) could not be read", unreadable), errors.ExitSystem)
	case invalid > 0:
		return errors.NewExitError(errors.Newf("%d document(s) failed validation", invalid), errors.ExitUser)
	}
	return nil
}

// reportReadError writes a per-file read failure in the active format.
func reportReadError(w io.Writer, fr repo.FileResult) error {
	if validateJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Path  string `json:"path"`
			Error string `json:"error"`
		}{fr.Path, fr.Err.Error()})
	}

	_, err := fmt.Fprintf(w, "%s: %serror%s %v\n", fr.Path, colorRed, colorReset, fr.Err)
	return err
}

// collectResults validates the documents selected by args: the whole
// repository when empty, otherwise each named file or directory.
func collectResults(args []string) ([]repo.FileResult, error) {
	if len(args) == 0 {
		rp, closer, err := openRepository(validateNoCache)
		if err != nil {
			return nil, err
		}
		defer closer()

		results, err := rp.CheckAll()
		if err != nil {
			return nil, errors.NewSystemError(err, "")
		}
		return results, nil
	}

	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.NewUserError(errors.Wrapf(err, "cannot stat %s", arg),
				"Pass SHARE.md files or share directories")
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		found, err := repo.CollectShareFiles(arg)
		if err != nil {
			return nil, errors.NewSystemError(err, "")
		}
		if len(found) == 0 {
			return nil, errors.NewUserError(errors.Newf("no SHARE.md found under %s", arg), "")
		}
		files = append(files, found...)
	}

	return repo.CheckFiles(validator.New(), files), nil
}
