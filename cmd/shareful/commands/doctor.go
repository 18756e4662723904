package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shareful-ai/shareful/internal/doctor"
	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/internal/repo"
)

var (
	doctorJSON    bool
	doctorQuiet   bool
	doctorVerbose bool
	doctorFix     bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorQuiet, "quiet", false,
		"suppress output, exit code only")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "verbose", false,
		"show detailed check-by-check output")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"fix what can be fixed automatically (backs up shares/ first)")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose repository and configuration issues",
	Long: `Run diagnostic checks on the share repository and the shareful
configuration around it.

Validates the config file, checks repository resolution, inspects the
shares/ tree for structural problems (slug/directory mismatches, missing
SHARE.md files, duplicate slugs, stray files), runs the document
validator over the corpus, and checks the scan cache and git state.

With --fix, issues that shareful can repair (slug fields disagreeing
with their directory, uppercase tags) are rewritten in place. The
shares/ tree is backed up before the first change of a run.

Output modes (mutually exclusive):
  (default)   Show errors and warnings
  --verbose   Show all checks including passed ones
  --quiet     No output, exit code only
  --json      Machine-readable JSON output

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	PreRunE: validateDoctorFlags,
	RunE:    runDoctor,
}

// validateDoctorFlags ensures output flags are mutually exclusive.
func validateDoctorFlags(_ *cobra.Command, _ []string) error {
	count := 0
	if doctorJSON {
		count++
	}
	if doctorQuiet {
		count++
	}
	if doctorVerbose {
		count++
	}

	if count > 1 {
		return errors.New("flags --json, --quiet, and --verbose are mutually exclusive")
	}

	return nil
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cfg := currentConfig()
	cwd := workingDir()

	runner := doctor.NewRunner()
	runner.AddCheck(doctor.NewConfigSyntaxCheck(viper.ConfigFileUsed()))
	runner.AddCheck(doctor.NewConfigSemanticCheck(cfg))
	runner.AddCheck(doctor.NewRepoCheck(cwd, repoFlag, cfg.Repo))

	// Content checks only make sense once a repository resolves; when it
	// does not, the repo check above already reports why.
	root, rootErr := repo.Locate(cwd, repoFlag, cfg.Repo)
	if rootErr == nil {
		runner.AddCheck(doctor.NewStructureCheck(root))
		runner.AddCheck(doctor.NewTagCaseCheck(root))
		runner.AddCheck(doctor.NewCorpusCheck(root))
		runner.AddCheck(doctor.NewCacheCheck(root))
		runner.AddCheck(doctor.NewGitCheck(root))
	}

	report := runner.Run()

	if doctorFix && rootErr == nil {
		unlock, err := acquireLock(cmd.Context(), root)
		if err != nil {
			return err
		}
		defer unlock()

		for _, check := range runner.Checks() {
			fixer, ok := check.(doctor.Fixer)
			if !ok || !fixer.CanFix() {
				continue
			}
			report.Fixes = append(report.Fixes, fixer.Fix()...)
		}
	}

	if err := outputDoctorReport(report); err != nil {
		return err
	}

	if report.HasErrors() {
		return errors.NewExitError(errDoctorErrors, errors.ExitSystem)
	}
	if report.HasWarnings() {
		return errors.NewExitError(errDoctorWarnings, errors.ExitUser)
	}
	return nil
}

func outputDoctorReport(report *doctor.Report) error {
	if doctorQuiet {
		return nil
	}

	if doctorJSON {
		return outputDoctorJSON(report)
	}

	return outputDoctorText(report)
}

func outputDoctorJSON(report *doctor.Report) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return errors.Wrap(err, "encoding JSON")
	}
	return nil
}

func outputDoctorText(report *doctor.Report) error {
	// In normal mode, show only errors and warnings
	// In verbose mode, show all checks
	showAll := doctorVerbose

	hasOutput := false
	for _, result := range report.Results {
		if !showAll && result.Status != doctor.SeverityError && result.Status != doctor.SeverityWarning {
			continue
		}

		hasOutput = true
		icon := statusIcon(result.Status)
		fmt.Printf("%s [%s] %s: %s\n", icon, result.Category, result.Name, result.Message)

		if result.FixHint != "" && (result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning) {
			fmt.Printf("  hint: %s\n", result.FixHint)
		}
	}

	for _, fix := range report.Fixes {
		hasOutput = true
		if fix.Fixed {
			fmt.Printf("%sfixed%s %s: %s\n", colorGreen, colorReset, fix.Path, fix.Description)
		} else {
			fmt.Printf("%snot fixed%s %s: %s\n", colorYellow, colorReset, fix.Path, fix.Description)
		}
	}

	// Print summary
	if hasOutput || showAll {
		fmt.Println()
	}

	fmt.Printf("Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)

	return nil
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return "✓"
	case doctor.SeverityInfo:
		return "ℹ"
	case doctor.SeverityWarning:
		return "⚠"
	case doctor.SeverityError:
		return "✗"
	default:
		return "?"
	}
}

// errDoctorWarnings is a sentinel error for exit code 1.
var errDoctorWarnings = errors.New("warnings found")

// errDoctorErrors is a sentinel error for exit code 2.
var errDoctorErrors = errors.New("errors found")
