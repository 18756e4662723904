package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/internal/git"
	"github.com/shareful-ai/shareful/internal/paths"
	"github.com/shareful-ai/shareful/internal/repo"
	"github.com/shareful-ai/shareful/internal/share/validator"
)

var (
	publishAll     bool
	publishMessage string
	publishPush    bool
	publishDryRun  bool
)

func init() {
	publishCmd.Flags().BoolVar(&publishAll, "all", false, "Publish every share with uncommitted changes")
	publishCmd.Flags().StringVarP(&publishMessage, "message", "m", "", "Commit message")
	publishCmd.Flags().BoolVar(&publishPush, "push", false, "Push the commit to the configured remote")
	publishCmd.Flags().BoolVar(&publishDryRun, "dry-run", false, "Show what would be published without committing")
	rootCmd.AddCommand(publishCmd)
}

var publishCmd = &cobra.Command{
	Use:   "publish [slug...]",
	Short: "Validate and commit shares to git",
	Long: `Validate the named shares and commit them to the repository's git
history. Every target must pass validation and the shares/ tree must be
structurally sound for the targets; broken shares never publish.

With --all, every share with uncommitted changes is selected. With
--push the commit is pushed to the remote and branch from configuration
(publish.remote, publish.branch; defaults: origin, the current branch).`,
	Example: `  # Publish one share
  shareful publish fix-flaky-ci-cache

  # Publish everything that changed, then push
  shareful publish --all --push

  # See what would happen
  shareful publish --all --dry-run`,
	RunE: runPublish,
}

func runPublish(cmd *cobra.Command, args []string) error {
	return runPublishWithWriter(os.Stdout, cmd, args)
}

// runPublishWithWriter allows injecting a writer for testing.
func runPublishWithWriter(w io.Writer, cmd *cobra.Command, args []string) error {
	rp, closer, err := openRepository(true)
	if err != nil {
		return err
	}
	defer closer()
	root := rp.Root()

	if !git.IsRepo(root) {
		return errors.NewUserError(errors.Newf("%s is not a git repository", root),
			fmt.Sprintf("Initialize one with 'git -C %s init'", root))
	}

	slugs, err := resolvePublishTargets(root, args)
	if err != nil {
		return err
	}
	if len(slugs) == 0 {
		fmt.Fprintln(w, "No changed shares to publish.")
		return nil
	}

	unlock, err := acquireLock(cmd.Context(), root)
	if err != nil {
		return err
	}
	defer unlock()

	if err := checkPublishable(rp, root, slugs); err != nil {
		return err
	}

	pathspecs := make([]string, len(slugs))
	for i, slug := range slugs {
		pathspecs[i] = filepath.Join(paths.SharesDirName, slug)
	}

	status, err := git.Status(root, pathspecs...)
	if err != nil {
		return errors.NewSystemError(err, "")
	}
	if len(status) == 0 {
		fmt.Fprintf(w, "Nothing to publish: %s already committed.\n", strings.Join(slugs, ", "))
		return nil
	}

	message := publishMessage
	if message == "" {
		message = "shares: publish " + strings.Join(slugs, ", ")
	}

	if publishDryRun {
		fmt.Fprintf(w, "Would publish %d share(s):\n", len(slugs))
		for _, slug := range slugs {
			fmt.Fprintf(w, "  %s%s%s\n", colorGreen, slug, colorReset)
		}
		fmt.Fprintf(w, "Commit message: %s\n", message)
		if publishPush {
			remote, branch := pushTarget(root)
			fmt.Fprintf(w, "Would push to %s %s\n", remote, branch)
		}
		return nil
	}

	if err := git.Add(root, pathspecs...); err != nil {
		return errors.NewSystemError(err, "")
	}
	if err := git.Commit(root, message); err != nil {
		return errors.NewSystemError(err, "")
	}
	fmt.Fprintf(w, "%sPublished %d share(s):%s %s\n",
		colorGreen, len(slugs), colorReset, strings.Join(slugs, ", "))

	if publishPush {
		remote, branch := pushTarget(root)
		if branch == "" {
			return errors.NewSystemError(errors.New("cannot resolve branch to push"),
				"Set publish.branch in the configuration")
		}
		if err := git.Push(root, remote, branch); err != nil {
			return errors.NewSystemError(err, "")
		}
		fmt.Fprintf(w, "Pushed to %s %s\n", remote, branch)
	}

	return nil
}

// resolvePublishTargets turns arguments or --all into a sorted slug list.
func resolvePublishTargets(root string, args []string) ([]string, error) {
	switch {
	case publishAll && len(args) > 0:
		return nil, errors.NewUserError(errors.New("pass slugs or --all, not both"), "")

	case publishAll:
		return changedSlugs(root)

	case len(args) > 0:
		seen := make(map[string]bool, len(args))
		var slugs []string
		for _, slug := range args {
			if seen[slug] {
				continue
			}
			seen[slug] = true
			if _, err := os.Stat(paths.ShareFile(root, slug)); err != nil {
				return nil, errors.NewUserError(errors.Wrapf(errors.ErrNotFound, "%s", slug),
					"Run 'shareful list' to see available shares")
			}
			slugs = append(slugs, slug)
		}
		sort.Strings(slugs)
		return slugs, nil

	default:
		return nil, errors.NewUserError(errors.New("nothing to publish"),
			"Pass one or more slugs, or --all for every changed share")
	}
}

// changedSlugs lists the slugs with uncommitted changes under shares/.
func changedSlugs(root string) ([]string, error) {
	lines, err := git.Status(root, paths.SharesDirName)
	if err != nil {
		return nil, errors.NewSystemError(err, "")
	}

	seen := make(map[string]bool)
	var slugs []string
	for _, line := range lines {
		if len(line) < 4 {
			continue
		}
		// Porcelain lines are "XY path"; renames are "XY orig -> path".
		p := line[3:]
		if i := strings.LastIndex(p, " -> "); i >= 0 {
			p = p[i+4:]
		}
		p = strings.Trim(filepath.ToSlash(p), `"`)
		rel, ok := strings.CutPrefix(p, paths.SharesDirName+"/")
		if !ok {
			continue
		}
		slug, _, _ := strings.Cut(rel, "/")
		if slug != "" && !seen[slug] {
			seen[slug] = true
			slugs = append(slugs, slug)
		}
	}
	sort.Strings(slugs)
	return slugs, nil
}

// checkPublishable validates the target documents and the shares/ tree.
// Violations on a target block; structure issues elsewhere only warn.
func checkPublishable(rp *repo.Repository, root string, slugs []string) error {
	files := make([]string, len(slugs))
	for i, slug := range slugs {
		files[i] = paths.ShareFile(root, slug)
	}

	results := repo.CheckFiles(validator.New(), files)
	reporter := validator.NewReporter(os.Stderr, validator.FormatText)
	var invalid int
	for _, fr := range results {
		if fr.Ok() {
			continue
		}
		invalid++
		if fr.Err != nil {
			fmt.Fprintf(os.Stderr, "%s%s: %v%s\n", colorRed, fr.Path, fr.Err, colorReset)
			continue
		}
		if err := reporter.Report(fr.Path, fr.Result); err != nil {
			return errors.NewSystemError(err, "")
		}
	}
	if invalid > 0 {
		return errors.NewUserError(
			errors.Newf("%d of %d share(s) failed validation", invalid, len(files)),
			"Fix the violations and retry; broken shares never publish")
	}

	issues, err := rp.CheckStructure()
	if err != nil {
		return errors.NewSystemError(err, "")
	}

	targets := make(map[string]bool, len(slugs))
	for _, slug := range slugs {
		targets[slug] = true
	}

	var blocking int
	for _, issue := range issues {
		if issueTouches(issue, targets) {
			blocking++
			fmt.Fprintf(os.Stderr, "%s%s: %s%s\n", colorRed, issue.Path, issue.Message, colorReset)
		} else {
			fmt.Fprintf(os.Stderr, "%swarning: %s: %s%s\n", colorYellow, issue.Path, issue.Message, colorReset)
		}
	}
	if blocking > 0 {
		return errors.NewUserError(
			errors.Newf("%d structural issue(s) affect the shares being published", blocking),
			"Run 'shareful doctor' for details and fixes")
	}

	return nil
}

// issueTouches reports whether a structure issue concerns any target slug.
func issueTouches(issue repo.StructureIssue, targets map[string]bool) bool {
	rel, ok := strings.CutPrefix(filepath.ToSlash(issue.Path), paths.SharesDirName+"/")
	if ok {
		if slug, _, _ := strings.Cut(rel, "/"); targets[slug] {
			return true
		}
	}
	if issue.Kind == repo.IssueDuplicateSlug {
		for slug := range targets {
			if strings.Contains(issue.Message, strconv.Quote(slug)) {
				return true
			}
		}
	}
	return false
}

// pushTarget resolves the remote and branch for --push from config,
// falling back to origin and the checked-out branch.
func pushTarget(root string) (remote, branch string) {
	c := currentConfig()
	remote = c.Publish.Remote
	if remote == "" {
		remote = "origin"
	}
	branch = c.Publish.Branch
	if branch == "" {
		branch, _ = git.CurrentBranch(root)
	}
	return remote, branch
}
