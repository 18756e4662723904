package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shareful-ai/shareful/internal/editor"
	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/internal/logging"
	"github.com/shareful-ai/shareful/internal/paths"
	"github.com/shareful-ai/shareful/internal/share"
	"github.com/shareful-ai/shareful/internal/share/validator"
	"github.com/shareful-ai/shareful/internal/slug"
	"github.com/shareful-ai/shareful/pkg/fileutil"
)

var (
	createTitle   string
	createSlug    string
	createTags    []string
	createType    string
	createProblem string
	createEdit    bool
	createForce   bool
	createYes     bool
)

func init() {
	createCmd.Flags().StringVarP(&createTitle, "title", "t", "", "share title (prompted when omitted)")
	createCmd.Flags().StringVar(&createSlug, "slug", "", "slug override (default: derived from the title)")
	createCmd.Flags().StringSliceVar(&createTags, "tags", nil, "comma-separated tags")
	createCmd.Flags().StringVar(&createType, "type", share.TypeFix,
		"solution type: "+strings.Join(share.SolutionTypes(), ", "))
	createCmd.Flags().StringVar(&createProblem, "problem", "", "one-sentence problem statement")
	createCmd.Flags().BoolVarP(&createEdit, "edit", "e", false, "open the new share in $EDITOR")
	createCmd.Flags().BoolVarP(&createForce, "force", "f", false, "overwrite an existing share with the same slug")
	createCmd.Flags().BoolVarP(&createYes, "yes", "y", false, "non-interactive mode, no prompts")
	createCmd.RunE = runCreate
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Author a new share",
	Long: `Create a new share document at shares/<slug>/SHARE.md.

The document is scaffolded from the share template with the four
required sections, validated, and written atomically. Missing fields
are prompted for on a terminal; use --yes for defaults in scripts.

The slug is derived from the title (lowercase letters, digits, and
hyphens); pass --slug to override it.`,
	Example: `  # Author interactively
  shareful create

  # Author from flags
  shareful create --title "Fix flaky CI cache" --tags ci,cache --type fix \
    --problem "Test caches go stale between runners."

  # Author and open the editor
  shareful create -t "Vendor proxy workaround" --tags go,proxy -e

  See Also: shareful validate, shareful publish`,
	Args: cobra.NoArgs,
}

func runCreate(cmd *cobra.Command, _ []string) error {
	rp, closer, err := openRepository(false)
	if err != nil {
		return err
	}
	defer closer()

	fm, err := collectFrontmatter()
	if err != nil {
		return err
	}

	unlock, err := acquireLock(cmd.Context(), rp.Root())
	if err != nil {
		return err
	}
	defer unlock()

	sharePath := paths.ShareFile(rp.Root(), fm.Slug)
	if _, err := os.Stat(sharePath); err == nil && !createForce {
		return errors.NewUserError(
			errors.Wrapf(errors.ErrShareExists, "%s", fm.Slug),
			"Pick another --slug or pass --force to overwrite")
	}

	doc, err := share.Scaffold(fm)
	if err != nil {
		return errors.NewSystemError(err, "")
	}

	// The scaffold always carries the four sections, so any violation
	// here is a bad field value from the flags or prompts.
	result, err := validator.New().Validate(doc)
	if err != nil {
		return errors.NewSystemError(err, "")
	}
	if !result.IsValid() {
		reporter := validator.NewReporter(os.Stderr, validator.FormatText)
		_ = reporter.Report(fm.Slug, result)
		return errors.NewUserError(errors.New("share fields do not satisfy the schema"),
			"Fix the reported fields and run create again")
	}

	if err := paths.EnsureDir(paths.ShareDir(rp.Root(), fm.Slug), 0o755); err != nil {
		return errors.NewSystemError(errors.Wrap(err, "creating share directory"), "")
	}
	if err := fileutil.AtomicWriteFile(sharePath, doc, 0o644); err != nil {
		return errors.NewSystemError(errors.Wrap(err, "writing share"), "")
	}

	fmt.Printf("Created %s\n", sharePath)

	if createEdit {
		if err := editor.Open(currentConfig().Editor, sharePath); err != nil {
			return errors.NewSystemError(err, "")
		}
	}

	return nil
}

// collectFrontmatter assembles the new share's frontmatter from flags,
// prompting for missing values on a terminal.
func collectFrontmatter() (share.Frontmatter, error) {
	interactive := !createYes && logging.IsTTY(os.Stdin)

	title := createTitle
	if title == "" && interactive {
		title = promptLine("Title", "")
	}
	if title == "" {
		return share.Frontmatter{}, errors.NewUserError(errors.ErrMissingTitle,
			"Pass --title or run on a terminal to be prompted")
	}

	slugValue := createSlug
	if slugValue == "" {
		derived, err := slug.Make(title)
		if err != nil {
			return share.Frontmatter{}, errors.NewUserError(err,
				"Pass --slug to name the share explicitly")
		}
		slugValue = derived
	}
	if !share.SlugPattern.MatchString(slugValue) {
		return share.Frontmatter{}, errors.NewUserError(
			errors.Newf("slug %q may contain only lowercase letters, digits, and hyphens", slugValue), "")
	}

	tags := createTags
	if len(tags) == 0 && interactive {
		raw := promptLine("Tags (comma-separated)", "")
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	if len(tags) == 0 {
		return share.Frontmatter{}, errors.NewUserError(
			errors.New("at least one tag is required"),
			"Pass --tags, e.g. --tags go,testing")
	}
	for i, t := range tags {
		tags[i] = strings.ToLower(strings.TrimSpace(t))
	}

	problem := createProblem
	if problem == "" && interactive {
		problem = promptLine("Problem (one sentence)", "")
	}

	typ := createType
	if interactive && !cmdFlagChanged(createCmd, "type") {
		typ = promptLine("Solution type ("+strings.Join(share.SolutionTypes(), ", ")+")", typ)
	}
	if !share.ValidSolutionType(typ) {
		return share.Frontmatter{}, errors.NewUserError(
			errors.Newf("solution type %q must be one of: %s", typ, strings.Join(share.SolutionTypes(), ", ")), "")
	}

	return share.Frontmatter{
		Title:        title,
		Slug:         slugValue,
		Tags:         tags,
		Problem:      problem,
		SolutionType: typ,
		Created:      time.Now().Format(share.DateLayout),
	}, nil
}

// cmdFlagChanged reports whether the user set the named flag explicitly.
func cmdFlagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}
