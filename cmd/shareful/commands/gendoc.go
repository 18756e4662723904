package commands

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/shareful-ai/shareful/internal/errors"
)

// gen-doc writes one markdown page per command, with frontmatter the
// export targets (docusaurus/mkdocs/hugo) accept as-is. Hidden: it
// exists for the docs build, not for users.
var genDocCmd = &cobra.Command{
	Use:    "gen-doc",
	Short:  "Generate Markdown documentation for the CLI",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			return errors.New("output directory is required")
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err, "creating output directory")
		}

		if err := doc.GenMarkdownTreeCustom(rootCmd, dir, cliDocFrontmatter, cliDocLink); err != nil {
			return errors.Wrap(err, "generating markdown")
		}

		cmd.Printf("Documentation generated in %s\n", dir)
		return nil
	},
}

func init() {
	genDocCmd.Flags().StringP("dir", "d", "", "Output directory for documentation")
	rootCmd.AddCommand(genDocCmd)
}

// cliDocFrontmatter turns "shareful_publish.md" into a page titled
// "shareful publish".
func cliDocFrontmatter(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	title := strings.ReplaceAll(base, "_", " ")

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: \"" + title + "\"\n")
	b.WriteString("description: \"Reference for " + title + " command\"\n")
	b.WriteString("draft: false\n")
	b.WriteString("toc: true\n")
	b.WriteString("---\n")
	return b.String()
}

func cliDocLink(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return "/docs/reference/" + strings.ToLower(base) + "/"
}
