package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/shareful-ai/shareful/cmd"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version, commit, and build date of shareful.`,
	Run: func(c *cobra.Command, _ []string) {
		c.Printf("shareful version %s\n", cmd.Version)
		c.Printf("  commit: %s\n", cmd.Commit)
		c.Printf("  built:  %s\n", cmd.Date)
		c.Printf("  go:     %s\n", runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
