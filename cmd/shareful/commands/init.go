package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shareful-ai/shareful/internal/config"
	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/internal/paths"
	"github.com/shareful-ai/shareful/internal/repo"
)

var initYes bool

func init() {
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "Non-interactive mode, accept all defaults")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Initialize a share repository",
	Long: `Scaffold a share repository and the shareful user configuration.

Creates shares/ and .shareful/ in the target directory (the working
directory when none is given) plus a starter README, and writes a
default config file under the XDG config directory when none exists.`,
	Example: `  # Initialize the current directory
  shareful init

  # Initialize a new directory
  shareful init my-shares

  # Initialize non-interactively
  shareful init --yes

  See Also: shareful create, shareful doctor`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(_ *cobra.Command, args []string) error {
	dir := workingDir()
	if len(args) > 0 {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return errors.NewUserError(err, "pass a resolvable directory path")
		}
		dir = abs
	}

	if repo.IsRoot(dir) {
		fmt.Printf("%s is already a share repository\n", dir)
		return nil
	}

	if !initYes {
		fmt.Println("This will create:")
		fmt.Printf("  %s\n", paths.SharesDir(dir))
		fmt.Printf("  %s\n", paths.MarkerDir(dir))
		if _, err := os.Stat(paths.ConfigFile()); os.IsNotExist(err) {
			fmt.Printf("  %s\n", paths.ConfigFile())
		}
		fmt.Println()

		if !confirm("Proceed?") {
			fmt.Println("Aborted")
			return nil
		}
	}

	if err := repo.Init(dir); err != nil {
		return errors.NewSystemError(err, "")
	}
	fmt.Printf("Initialized share repository at %s\n", dir)

	if err := writeDefaultConfig(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Next: author your first share with 'shareful create'")
	return nil
}

// writeDefaultConfig creates the user config file when none exists.
// An existing file is left alone; init never clobbers user settings.
func writeDefaultConfig() error {
	configPath := paths.ConfigFile()
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	defaults := config.Config{
		Version: 1,
		Cache:   true,
		Publish: config.PublishConfig{Remote: "origin"},
		Export:  config.ExportConfig{Out: "dist"},
	}

	data, err := yaml.Marshal(&defaults)
	if err != nil {
		return errors.NewSystemError(errors.Wrap(err, "marshaling config"), "")
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return errors.NewSystemError(errors.Wrap(err, "creating config directory"), "")
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.NewSystemError(errors.Wrap(err, "writing config file"), "")
	}

	fmt.Printf("Created %s\n", configPath)
	return nil
}
