package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/shareful-ai/shareful/internal/config"
	"github.com/shareful-ai/shareful/internal/editor"
	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/internal/paths"
	"github.com/shareful-ai/shareful/pkg/fileutil"
)

// configKeys are the settable configuration keys, dot notation for
// nested ones.
var configKeys = []string{
	"version",
	"repo",
	"editor",
	"cache",
	"publish.remote",
	"publish.branch",
	"export.out",
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage shareful configuration",
	Long: `Manage shareful configuration stored in ~/.config/shareful/config.yaml.

Without a subcommand, lists the resolved configuration.`,
	Example: `  # List all configuration
  shareful config

  # Get a specific value
  shareful config get publish.remote

  # Set a value
  shareful config set editor "code --wait"

See Also: shareful init, shareful doctor`,
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a single configuration value by key.

Supports dot notation for nested keys.`,
	Example: `  # Get the publish remote
  shareful config get publish.remote

  # Get the export output directory
  shareful config get export.out

See Also: shareful config set, shareful config list`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and write the config file.

Valid keys: ` + strings.Join(configKeys, ", ") + `.
Values are validated before writing; a malformed git ref for
publish.remote or publish.branch is rejected.`,
	Example: `  # Point shareful at a fixed repository
  shareful config set repo ~/src/team-shares

  # Publish to a different remote
  shareful config set publish.remote upstream

See Also: shareful config get, shareful config list`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long:  `List the resolved configuration values in YAML format.`,
	Example: `  # List all configuration
  shareful config list

See Also: shareful config get, shareful config set`,
	RunE: runConfigList,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open configuration in $EDITOR",
	Long: `Open the configuration file in your editor.

Uses the configured editor, then $VISUAL, then $EDITOR, then vi.
If no configuration file exists, suggests running 'shareful init'.`,
	Example: `  # Open config in default editor
  shareful config edit

  # Open with a specific editor
  EDITOR=nano shareful config edit

See Also: shareful config list, shareful init`,
	RunE: runConfigEdit,
}

func runConfigGet(_ *cobra.Command, args []string) error {
	key := args[0]

	if !viper.IsSet(key) {
		fmt.Println("not set")
		return nil
	}

	val := viper.Get(key)

	switch v := val.(type) {
	case []any:
		// Array values - print one per line
		for _, item := range v {
			fmt.Println(item)
		}
	case []string:
		for _, item := range v {
			fmt.Println(item)
		}
	default:
		fmt.Println(viper.GetString(key))
	}

	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	if !slices.Contains(configKeys, key) {
		return errors.Newf("unknown key %q (valid: %s)", key, strings.Join(configKeys, ", "))
	}

	switch key {
	case "version":
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.Newf("version must be an integer, got %q", value)
		}
		viper.Set(key, n)

	case "cache":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Newf("cache must be true or false, got %q", value)
		}
		viper.Set(key, b)

	default:
		viper.Set(key, value)
	}

	// Validate the prospective configuration before writing it.
	var c config.Config
	if err := viper.Unmarshal(&c); err != nil {
		return errors.Wrap(err, "parsing configuration")
	}
	if errs := config.Validate(&c); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "%serror: %v%s\n", colorRed, e, colorReset)
		}
		return errors.NewUserError(errors.Newf("invalid value for %s", key), "")
	}

	if err := writeConfig(); err != nil {
		return err
	}
	fmt.Printf("Set %s = %s\n", key, value)

	return nil
}

func runConfigList(_ *cobra.Command, _ []string) error {
	data, err := yaml.Marshal(resolvedConfig())
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	fmt.Print(string(data))
	return nil
}

func runConfigEdit(_ *cobra.Command, _ []string) error {
	configPath := viper.ConfigFileUsed()
	if configPath == "" {
		configPath = paths.ConfigFile()
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return errors.Newf("config file not found at %s\nRun 'shareful init' to create it", configPath)
	}

	if err := editor.Open(currentConfig().Editor, configPath); err != nil {
		return errors.Wrap(err, "running editor")
	}

	return nil
}

// resolvedConfig builds the effective configuration from viper,
// defaults included.
func resolvedConfig() map[string]any {
	return map[string]any{
		"version": viper.GetInt("version"),
		"repo":    viper.GetString("repo"),
		"editor":  viper.GetString("editor"),
		"cache":   viper.GetBool("cache"),
		"publish": map[string]any{
			"remote": viper.GetString("publish.remote"),
			"branch": viper.GetString("publish.branch"),
		},
		"export": map[string]any{
			"out": viper.GetString("export.out"),
		},
	}
}

// writeConfig writes the current viper configuration to the config file.
func writeConfig() error {
	configPath := viper.ConfigFileUsed()
	if configPath == "" {
		configPath = paths.ConfigFile()
	}

	if err := paths.EnsureDir(filepath.Dir(configPath), 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	if err := fileutil.AtomicWriteYAML(configPath, resolvedConfig()); err != nil {
		return errors.Wrap(err, "writing config file")
	}

	return nil
}
