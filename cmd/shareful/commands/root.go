// Package commands implements the CLI commands for shareful.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shareful-ai/shareful/cmd"
	"github.com/shareful-ai/shareful/internal/config"
	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/internal/logging"
)

// repoFlag holds the value of the --repo flag.
var repoFlag string

// configFlag holds the value of the --config flag.
var configFlag string

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// cfg is the configuration loaded during initialization.
var cfg *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&repoFlag, "repo", "",
		"path to the share repository (default: walk up from the working directory)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"path to the config file (default: $XDG_CONFIG_HOME/shareful/config.yaml)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("shareful version {{.Version}}\n")

	// Silence errors and usage so main controls error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	// Capture load errors for later reporting
	cfg, configLoadErr = config.Load(configFlag)
}

var rootCmd = &cobra.Command{
	Use:   "shareful",
	Short: "Author, validate, and publish shareful.ai shares",
	Long: `shareful manages a repository of shares: markdown documents that each
describe one coding solution, following the shareful.ai convention.

A share lives at shares/<slug>/SHARE.md with YAML frontmatter (title,
slug, tags, problem, solution_type, created) and four required body
sections: Problem, Solution, Why It Works, and Context.

shareful scaffolds new shares, validates them against the convention's
schema, searches and lists the corpus, publishes shares via git, and
exports valid shares for external site and search tooling.`,
	Example: `  # Create a repository
  shareful init my-shares

  # Author a share
  shareful create --title "Fix flaky CI cache" --tags ci,cache

  # Validate every share in the repository
  shareful validate

  # Publish a validated share
  shareful publish fix-flaky-ci-cache

  See Also: shareful doctor, shareful export`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("SHAREFUL_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfig surfaces configuration load failures before a command runs.
func checkConfig(cmd *cobra.Command) error {
	// Help and version never need configuration
	if cmd.Name() == "help" || cmd.Name() == "version" {
		return nil
	}

	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}

	return nil
}

// currentConfig returns the loaded configuration, or defaults when
// loading never ran (direct command invocation in tests).
func currentConfig() *config.Config {
	if cfg != nil {
		return cfg
	}
	return &config.Config{Version: 1, Cache: true}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
