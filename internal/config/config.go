// Package config loads shareful configuration through Viper.
package config

import (
	"github.com/spf13/viper"

	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/internal/paths"
)

// AppName names the config file and the SHAREFUL_* env prefix.
const AppName = "shareful"

// Config is the resolved configuration tree.
type Config struct {
	Version int           `mapstructure:"version" yaml:"version"`
	Repo    string        `mapstructure:"repo" yaml:"repo"`
	Editor  string        `mapstructure:"editor" yaml:"editor"`
	Cache   bool          `mapstructure:"cache" yaml:"cache"`
	Publish PublishConfig `mapstructure:"publish" yaml:"publish"`
	Export  ExportConfig  `mapstructure:"export" yaml:"export"`
}

// PublishConfig controls where publish --push sends commits.
type PublishConfig struct {
	Remote string `mapstructure:"remote" yaml:"remote"`
	Branch string `mapstructure:"branch" yaml:"branch"`
}

// ExportConfig holds defaults for the export command.
type ExportConfig struct {
	Out string `mapstructure:"out" yaml:"out"`
}

// Init registers file locations, the SHAREFUL_* env binding, and
// defaults with Viper. Called once from root command setup, before any
// Load.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Working directory wins over the XDG config dir.
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix("SHAREFUL")
	viper.AutomaticEnv()

	viper.SetDefault("version", 1)
	viper.SetDefault("cache", true)
	viper.SetDefault("publish.remote", "origin")
	viper.SetDefault("export.out", "dist")
}

// Load resolves the configuration. An explicit path must exist; with an
// empty path the search locations are tried and a missing file just
// means defaults.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, errors.Wrap(err, "reading config file")
		}
		// No file in the search locations: defaults only.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	return &cfg, nil
}
