// Package config provides configuration management for the shareful CLI.
//
// This package handles loading and validating the shareful tool's own
// configuration file. Repository content (shares) is never configured here;
// config only records where the repository lives and how commands behave.
//
// # Configuration File
//
// The default configuration file location is <XDG config>/shareful/config.yaml
// (typically ~/.config/shareful/config.yaml). The file uses YAML format:
//
//	version: 1
//	repo: /path/to/share-repo   # optional; discovered from CWD otherwise
//	editor: vim                 # optional; $EDITOR fallback chain otherwise
//	cache: true                 # metadata cache on scans
//	publish:
//	  remote: origin
//	  branch: main
//	export:
//	  out: dist
//
// Environment variables with the SHAREFUL_ prefix override file values
// (e.g. SHAREFUL_REPO, SHAREFUL_EDITOR).
//
// # Loading Configuration
//
// Call [Init] once at startup, then [Load]:
//
//	config.Init()
//	cfg, err := config.Load(flagConfigPath) // "" searches default locations
//	if err != nil {
//	    return fmt.Errorf("loading config: %w", err)
//	}
//
// # Validation
//
// [Validate] checks a loaded configuration and returns every problem found:
//
//	errs := config.Validate(cfg)
//	if len(errs) > 0 {
//	    for _, e := range errs {
//	        fmt.Println(e)
//	    }
//	}
package config
