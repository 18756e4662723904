package config

import (
	"errors"
	"path/filepath"
	"strings"
)

// Validation errors for configuration fields.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidRef indicates a git remote or branch name is malformed.
	ErrInvalidRef = errors.New("invalid git ref")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	// Version must be >= 1
	if cfg.Version < 1 {
		errs = append(errs, ErrVersionTooLow)
	}

	// Validate directory paths if set
	if cfg.Repo != "" {
		if err := validatePath(cfg.Repo); err != nil {
			errs = append(errs, &PathError{
				Field: "repo",
				Path:  cfg.Repo,
				Err:   err,
			})
		}
	}

	if cfg.Export.Out != "" {
		if err := validatePath(cfg.Export.Out); err != nil {
			errs = append(errs, &PathError{
				Field: "export.out",
				Path:  cfg.Export.Out,
				Err:   err,
			})
		}
	}

	// Validate git ref names if set
	if cfg.Publish.Remote != "" {
		if err := validateRef(cfg.Publish.Remote); err != nil {
			errs = append(errs, &RefError{
				Field: "publish.remote",
				Name:  cfg.Publish.Remote,
				Err:   err,
			})
		}
	}

	if cfg.Publish.Branch != "" {
		if err := validateRef(cfg.Publish.Branch); err != nil {
			errs = append(errs, &RefError{
				Field: "publish.branch",
				Name:  cfg.Publish.Branch,
				Err:   err,
			})
		}
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Empty paths are valid (they mean "use default")
	if path == "" {
		return nil
	}

	// Check for null bytes which are never valid in paths
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	// Clean the path and check it's not empty after cleaning
	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

// validateRef checks that a value can serve as a git remote or branch
// name. The rules are a conservative subset of git-check-ref-format:
// no whitespace, no "..", no leading dash or trailing slash.
func validateRef(name string) error {
	if name == "" {
		return nil
	}

	if strings.ContainsAny(name, " \t\n") {
		return ErrInvalidRef
	}
	if strings.Contains(name, "..") {
		return ErrInvalidRef
	}
	if strings.HasPrefix(name, "-") || strings.HasSuffix(name, "/") {
		return ErrInvalidRef
	}

	return nil
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// RefError represents an error for a git remote or branch field.
type RefError struct {
	Field string
	Name  string
	Err   error
}

func (e *RefError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Name
}

func (e *RefError) Unwrap() error {
	return e.Err
}
