package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// Well-known names inside a share repository.
const (
	// MarkerDirName is the repository metadata directory created by init.
	// Its presence marks a directory as a share repository root.
	MarkerDirName = ".shareful"

	// SharesDirName is the directory holding one subdirectory per share.
	SharesDirName = "shares"

	// ShareFileName is the canonical document name inside a share directory.
	ShareFileName = "SHARE.md"

	// IndexFileName is the bbolt index database inside the marker directory.
	IndexFileName = "index.db"

	// LockFileName is the advisory lock file inside the marker directory.
	LockFileName = "shareful.lock"
)

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory.
// This is a thin wrapper around os.UserHomeDir for consistency.
// Note: It returns an empty string on error for backward compatibility.
// Use ResolveHome for proper error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
// On Linux: ~/.local/share
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func DataHome() string {
	return xdg.DataHome
}

// CacheHome returns the XDG cache home directory.
// On Linux: ~/.cache
// On macOS: ~/Library/Caches
// On Windows: %LOCALAPPDATA%\cache
func CacheHome() string {
	return xdg.CacheHome
}

// ConfigDir returns the shareful configuration directory.
// Returns: <ConfigHome>/shareful/
func ConfigDir() string {
	return filepath.Join(ConfigHome(), "shareful")
}

// ConfigFile returns the path to the shareful config file.
// Returns: <ConfigHome>/shareful/config.yaml
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// BackupsDir returns the directory for pre-fix backups of share files.
// Returns: <DataHome>/shareful/backups/
func BackupsDir() string {
	return filepath.Join(DataHome(), "shareful", "backups")
}

// MarkerDir returns the repository metadata directory for a repo root.
func MarkerDir(root string) string {
	return filepath.Join(root, MarkerDirName)
}

// SharesDir returns the shares directory for a repo root.
func SharesDir(root string) string {
	return filepath.Join(root, SharesDirName)
}

// ShareDir returns the directory for a single share.
// Returns: <root>/shares/<slug>/
func ShareDir(root, slug string) string {
	return filepath.Join(SharesDir(root), slug)
}

// ShareFile returns the canonical document path for a single share.
// Returns: <root>/shares/<slug>/SHARE.md
func ShareFile(root, slug string) string {
	return filepath.Join(ShareDir(root, slug), ShareFileName)
}

// IndexFile returns the bbolt index path for a repo root.
// Returns: <root>/.shareful/index.db
func IndexFile(root string) string {
	return filepath.Join(MarkerDir(root), IndexFileName)
}

// LockFile returns the advisory lock path for a repo root.
// Returns: <root>/.shareful/shareful.lock
func LockFile(root string) string {
	return filepath.Join(MarkerDir(root), LockFileName)
}
