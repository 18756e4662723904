// Package paths provides path resolution for shareful's configuration and
// for the fixed layout of a share repository.
//
// # XDG Base Directory Compliance
//
// The package wraps github.com/adrg/xdg for cross-platform XDG Base Directory
// Specification compliance. On Linux and macOS, paths follow XDG conventions
// (~/.config, ~/.local/share, ~/.cache).
//
//	paths.ConfigDir()  // <XDG_CONFIG_HOME>/shareful/
//	paths.ConfigFile() // <XDG_CONFIG_HOME>/shareful/config.yaml
//	paths.BackupsDir() // <XDG_DATA_HOME>/shareful/backups/
//
// # Repository Layout
//
// A share repository has a fixed on-disk shape. All layout knowledge lives
// here so the rest of the codebase never assembles these paths by hand:
//
//	<root>/
//	  .shareful/           repository marker, index database, lock file
//	  shares/
//	    <slug>/SHARE.md    one directory per share
//
//	paths.ShareFile(root, "fix-x") // <root>/shares/fix-x/SHARE.md
//	paths.IndexFile(root)          // <root>/.shareful/index.db
//	paths.LockFile(root)           // <root>/.shareful/shareful.lock
package paths
