// Package backup provides pre-modification snapshots of share documents.
//
// Before doctor --fix rewrites SHARE.md files, the affected files are
// copied into a timestamped backup directory so a bad fix is always
// recoverable. Each backup is stored as:
//
//	<DataHome>/shareful/backups/
//	└── {scope}/
//	    └── {timestamp}/
//	        ├── manifest.json
//	        └── {copied files...}
//
// The scope groups backups by the operation that created them (doctor
// fixes use the "doctor" scope). The manifest records every copied file
// with its original path, permissions, and SHA256 hash; Restore verifies
// hashes before writing anything back, returning ErrBackupCorrupted on a
// mismatch.
//
// Use [Manager.Backup] to snapshot paths, [Manager.List] to enumerate
// snapshots newest first, [Manager.Restore] to copy a snapshot back, and
// [Manager.Prune] to enforce retention. [EnsureBackedUp] wraps Backup in
// a once-per-scope guard so repeated fixes within one run snapshot only
// once.
package backup
