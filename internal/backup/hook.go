package backup

import (
	"sync"

	"github.com/shareful-ai/shareful/internal/errors"
)

// backupOnce tracks per-scope backup state within a session so repeated
// fix operations snapshot each scope only once.
var (
	backupOnce  = make(map[string]*sync.Once)
	backupMutex sync.Mutex
)

// EnsureBackedUp ensures a backup exists for the scope before
// modification. Safe for concurrent calls; only one backup is created
// per scope per session. No paths means nothing to back up and is not
// an error. A failed backup resets the guard so the caller can retry.
func EnsureBackedUp(scope string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	backupMutex.Lock()
	once, exists := backupOnce[scope]
	if !exists {
		once = &sync.Once{}
		backupOnce[scope] = once
	}
	backupMutex.Unlock()

	var backupErr error
	once.Do(func() {
		mgr := NewManager()
		_, backupErr = mgr.Backup(scope, paths)
		if backupErr != nil {
			backupMutex.Lock()
			delete(backupOnce, scope)
			backupMutex.Unlock()
		}
	})

	if backupErr != nil {
		return errors.Wrapf(backupErr, "creating backup for %s", scope)
	}

	return nil
}

// ResetBackupState clears the backup state for all scopes.
// This is primarily useful for testing to reset state between tests.
func ResetBackupState() {
	backupMutex.Lock()
	defer backupMutex.Unlock()
	backupOnce = make(map[string]*sync.Once)
}
