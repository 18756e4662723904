package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/shareful-ai/shareful/internal/paths"
	"github.com/shareful-ai/shareful/pkg/fileutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Manager handles backup creation, restoration, and retention.
type Manager struct {
	rootDir        string
	retentionCount int
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir sets the root backup directory.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		m.rootDir = dir
	}
}

// WithRetentionCount sets the number of backups to retain per scope.
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retentionCount = n
		}
	}
}

// NewManager creates a backup Manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		rootDir:        paths.BackupsDir(),
		retentionCount: DefaultRetentionCount,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Backup snapshots the given paths under a scope. Directories are backed
// up recursively; each file keeps its permissions and gets a SHA256 hash
// in the manifest. Paths that do not exist are skipped; a backup with no
// surviving files is an error.
func (m *Manager) Backup(scope string, snapPaths []string) (*Manifest, error) {
	if scope == "" {
		return nil, errors.New("scope is required")
	}
	if len(snapPaths) == 0 {
		return nil, errors.New("at least one path is required")
	}

	backupID, backupPath, err := m.reserveID(scope)
	if err != nil {
		return nil, err
	}

	var files []File
	for _, p := range snapPaths {
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, "stat %s", p)
		}

		if info.IsDir() {
			dirFiles, err := m.backupDirectory(p, backupPath)
			if err != nil {
				return nil, errors.Wrapf(err, "backing up directory %s", p)
			}
			files = append(files, dirFiles...)
		} else {
			bf, err := m.backupFile(p, backupPath)
			if err != nil {
				return nil, errors.Wrapf(err, "backing up file %s", p)
			}
			files = append(files, *bf)
		}
	}

	if len(files) == 0 {
		os.RemoveAll(backupPath)
		return nil, errors.New("no files to back up")
	}

	manifest := &Manifest{
		Version:     ManifestVersion,
		CreatedAt:   time.Now().UTC(),
		Scope:       scope,
		Files:       files,
		ToolVersion: Version,
		ID:          backupID,
	}

	manifestPath := filepath.Join(backupPath, "manifest.json")
	if err := fileutil.AtomicWriteJSON(manifestPath, manifest); err != nil {
		return nil, errors.Wrap(err, "writing manifest")
	}

	return manifest, nil
}

// reserveID picks a backup ID that does not collide with an existing
// directory and creates it. Two backups within the same second get
// numeric suffixes.
func (m *Manager) reserveID(scope string) (string, string, error) {
	base := time.Now().Format("20060102T150405")

	backupID := base
	for n := 2; ; n++ {
		backupPath := m.backupPath(scope, backupID)
		if _, err := os.Stat(backupPath); os.IsNotExist(err) {
			if err := os.MkdirAll(backupPath, 0o755); err != nil {
				return "", "", errors.Wrap(err, "creating backup directory")
			}
			return backupID, backupPath, nil
		}
		backupID = fmt.Sprintf("%s-%d", base, n)
	}
}

// backupFile copies a single file to the backup directory.
func (m *Manager) backupFile(src, backupPath string) (*File, error) {
	relPath := generateRelPath(src)
	dst := filepath.Join(backupPath, relPath)

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating parent directory")
	}

	hash, mode, err := copyFile(src, dst)
	if err != nil {
		return nil, err
	}

	return &File{
		OriginalPath: src,
		RelPath:      relPath,
		SHA256Hash:   hash,
		Mode:         mode,
	}, nil
}

// backupDirectory recursively backs up all files in a directory.
func (m *Manager) backupDirectory(srcDir, backupPath string) ([]File, error) {
	var files []File

	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		bf, err := m.backupFile(path, backupPath)
		if err != nil {
			return err
		}
		files = append(files, *bf)
		return nil
	})

	return files, err
}

// Restore copies files from a backup back to their original locations.
// File hashes are verified against the manifest first; a mismatch fails
// with ErrBackupCorrupted before anything is written.
func (m *Manager) Restore(scope, backupID string) error {
	manifest, err := m.Get(scope, backupID)
	if err != nil {
		return err
	}

	backupPath := m.backupPath(scope, backupID)

	for _, bf := range manifest.Files {
		srcPath := filepath.Join(backupPath, bf.RelPath)

		hash, err := hashFile(srcPath)
		if err != nil {
			return errors.Wrapf(err, "reading backup file %s", bf.RelPath)
		}
		if hash != bf.SHA256Hash {
			return errors.Wrapf(ErrBackupCorrupted, "file %s hash mismatch", bf.RelPath)
		}
	}

	for _, bf := range manifest.Files {
		srcPath := filepath.Join(backupPath, bf.RelPath)

		if err := os.MkdirAll(filepath.Dir(bf.OriginalPath), 0o755); err != nil {
			return errors.Wrapf(err, "creating directory for %s", bf.OriginalPath)
		}
		if _, _, err := copyFile(srcPath, bf.OriginalPath); err != nil {
			return errors.Wrapf(err, "restoring %s", bf.OriginalPath)
		}
		if err := os.Chmod(bf.OriginalPath, bf.Mode); err != nil {
			return errors.Wrapf(err, "setting permissions for %s", bf.OriginalPath)
		}
	}

	return nil
}

// List returns all available backups for a scope, newest first.
func (m *Manager) List(scope string) ([]Manifest, error) {
	if scope == "" {
		return nil, errors.New("scope is required")
	}

	scopeDir := m.scopeDir(scope)

	entries, err := os.ReadDir(scopeDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoBackupsFound
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	manifests := make([]Manifest, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		manifest, err := m.Get(scope, entry.Name())
		if err != nil {
			// Skip invalid backup directories
			continue
		}
		manifests = append(manifests, *manifest)
	}

	if len(manifests) == 0 {
		return nil, ErrNoBackupsFound
	}

	slices.SortFunc(manifests, func(a, b Manifest) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return manifests, nil
}

// Prune removes old backups beyond keep for the scope.
func (m *Manager) Prune(scope string, keep int) error {
	if keep < 0 {
		return errors.New("keep must be non-negative")
	}

	manifests, err := m.List(scope)
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return nil
		}
		return err
	}

	for i := keep; i < len(manifests); i++ {
		backupPath := m.backupPath(scope, manifests[i].ID)
		if err := os.RemoveAll(backupPath); err != nil {
			return errors.Wrapf(err, "removing backup %s", manifests[i].ID)
		}
	}

	return nil
}

// Get returns the manifest for a specific backup.
func (m *Manager) Get(scope, backupID string) (*Manifest, error) {
	if scope == "" {
		return nil, errors.New("scope is required")
	}
	if backupID == "" {
		return nil, errors.New("backup ID is required")
	}

	manifestPath := filepath.Join(m.backupPath(scope, backupID), "manifest.json")

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "backup %s not found", backupID)
		}
		return nil, errors.Wrap(err, "reading manifest")
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(err, "parsing manifest")
	}

	manifest.ID = backupID
	return &manifest, nil
}

// backupPath returns the full path to a backup directory.
func (m *Manager) backupPath(scope, backupID string) string {
	return filepath.Join(m.scopeDir(scope), backupID)
}

// scopeDir returns the backup directory for a scope.
func (m *Manager) scopeDir(scope string) string {
	return filepath.Join(m.rootDir, scope)
}

// hashFile computes the SHA256 hash of a file.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "opening file")
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(err, "reading file")
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// copyFile copies a file from src to dst, returning the SHA256 hash and
// mode. The destination permissions are set to match the source.
func copyFile(src, dst string) (hash string, mode fs.FileMode, err error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return "", 0, errors.Wrap(err, "opening source file")
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return "", 0, errors.Wrap(err, "stat source file")
	}
	mode = srcInfo.Mode()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", 0, errors.Wrap(err, "creating destination file")
	}

	h := sha256.New()
	w := io.MultiWriter(dstFile, h)

	if _, err := io.Copy(w, srcFile); err != nil {
		dstFile.Close()
		return "", 0, errors.Wrap(err, "copying file")
	}

	if err := dstFile.Close(); err != nil {
		return "", 0, errors.Wrap(err, "closing destination file")
	}

	if err := os.Chmod(dst, mode); err != nil {
		return "", 0, errors.Wrap(err, "setting permissions")
	}

	return hex.EncodeToString(h.Sum(nil)), mode, nil
}

// generateRelPath creates a relative path for storage in the backup
// directory. The leading separator and any colons (Windows drive
// letters) are dropped so the result joins cleanly.
func generateRelPath(absPath string) string {
	clean := filepath.Clean(absPath)
	clean = strings.ReplaceAll(clean, ":", "")

	if len(clean) > 0 && clean[0] == filepath.Separator {
		clean = clean[1:]
	}

	return clean
}
