// Package repo provides share repository discovery, scanning, and
// structural checks.
//
// A share repository is a directory containing a shares/ tree with one
// subdirectory per share, each holding a SHARE.md document. The .shareful/
// directory marks the root and holds repo-local state (index cache, lock).
package repo

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/internal/index"
	"github.com/shareful-ai/shareful/internal/logging"
	"github.com/shareful-ai/shareful/internal/paths"
	"github.com/shareful-ai/shareful/internal/share"
	"github.com/shareful-ai/shareful/internal/share/validator"
	"github.com/shareful-ai/shareful/pkg/fileutil"
	"github.com/shareful-ai/shareful/pkg/frontmatter"
)

// ErrAlreadyInitialized is returned by Init when the target directory is
// already a share repository.
var ErrAlreadyInitialized = errors.New("directory is already a share repository")

// initialReadme seeds a new repository with a short pointer to the
// convention. Kept deliberately minimal; repo owners replace it.
const initialReadme = `# Shares

This repository follows the shareful.ai convention: each solution lives
in shares/<slug>/SHARE.md with YAML frontmatter and four body sections
(Problem, Solution, Why It Works, Context).

Run ` + "`shareful validate`" + ` before publishing.
`

// IsRoot reports whether dir looks like a share repository root, meaning
// it contains a .shareful/ marker directory or a shares/ directory. A
// bare clone without .shareful/ still resolves via shares/.
func IsRoot(dir string) bool {
	for _, name := range []string{paths.MarkerDirName, paths.SharesDirName} {
		if info, err := os.Stat(filepath.Join(dir, name)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// Locate resolves the repository root. Precedence: the explicit flag
// value, then the configured repo path, then walking up from startDir to
// the first directory that IsRoot accepts. Explicit paths that are not
// repositories fail rather than falling through, so a typo in --repo is
// not silently ignored.
func Locate(startDir, flagRepo, configRepo string) (string, error) {
	for _, explicit := range []string{flagRepo, configRepo} {
		if explicit == "" {
			continue
		}
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return "", errors.Wrapf(err, "resolving repository path %s", explicit)
		}
		if !IsRoot(abs) {
			return "", errors.Wrapf(errors.ErrNotInRepo, "%s", abs)
		}
		return abs, nil
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", errors.Wrapf(err, "resolving %s", startDir)
	}
	for {
		if IsRoot(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Wrapf(errors.ErrNotInRepo, "searched from %s", startDir)
		}
		dir = parent
	}
}

// Init scaffolds a share repository at dir: the .shareful/ marker
// directory, an empty shares/ tree, and a starter README when none
// exists. Returns ErrAlreadyInitialized if dir is already a repository.
func Init(dir string) error {
	if IsRoot(dir) {
		return errors.Wrapf(ErrAlreadyInitialized, "%s", dir)
	}

	if err := os.MkdirAll(paths.SharesDir(dir), 0o755); err != nil {
		return errors.Wrap(err, "creating shares directory")
	}
	if err := paths.EnsureDir(paths.MarkerDir(dir), paths.DefaultDirPerm); err != nil {
		return errors.Wrap(err, "creating marker directory")
	}

	readme := filepath.Join(dir, "README.md")
	if _, err := os.Stat(readme); os.IsNotExist(err) {
		if err := fileutil.AtomicWriteFile(readme, []byte(initialReadme), 0o644); err != nil {
			return errors.Wrap(err, "writing README")
		}
	}

	return nil
}

// Repository gives access to the shares of a located repository root.
type Repository struct {
	root      string
	logger    *slog.Logger
	cache     *index.Index
	validator *validator.Validator
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger used for scan warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		r.logger = logger
	}
}

// WithCache attaches a metadata cache consulted and refreshed by Scan.
// Without it every scan parses every file.
func WithCache(ix *index.Index) Option {
	return func(r *Repository) {
		r.cache = ix
	}
}

// New creates a Repository rooted at root. The root is trusted; use
// Locate to discover it.
func New(root string, opts ...Option) *Repository {
	r := &Repository{
		root:      root,
		logger:    logging.NewDiscard(),
		validator: validator.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Root returns the repository root directory.
func (r *Repository) Root() string {
	return r.root
}

// SharesDir returns the shares directory of the repository.
func (r *Repository) SharesDir() string {
	return paths.SharesDir(r.root)
}

// Get returns the entry for a single slug. It returns ErrNotFound when
// no share directory or SHARE.md exists for the slug.
func (r *Repository) Get(slug string) (*Entry, error) {
	e := r.scanOne(slug)
	if e.Err != nil {
		return nil, e.Err
	}
	return &e, nil
}

// ReadDocument reads and parses the full SHARE.md for a slug, body
// included. Unlike Scan it never consults the cache.
func (r *Repository) ReadDocument(slug string) (*share.Document, error) {
	path := paths.ShareFile(r.root, slug)

	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "%s", slug)
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	var meta share.Frontmatter
	matter, body, err := frontmatter.Split(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	if err := yaml.Unmarshal(matter, &meta); err != nil {
		return nil, errors.Wrapf(err, "parsing frontmatter of %s", path)
	}

	return &share.Document{Frontmatter: meta, Body: string(body)}, nil
}

// relPath renders path relative to the repository root for display,
// falling back to the input when it is not underneath the root.
func (r *Repository) relPath(path string) string {
	rel, err := filepath.Rel(r.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
