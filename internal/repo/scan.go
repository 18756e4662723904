package repo

import (
	"bytes"
	"context"
	"os"
	"runtime"
	"sync"

	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/internal/index"
	"github.com/shareful-ai/shareful/internal/logging"
	"github.com/shareful-ai/shareful/internal/paths"
	"github.com/shareful-ai/shareful/internal/share"
	"github.com/shareful-ai/shareful/pkg/fileutil"
	"github.com/shareful-ai/shareful/pkg/frontmatter"
)

// Entry is one discovered share. Slug is the directory name under
// shares/, which is authoritative for addressing; the frontmatter slug
// field may disagree (CheckStructure reports that).
//
// Entries for unreadable or unparseable files carry the failure in Err
// with a zero Meta, so callers see every share directory either way.
type Entry struct {
	Slug  string
	Path  string
	Meta  share.Frontmatter
	MTime int64
	Size  int64
	Err   error
}

// Scan enumerates shares/*/SHARE.md and parses each frontmatter header
// into an Entry, in slug order. Files whose cached metadata is still
// fresh (same mtime and size) are served from the cache when one is
// attached. A missing shares/ directory yields an empty result, not an
// error, so a fresh repository lists cleanly.
func (r *Repository) Scan() ([]Entry, error) {
	slugs, err := r.shareSlugs()
	if err != nil {
		return nil, err
	}
	if len(slugs) == 0 {
		return nil, nil
	}

	workers := runtime.GOMAXPROCS(0)
	if len(slugs) < workers {
		workers = len(slugs)
	}

	// os.ReadDir returns names sorted, so filling by index keeps the
	// result in slug order without a second pass.
	entries := make([]Entry, len(slugs))
	work := make(chan int, len(slugs))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				entries[i] = r.scanOne(slugs[i])
			}
		}()
	}

	for i := range slugs {
		work <- i
	}
	close(work)
	wg.Wait()

	return entries, nil
}

// shareSlugs lists the share directory names under shares/, sorted.
func (r *Repository) shareSlugs() ([]string, error) {
	dirents, err := os.ReadDir(r.SharesDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading shares directory %s", r.SharesDir())
	}

	slugs := make([]string, 0, len(dirents))
	for _, d := range dirents {
		if !d.IsDir() {
			continue
		}
		slugs = append(slugs, d.Name())
	}
	return slugs, nil
}

// scanOne builds the Entry for a single slug, consulting the cache first.
func (r *Repository) scanOne(slug string) Entry {
	path := paths.ShareFile(r.root, slug)
	e := Entry{Slug: slug, Path: path}

	st, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			e.Err = errors.Wrapf(errors.ErrNotFound, "%s", slug)
			return e
		}
		e.Err = errors.Wrapf(err, "stat %s", path)
		return e
	}
	e.MTime = st.ModTime().UnixNano()
	e.Size = st.Size()

	if r.cache != nil {
		cached, err := r.cache.Get(slug)
		if err != nil {
			r.logger.Warn("cache read failed", "slug", slug, "error", err)
		} else if cached != nil && cached.Fresh(e.MTime, e.Size) {
			r.logger.Log(context.Background(), logging.LevelTrace, "cache hit", "slug", slug)
			e.Meta = cached.Meta
			return e
		}
	}

	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		e.Err = errors.Wrapf(err, "reading %s", path)
		return e
	}

	var meta share.Frontmatter
	if _, err := frontmatter.MustParse(bytes.NewReader(data), &meta); err != nil {
		e.Err = errors.Wrapf(err, "parsing %s", r.relPath(path))
		return e
	}
	e.Meta = meta

	if r.cache != nil {
		if err := r.cache.Put(slug, index.Entry{Meta: meta, MTime: e.MTime, Size: e.Size}); err != nil {
			r.logger.Warn("cache write failed", "slug", slug, "error", err)
		}
	}

	return e
}
