// Package index provides a repo-local metadata cache backed by bbolt.
//
// The cache lives at <root>/.shareful/index.db and maps slugs to the
// frontmatter parsed on a previous scan, keyed by file mtime and size.
// It is purely an accelerator: a missing or corrupt cache never fails a
// scan, it just costs a re-parse.
package index

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/internal/share"
)

const (
	// dirPerm is the permission mode for the .shareful directory.
	dirPerm = fs.FileMode(0o700)

	// filePerm is the permission mode for the cache database file.
	filePerm = fs.FileMode(0o600)

	// openTimeout is the maximum time to wait for the bolt database lock.
	openTimeout = 5 * time.Second
)

var sharesBucket = []byte("shares")

// Entry is the cached record for a single share, keyed by slug.
type Entry struct {
	Meta  share.Frontmatter `json:"meta"`
	MTime int64             `json:"mtime"`
	Size  int64             `json:"size"`
}

// Fresh reports whether the cached entry still describes a file with the
// given modification time and size.
func (e Entry) Fresh(mtime, size int64) bool {
	return e.MTime == mtime && e.Size == size
}

// Index wraps the bbolt database holding cached share metadata.
type Index struct {
	db *bolt.DB
}

// Open opens the cache database at the given path, creating it and its
// parent directory if they do not exist. The shares bucket is created
// on open.
func Open(path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return nil, errors.Wrap(err, "creating cache directory")
	}

	db, err := bolt.Open(path, filePerm, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, errors.Wrap(err, "opening cache db")
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sharesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "initializing cache db")
	}

	return &Index{db: db}, nil
}

// Close closes the database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Get returns the cached entry for a slug, or nil if not found.
func (ix *Index) Get(slug string) (*Entry, error) {
	var e *Entry

	err := ix.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(sharesBucket).Get([]byte(slug))
		if v == nil {
			return nil
		}

		e = &Entry{}

		return json.Unmarshal(v, e)
	})

	return e, err
}

// Put persists the entry for a slug.
func (ix *Index) Put(slug string, e Entry) error {
	return ix.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}

		return tx.Bucket(sharesBucket).Put([]byte(slug), data)
	})
}

// Delete removes the entry for a slug. Deleting an absent slug is a no-op.
func (ix *Index) Delete(slug string) error {
	return ix.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sharesBucket).Delete([]byte(slug))
	})
}

// All returns every cached entry keyed by slug.
func (ix *Index) All() (map[string]Entry, error) {
	result := make(map[string]Entry)

	err := ix.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(sharesBucket).ForEach(func(k, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return err
			}

			result[string(k)] = e

			return nil
		})
	})

	return result, err
}

// Len returns the number of cached entries.
func (ix *Index) Len() int {
	count := 0
	_ = ix.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(sharesBucket).Stats().KeyN

		return nil
	})

	return count
}

// Prune removes every cached slug not present in keep. It returns the
// number of entries removed.
func (ix *Index) Prune(keep map[string]bool) (int, error) {
	removed := 0
	err := ix.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sharesBucket)

		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			if keep[string(k)] {
				continue
			}
			if err := c.Delete(); err != nil {
				return err
			}
			removed++
		}

		return nil
	})

	return removed, err
}
