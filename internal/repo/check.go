package repo

import (
	"io/fs"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/internal/paths"
	"github.com/shareful-ai/shareful/internal/share/validator"
	"github.com/shareful-ai/shareful/pkg/fileutil"
)

// FileResult pairs a document path with its validation outcome. Err is
// set when the file could not be read at all; Result is set otherwise,
// valid or not.
type FileResult struct {
	Path   string
	Result *validator.Result
	Err    error
}

// Ok reports whether the file was read and passed validation.
func (fr FileResult) Ok() bool {
	return fr.Err == nil && fr.Result != nil && fr.Result.IsValid()
}

// CheckAll validates every share document in the repository and returns
// per-file results in slug order. Paths in the results are relative to
// the repository root. Read failures become per-file errors, never a
// batch failure; only an unreadable shares/ directory aborts.
func (r *Repository) CheckAll() ([]FileResult, error) {
	slugs, err := r.shareSlugs()
	if err != nil {
		return nil, err
	}

	files := make([]string, len(slugs))
	for i, slug := range slugs {
		files[i] = paths.ShareFile(r.root, slug)
	}

	results := checkConcurrent(r.validator, files)
	for i := range results {
		results[i].Path = r.relPath(results[i].Path)
	}
	return results, nil
}

// CheckFiles validates the given documents in input order. It needs no
// repository; validate accepts files outside any repo.
func CheckFiles(v *validator.Validator, files []string) []FileResult {
	return checkConcurrent(v, files)
}

// CollectShareFiles walks dir and returns every SHARE.md beneath it,
// sorted by path. Passing a single share directory therefore yields
// exactly its document.
func CollectShareFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == paths.ShareFileName {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", dir)
	}
	return files, nil
}

// checkConcurrent validates files with a bounded worker pool, results in
// input order.
func checkConcurrent(v *validator.Validator, files []string) []FileResult {
	if len(files) == 0 {
		return nil
	}

	workers := runtime.GOMAXPROCS(0)
	if len(files) < workers {
		workers = len(files)
	}

	results := make([]FileResult, len(files))
	work := make(chan int, len(files))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				results[i] = checkOne(v, files[i])
			}
		}()
	}

	for i := range files {
		work <- i
	}
	close(work)
	wg.Wait()

	return results
}

func checkOne(v *validator.Validator, path string) FileResult {
	fr := FileResult{Path: path}

	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		fr.Err = errors.Wrapf(err, "reading %s", path)
		return fr
	}

	result, err := v.Validate(data)
	if err != nil {
		fr.Err = err
		return fr
	}
	fr.Result = result
	return fr
}
