package fileutil

import (
	"io"
	"os"

	"github.com/shareful-ai/shareful/internal/errors"
)

// MaxFileSize caps how many bytes ReadFileWithLimit will load. Share
// documents are prose; anything past 1MB is not one.
const MaxFileSize = 1 << 20

// ErrFileTooLarge reports a file past MaxFileSize.
var ErrFileTooLarge = errors.Newf("file exceeds maximum size of %d bytes", MaxFileSize)

// ReadFileWithLimit reads path, failing with ErrFileTooLarge instead of
// loading files past MaxFileSize into memory.
func ReadFileWithLimit(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	// Stat catches oversized regular files before any read; the
	// LimitReader check below covers files that grow in between.
	if info, err := f.Stat(); err == nil && info.Size() > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
