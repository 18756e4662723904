package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/internal/index"
	"github.com/shareful-ai/shareful/internal/lock"
	"github.com/shareful-ai/shareful/internal/logging"
	"github.com/shareful-ai/shareful/internal/paths"
	"github.com/shareful-ai/shareful/internal/repo"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// truncate shortens a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// workingDir returns the current directory, falling back to "." when it
// cannot be resolved.
func workingDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}

// locateRoot resolves the share repository root from the --repo flag,
// the configuration, or the working directory.
func locateRoot() (string, error) {
	root, err := repo.Locate(workingDir(), repoFlag, currentConfig().Repo)
	if err != nil {
		if errors.Is(err, errors.ErrNotInRepo) {
			return "", errors.NewUserError(err, "Run 'shareful init' to create a repository, or pass --repo")
		}
		return "", errors.NewSystemError(err, "")
	}
	return root, nil
}

// openRepository locates the repository and attaches the scan cache when
// enabled. The returned closer releases the cache; call it even when the
// cache is disabled.
func openRepository(noCache bool) (*repo.Repository, func(), error) {
	root, err := locateRoot()
	if err != nil {
		return nil, nil, err
	}

	opts := []repo.Option{repo.WithLogger(logging.Default())}
	closer := func() {}

	if currentConfig().Cache && !noCache {
		ix, err := index.Open(paths.IndexFile(root))
		if err != nil {
			// The cache is an accelerator; a broken one costs a re-parse,
			// never the command.
			logging.Default().Warn("cache unavailable", "error", err)
		} else {
			opts = append(opts, repo.WithCache(ix))
			closer = func() { _ = ix.Close() }
		}
	}

	return repo.New(root, opts...), closer, nil
}

// acquireLock takes the repository's advisory lock for commands that
// mutate it. The returned release function is safe to defer.
func acquireLock(ctx context.Context, root string) (func(), error) {
	l, err := lock.NewFromPath(paths.LockFile(root))
	if err != nil {
		return nil, errors.NewSystemError(err, "")
	}

	if err := l.TryLock(ctx); err != nil {
		if errors.Is(err, lock.ErrAlreadyLocked) {
			return nil, errors.NewUserError(err, "Wait for the other command to finish and retry")
		}
		return nil, errors.NewSystemError(err, "")
	}

	return func() { _ = l.Unlock() }, nil
}

// confirm prompts the user for a yes/no confirmation.
// Returns true only if the user enters "y" or "yes" (case-insensitive).
func confirm(prompt string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N] ", prompt)

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// promptLine reads one line of input after printing a prompt. The
// fallback is returned on empty input.
func promptLine(prompt, fallback string) string {
	reader := bufio.NewReader(os.Stdin)
	if fallback != "" {
		fmt.Printf("%s [%s]: ", prompt, fallback)
	} else {
		fmt.Printf("%s: ", prompt)
	}

	response, err := reader.ReadString('\n')
	if err != nil {
		return fallback
	}

	response = strings.TrimSpace(response)
	if response == "" {
		return fallback
	}
	return response
}
