// Package git wraps the git operations used by publish.
package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// IsRepo reports whether dir is the top level of a git work tree,
// checking for a .git entry. Worktrees and submodules keep .git as a
// file, so any entry counts.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// CurrentBranch returns the name of the checked-out branch in dir.
func CurrentBranch(dir string) (string, error) {
	cmd := exec.Command("git", "-C", dir, "rev-parse", "--abbrev-ref", "HEAD")
	out, err := cmd.Output()
	if err != nil {
		return "", errors.Wrap(err, "resolving current branch")
	}
	return strings.TrimSpace(string(out)), nil
}

// Status returns the porcelain status lines for the given pathspecs,
// or for the whole repository when none are given. An empty result
// means nothing is modified, staged, or untracked under the pathspecs.
func Status(dir string, pathspecs ...string) ([]string, error) {
	args := []string{"-C", dir, "status", "--porcelain"}
	if len(pathspecs) > 0 {
		args = append(args, "--")
		args = append(args, pathspecs...)
	}

	out, err := exec.Command("git", args...).Output()
	if err != nil {
		return nil, errors.Wrap(err, "git status failed")
	}

	var lines []string
	for _, line := range strings.Split(string(out), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// Add stages the given pathspecs.
func Add(dir string, pathspecs ...string) error {
	args := []string{"-C", dir, "add", "--"}
	args = append(args, pathspecs...)

	cmd := exec.Command("git", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "git add failed")
	}
	return nil
}

// Commit records staged changes with the given message. Output is
// streamed so commit hooks and summaries stay visible.
func Commit(dir, message string) error {
	cmd := exec.Command("git", "-C", dir, "commit", "-m", message)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "git commit failed")
	}
	return nil
}

// Push pushes branch to remote. Stdin is connected to os.Stdin to
// support interactive authentication (SSH passphrase, credentials).
func Push(dir, remote, branch string) error {
	cmd := exec.Command("git", "-C", dir, "push", remote, branch)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "git push failed")
	}
	return nil
}
