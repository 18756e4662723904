// Package editor launches the user's preferred text editor on share
// documents.
package editor

import (
	"os"
	"os/exec"

	"github.com/shareful-ai/shareful/internal/errors"
)

// Open launches an editor on the given path and waits for it to exit.
// The editor is chosen by Detect; override comes from the `editor`
// config key and wins over the environment when set.
func Open(override, path string) error {
	cmd := exec.Command(Detect(override), path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "running editor")
	}

	return nil
}

// Detect returns the editor command to use. Preference order: the
// override, $EDITOR, $VISUAL, nano if installed, vi. The value is used
// as a bare command name, not a shell line.
func Detect(override string) string {
	if override != "" {
		return override
	}

	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}

	// $VISUAL for full-screen editors
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}

	// nano is the friendlier fallback when present
	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}

	// vi is available on all Unix systems
	return "vi"
}
