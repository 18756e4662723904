package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/internal/paths"
)

// resetValidateFlags restores the validate command's flag state.
func resetValidateFlags() {
	validateJSON = false
	validateNoCache = false
}

func TestValidateCommand_Metadata(t *testing.T) {
	if validateCmd.Use != "validate [path...]" {
		t.Errorf("validateCmd.Use = %q, want %q", validateCmd.Use, "validate [path...]")
	}

	if validateCmd.Flags().Lookup("json") == nil {
		t.Error("--json flag should be defined")
	}
	if validateCmd.Flags().Lookup("no-cache") == nil {
		t.Error("--no-cache flag should be defined")
	}
}

func TestRunValidate_AllValid(t *testing.T) {
	root := newTestRepo(t)
	writeShare(t, root, "one", validDoc("one", "First share"))
	writeShare(t, root, "two", validDoc("two", "Second share"))
	useRepo(t, root)

	resetValidateFlags()
	t.Cleanup(resetValidateFlags)
	validateNoCache = true

	var buf bytes.Buffer
	if err := runValidateWithWriter(&buf, nil); err != nil {
		t.Fatalf("runValidateWithWriter() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "2 document(s) checked: 2 valid, 0 invalid") {
		t.Errorf("summary line missing\nGot:\n%s", output)
	}
	if !strings.Contains(output, "✓") {
		t.Errorf("valid documents should be marked\nGot:\n%s", output)
	}
}

func TestRunValidate_ReportsViolations(t *testing.T) {
	root := newTestRepo(t)
	writeShare(t, root, "good", validDoc("good", "Fine"))

	// Slug mismatch plus a missing section.
	broken := strings.Replace(validDoc("wrong-slug", "Broken"), "## Context\n\nDetails.\n", "", 1)
	writeShare(t, root, "bad", broken)
	useRepo(t, root)

	resetValidateFlags()
	t.Cleanup(resetValidateFlags)
	validateNoCache = true

	var buf bytes.Buffer
	err := runValidateWithWriter(&buf, nil)
	if err == nil {
		t.Fatal("expected error when a document has violations")
	}

	var exitErr *errors.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *errors.ExitError, got %T", err)
	}
	if exitErr.Code != errors.ExitUser {
		t.Errorf("exit code = %d, want %d", exitErr.Code, errors.ExitUser)
	}

	output := buf.String()
	if !strings.Contains(output, "✗") {
		t.Errorf("invalid document should be marked\nGot:\n%s", output)
	}
	if !strings.Contains(output, "2 document(s) checked: 1 valid, 1 invalid") {
		t.Errorf("summary line missing\nGot:\n%s", output)
	}
}

func TestRunValidate_FileArgument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, paths.ShareFileName)
	writeFile(t, path, validDoc("loose", "A loose file"))

	resetValidateFlags()
	t.Cleanup(resetValidateFlags)

	var buf bytes.Buffer
	if err := runValidateWithWriter(&buf, []string{path}); err != nil {
		t.Fatalf("runValidateWithWriter() error = %v", err)
	}

	if !strings.Contains(buf.String(), "1 document(s) checked: 1 valid, 0 invalid") {
		t.Errorf("summary line missing\nGot:\n%s", buf.String())
	}
}

func TestRunValidate_DirectoryArgument(t *testing.T) {
	root := newTestRepo(t)
	writeShare(t, root, "one", validDoc("one", "First"))
	writeShare(t, root, "two", validDoc("two", "Second"))

	resetValidateFlags()
	t.Cleanup(resetValidateFlags)

	var buf bytes.Buffer
	if err := runValidateWithWriter(&buf, []string{paths.SharesDir(root)}); err != nil {
		t.Fatalf("runValidateWithWriter() error = %v", err)
	}

	if !strings.Contains(buf.String(), "2 document(s) checked") {
		t.Errorf("directory walk should find both shares\nGot:\n%s", buf.String())
	}
}

func TestRunValidate_MissingPath(t *testing.T) {
	resetValidateFlags()
	t.Cleanup(resetValidateFlags)

	var buf bytes.Buffer
	err := runValidateWithWriter(&buf, []string{filepath.Join(t.TempDir(), "absent")})
	if err == nil {
		t.Fatal("expected error for a missing path")
	}

	var exitErr *errors.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *errors.ExitError, got %T", err)
	}
	if exitErr.Code != errors.ExitUser {
		t.Errorf("exit code = %d, want %d", exitErr.Code, errors.ExitUser)
	}
}

func TestRunValidate_EmptyDirectory(t *testing.T) {
	resetValidateFlags()
	t.Cleanup(resetValidateFlags)

	var buf bytes.Buffer
	err := runValidateWithWriter(&buf, []string{t.TempDir()})
	if err == nil {
		t.Fatal("expected error for a directory without SHARE.md files")
	}
	if !strings.Contains(err.Error(), "no SHARE.md found") {
		t.Errorf("error should name the problem, got %v", err)
	}
}

func TestRunValidate_JSON(t *testing.T) {
	root := newTestRepo(t)
	writeShare(t, root, "good", validDoc("good", "Fine"))
	broken := strings.Replace(validDoc("good-two", "Broken"), "## Solution\n\nDetails.\n", "", 1)
	writeShare(t, root, "good-two", broken)
	useRepo(t, root)

	resetValidateFlags()
	t.Cleanup(resetValidateFlags)
	validateJSON = true
	validateNoCache = true

	var buf bytes.Buffer
	err := runValidateWithWriter(&buf, nil)

	var exitErr *errors.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != errors.ExitUser {
		t.Fatalf("expected user-level exit error, got %v", err)
	}
	output := buf.String()

	// The output is a stream of JSON objects, one per document.
	type report struct {
		Path       string `json:"path"`
		Valid      bool   `json:"valid"`
		Violations []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"violations"`
	}

	dec := json.NewDecoder(strings.NewReader(output))
	var reports []report
	for {
		var r report
		if err := dec.Decode(&r); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("output is not a JSON stream: %v", err)
		}
		reports = append(reports, r)
	}

	if len(reports) != 2 {
		t.Fatalf("got %d JSON reports, want 2", len(reports))
	}

	var valid, invalid int
	for _, r := range reports {
		if r.Valid {
			valid++
		} else {
			invalid++
			if len(r.Violations) == 0 {
				t.Error("invalid report should carry violations")
			}
		}
	}
	if valid != 1 || invalid != 1 {
		t.Errorf("valid/invalid = %d/%d, want 1/1", valid, invalid)
	}

	// JSON mode never prints the text summary.
	if strings.Contains(output, "document(s) checked") {
		t.Error("JSON output should not contain the text summary")
	}
}
