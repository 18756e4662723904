package doctor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shareful-ai/shareful/internal/index"
	"github.com/shareful-ai/shareful/internal/paths"
	"github.com/shareful-ai/shareful/internal/share"
)

func TestRepoCheck_Found(t *testing.T) {
	root := newShareRepo(t)
	writeShareFile(t, root, "fix-dns", shareDoc("fix-dns", "T", []string{"go"}))

	result := NewRepoCheck(root, "", "").Run()

	if result.Status != SeverityPass {
		t.Fatalf("Run().Status = %v, want pass (message: %s)", result.Status, result.Message)
	}
	if result.Details["root"] != root {
		t.Errorf("Details[root] = %v, want %s", result.Details["root"], root)
	}
	if result.Details["shares"] != 1 {
		t.Errorf("Details[shares] = %v, want 1", result.Details["shares"])
	}
}

func TestRepoCheck_WalksUp(t *testing.T) {
	root := newShareRepo(t)
	writeShareFile(t, root, "fix-dns", shareDoc("fix-dns", "T", []string{"go"}))

	nested := filepath.Join(root, "shares", "fix-dns")
	result := NewRepoCheck(nested, "", "").Run()

	if result.Status != SeverityPass {
		t.Errorf("Run().Status = %v, want pass (message: %s)", result.Status, result.Message)
	}
	if result.Details["root"] != root {
		t.Errorf("Details[root] = %v, want %s", result.Details["root"], root)
	}
}

func TestRepoCheck_ExplicitNonRepo(t *testing.T) {
	result := NewRepoCheck(t.TempDir(), t.TempDir(), "").Run()

	if result.Status != SeverityError {
		t.Errorf("Run().Status = %v, want error", result.Status)
	}
	if !strings.Contains(result.FixHint, "shareful init") {
		t.Errorf("FixHint = %q, want pointer to init", result.FixHint)
	}
}

func TestRepoCheck_NoSharesDir(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, paths.MarkerDirName), 0o755); err != nil {
		t.Fatal(err)
	}

	result := NewRepoCheck(root, "", "").Run()

	if result.Status != SeverityWarning {
		t.Errorf("Run().Status = %v, want warning (message: %s)", result.Status, result.Message)
	}
}

func TestCacheCheck_NoRepo(t *testing.T) {
	result := NewCacheCheck("").Run()
	if result.Status != SeverityInfo {
		t.Errorf("Run().Status = %v, want info", result.Status)
	}
}

func TestCacheCheck_NotBuiltYet(t *testing.T) {
	root := newShareRepo(t)

	result := NewCacheCheck(root).Run()

	if result.Status != SeverityInfo {
		t.Errorf("Run().Status = %v, want info", result.Status)
	}
	if !strings.Contains(result.Message, "first scan") {
		t.Errorf("Message = %q", result.Message)
	}
}

func TestCacheCheck_Healthy(t *testing.T) {
	root := newShareRepo(t)
	path := filepath.Join(root, paths.MarkerDirName, paths.IndexFileName)

	ix, err := index.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	entry := index.Entry{Meta: share.Frontmatter{Title: "T", Slug: "fix-dns"}, MTime: 1, Size: 1}
	if err := ix.Put("fix-dns", entry); err != nil {
		t.Fatal(err)
	}
	if err := ix.Close(); err != nil {
		t.Fatal(err)
	}

	result := NewCacheCheck(root).Run()

	if result.Status != SeverityPass {
		t.Fatalf("Run().Status = %v, want pass (message: %s)", result.Status, result.Message)
	}
	if result.Details["entries"] != 1 {
		t.Errorf("Details[entries] = %v, want 1", result.Details["entries"])
	}
}

func TestCacheCheck_Corrupt(t *testing.T) {
	root := newShareRepo(t)
	path := filepath.Join(root, paths.MarkerDirName, paths.IndexFileName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("this is not a database"), 0o600); err != nil {
		t.Fatal(err)
	}

	result := NewCacheCheck(root).Run()

	if result.Status != SeverityWarning {
		t.Errorf("Run().Status = %v, want warning (message: %s)", result.Status, result.Message)
	}
	if !strings.Contains(result.FixHint, "rebuilds on the next scan") {
		t.Errorf("FixHint = %q", result.FixHint)
	}
}

func TestGitCheck_NoRepo(t *testing.T) {
	result := NewGitCheck("").Run()
	if result.Status != SeverityInfo {
		t.Errorf("Run().Status = %v, want info", result.Status)
	}
}

func TestGitCheck_NotGit(t *testing.T) {
	root := newShareRepo(t)

	result := NewGitCheck(root).Run()

	if result.Status != SeverityInfo {
		t.Errorf("Run().Status = %v, want info", result.Status)
	}
	if !strings.Contains(result.FixHint, "git init") {
		t.Errorf("FixHint = %q, want pointer to git init", result.FixHint)
	}
}

func TestGitCheck_GitPresent(t *testing.T) {
	root := newShareRepo(t)
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	result := NewGitCheck(root).Run()

	if result.Status != SeverityPass {
		t.Errorf("Run().Status = %v, want pass (message: %s)", result.Status, result.Message)
	}
	if !strings.HasPrefix(result.Message, "git repository") {
		t.Errorf("Message = %q", result.Message)
	}
}
