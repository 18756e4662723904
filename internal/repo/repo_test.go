package repo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/internal/paths"
)

// validDoc renders a share document that passes validation, with the
// given slug in both the frontmatter and the four required sections.
func validDoc(slug, title string) string {
	return `---
title: ` + title + `
slug: ` + slug + `
tags:
  - go
  - testing
problem: Something specific breaks under a specific condition.
solution_type: fix
created: "2026-02-08"
---

## Problem

Details.

## Solution

Details.

## Why It Works

Details.

## Context

Details.
`
}

// writeShare creates shares/<dir>/SHARE.md under root with the given
// document content.
func writeShare(t *testing.T, root, dir, doc string) {
	t.Helper()

	shareDir := paths.ShareDir(root, dir)
	if err := os.MkdirAll(shareDir, 0o755); err != nil {
		t.Fatalf("creating share dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(shareDir, paths.ShareFileName), []byte(doc), 0o644); err != nil {
		t.Fatalf("writing share file: %v", err)
	}
}

// initRepo scaffolds a repository in a temp dir and returns its root.
func initRepo(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	if err := Init(root); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return root
}

func TestInit(t *testing.T) {
	root := t.TempDir()

	if err := Init(root); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	for _, dir := range []string{paths.SharesDir(root), paths.MarkerDir(root)} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("Init() did not create directory %s (err = %v)", dir, err)
		}
	}

	readme, err := os.ReadFile(filepath.Join(root, "README.md"))
	if err != nil {
		t.Fatalf("Init() did not create README: %v", err)
	}
	if !strings.Contains(string(readme), "shareful.ai") {
		t.Error("README does not mention the convention")
	}

	if !IsRoot(root) {
		t.Error("IsRoot() = false after Init()")
	}

	if err := Init(root); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("second Init() error = %v, want ErrAlreadyInitialized", err)
	}
}

func TestInitKeepsExistingReadme(t *testing.T) {
	root := t.TempDir()
	existing := "# My corpus\n"
	if err := os.WriteFile(filepath.Join(root, "README.md"), []byte(existing), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Init(root); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	got, err := os.ReadFile(filepath.Join(root, "README.md"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != existing {
		t.Errorf("Init() overwrote an existing README")
	}
}

func TestIsRoot(t *testing.T) {
	plain := t.TempDir()
	if IsRoot(plain) {
		t.Error("IsRoot() = true for an empty directory")
	}

	// A bare clone with only shares/ still counts as a root.
	bare := t.TempDir()
	if err := os.MkdirAll(paths.SharesDir(bare), 0o755); err != nil {
		t.Fatal(err)
	}
	if !IsRoot(bare) {
		t.Error("IsRoot() = false for a directory with shares/")
	}

	// A shares regular file does not.
	tricked := t.TempDir()
	if err := os.WriteFile(filepath.Join(tricked, paths.SharesDirName), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if IsRoot(tricked) {
		t.Error("IsRoot() = true for a shares regular file")
	}
}

func TestLocate(t *testing.T) {
	root := initRepo(t)
	nested := filepath.Join(root, "docs", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	t.Run("walk up from nested dir", func(t *testing.T) {
		got, err := Locate(nested, "", "")
		if err != nil {
			t.Fatalf("Locate() error = %v", err)
		}
		if got != root {
			t.Errorf("Locate() = %s, want %s", got, root)
		}
	})

	t.Run("flag wins over walk-up", func(t *testing.T) {
		other := initRepo(t)
		got, err := Locate(nested, other, "")
		if err != nil {
			t.Fatalf("Locate() error = %v", err)
		}
		if got != other {
			t.Errorf("Locate() = %s, want flag repo %s", got, other)
		}
	})

	t.Run("config used when flag empty", func(t *testing.T) {
		other := initRepo(t)
		got, err := Locate(t.TempDir(), "", other)
		if err != nil {
			t.Fatalf("Locate() error = %v", err)
		}
		if got != other {
			t.Errorf("Locate() = %s, want config repo %s", got, other)
		}
	})

	t.Run("explicit non-repo path fails", func(t *testing.T) {
		_, err := Locate(nested, t.TempDir(), "")
		if !errors.Is(err, errors.ErrNotInRepo) {
			t.Errorf("Locate() error = %v, want ErrNotInRepo", err)
		}
	})

	t.Run("no repo anywhere", func(t *testing.T) {
		_, err := Locate(t.TempDir(), "", "")
		if !errors.Is(err, errors.ErrNotInRepo) {
			t.Errorf("Locate() error = %v, want ErrNotInRepo", err)
		}
	})
}

func TestGet(t *testing.T) {
	root := initRepo(t)
	writeShare(t, root, "fix-dns", validDoc("fix-dns", "Fix DNS"))

	r := New(root)

	e, err := r.Get("fix-dns")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if e.Meta.Title != "Fix DNS" {
		t.Errorf("Get().Meta.Title = %q, want %q", e.Meta.Title, "Fix DNS")
	}
	if e.Slug != "fix-dns" {
		t.Errorf("Get().Slug = %q, want %q", e.Slug, "fix-dns")
	}

	if _, err := r.Get("absent"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Get(absent) error = %v, want ErrNotFound", err)
	}
}

func TestReadDocument(t *testing.T) {
	root := initRepo(t)
	writeShare(t, root, "fix-dns", validDoc("fix-dns", "Fix DNS"))

	r := New(root)

	doc, err := r.ReadDocument("fix-dns")
	if err != nil {
		t.Fatalf("ReadDocument() error = %v", err)
	}
	if doc.Frontmatter.Slug != "fix-dns" {
		t.Errorf("Frontmatter.Slug = %q, want %q", doc.Frontmatter.Slug, "fix-dns")
	}
	if !strings.Contains(doc.Body, "## Why It Works") {
		t.Error("Body missing section heading")
	}

	if _, err := r.ReadDocument("absent"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("ReadDocument(absent) error = %v, want ErrNotFound", err)
	}
}
