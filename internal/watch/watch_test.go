package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shareful-ai/shareful/internal/repo"
)

// waitFor polls until cond returns true or the timeout expires.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}

		time.Sleep(20 * time.Millisecond)
	}

	t.Fatal("timed out waiting for condition")
}

// collector gathers watcher events for assertions.
type collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *collector) add(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

// latest returns the most recent event for a slug, or nil.
func (c *collector) latest(slug string) *Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.events) - 1; i >= 0; i-- {
		if c.events[i].Slug == slug {
			ev := c.events[i]
			return &ev
		}
	}
	return nil
}

// watchedRepo creates a repository and starts a watcher over it in a
// background goroutine. The watcher is stopped when the test ends.
func watchedRepo(t *testing.T) (string, *collector) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "shares"), 0o755))

	w := New(repo.New(root), WithDebounce(20*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Watch(ctx)
	}()

	c := &collector{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range w.Events() {
			c.add(ev)
		}
	}()

	// Give fsnotify a moment to set up watches.
	time.Sleep(50 * time.Millisecond)

	t.Cleanup(func() {
		cancel()

		err := <-errCh
		// context.Canceled is the expected shutdown error.
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("watcher error: %v", err)
		}
		<-done
	})

	return root, c
}

// validDoc builds a schema-valid share document.
func validDoc(slug, title string) string {
	var sb strings.Builder
	sb.WriteString("---\n")
	fmt.Fprintf(&sb, "title: %s\n", title)
	fmt.Fprintf(&sb, "slug: %s\n", slug)
	sb.WriteString("tags:\n  - go\n")
	sb.WriteString("problem: Something goes wrong under load.\n")
	sb.WriteString("solution_type: fix\n")
	sb.WriteString("created: \"2026-02-08\"\n")
	sb.WriteString("---\n\n")
	for _, section := range []string{"Problem", "Solution", "Why It Works", "Context"} {
		fmt.Fprintf(&sb, "## %s\n\nSome prose.\n\n", section)
	}
	return sb.String()
}

func writeShare(t *testing.T, root, slug, doc string) {
	t.Helper()
	dir := filepath.Join(root, "shares", slug)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SHARE.md"), []byte(doc), 0o644))
}

func TestWatch_ValidShare(t *testing.T) {
	root, c := watchedRepo(t)

	writeShare(t, root, "fix-dns", validDoc("fix-dns", "Fix DNS"))

	waitFor(t, 2*time.Second, func() bool {
		ev := c.latest("fix-dns")
		return ev != nil && ev.Err == nil && ev.Result.IsValid()
	})

	ev := c.latest("fix-dns")
	require.NotNil(t, ev)
	assert.False(t, ev.Removed)
	assert.Equal(t, filepath.Join(root, "shares", "fix-dns", "SHARE.md"), ev.Path)
}

func TestWatch_InvalidShare(t *testing.T) {
	root, c := watchedRepo(t)

	broken := strings.Replace(validDoc("fix-dns", "Fix DNS"), "## Context\n\nSome prose.\n\n", "", 1)
	writeShare(t, root, "fix-dns", broken)

	waitFor(t, 2*time.Second, func() bool {
		ev := c.latest("fix-dns")
		return ev != nil && ev.Err == nil && ev.Result != nil && !ev.Result.IsValid()
	})

	ev := c.latest("fix-dns")
	require.NotNil(t, ev.Result)
	assert.NotEmpty(t, ev.Result.Violations)
}

func TestWatch_EditRevalidates(t *testing.T) {
	root, c := watchedRepo(t)

	writeShare(t, root, "fix-dns", validDoc("fix-dns", "Fix DNS"))
	waitFor(t, 2*time.Second, func() bool {
		ev := c.latest("fix-dns")
		return ev != nil && ev.Result.IsValid()
	})

	// Break the document in place.
	broken := strings.Replace(validDoc("fix-dns", "Fix DNS"), "## Context\n\nSome prose.\n\n", "", 1)
	writeShare(t, root, "fix-dns", broken)

	waitFor(t, 2*time.Second, func() bool {
		ev := c.latest("fix-dns")
		return ev != nil && ev.Result != nil && !ev.Result.IsValid()
	})
}

func TestWatch_RemovedShare(t *testing.T) {
	root, c := watchedRepo(t)

	writeShare(t, root, "fix-dns", validDoc("fix-dns", "Fix DNS"))
	waitFor(t, 2*time.Second, func() bool {
		return c.latest("fix-dns") != nil
	})

	require.NoError(t, os.RemoveAll(filepath.Join(root, "shares", "fix-dns")))

	waitFor(t, 2*time.Second, func() bool {
		ev := c.latest("fix-dns")
		return ev != nil && ev.Removed
	})
}

func TestWatch_MissingDocumentReportsError(t *testing.T) {
	root, c := watchedRepo(t)

	// A share directory without a SHARE.md inside.
	require.NoError(t, os.Mkdir(filepath.Join(root, "shares", "empty-share"), 0o755))

	waitFor(t, 2*time.Second, func() bool {
		ev := c.latest("empty-share")
		return ev != nil && ev.Err != nil && !ev.Removed
	})
}

func TestShouldIgnore(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "/repo/shares/fix-dns/SHARE.md", want: false},
		{path: "/repo/shares/fix-dns", want: false},
		{path: "/repo/shares/.hidden", want: true},
		{path: "/repo/shares/fix-dns/.SHARE.md.swx", want: true},
		{path: "/repo/shares/fix-dns/SHARE.md~", want: true},
		{path: "/repo/shares/fix-dns/.SHARE.md.swp", want: true},
		{path: "/repo/shares/fix-dns/SHARE.md.swp", want: true},
	}

	for _, tt := range tests {
		if got := shouldIgnore(tt.path); got != tt.want {
			t.Errorf("shouldIgnore(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestSlugFor(t *testing.T) {
	sharesDir := filepath.Join("/repo", "shares")

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "share file", path: filepath.Join(sharesDir, "fix-dns", "SHARE.md"), want: "fix-dns"},
		{name: "share dir", path: filepath.Join(sharesDir, "fix-dns"), want: "fix-dns"},
		{name: "nested asset", path: filepath.Join(sharesDir, "fix-dns", "img", "x.png"), want: "fix-dns"},
		{name: "shares dir itself", path: sharesDir, want: ""},
		{name: "outside the tree", path: "/repo/README.md", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := slugFor(sharesDir, tt.path); got != tt.want {
				t.Errorf("slugFor(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
