package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shareful-ai/shareful/internal/repo"
	"github.com/shareful-ai/shareful/internal/share"
)

// resetSearchFlags restores the search command's flag state.
func resetSearchFlags() {
	searchTag = ""
	searchType = ""
	searchJSON = false
	searchInteractive = false
	searchNoCache = false
}

func TestSearchCommand_Metadata(t *testing.T) {
	if searchCmd.Use != "search [query]" {
		t.Errorf("searchCmd.Use = %q, want %q", searchCmd.Use, "search [query]")
	}

	for _, name := range []string{"tag", "type", "json", "interactive", "no-cache"} {
		if searchCmd.Flags().Lookup(name) == nil {
			t.Errorf("--%s flag should be defined", name)
		}
	}
}

func TestOutputSearchTabular_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := outputSearchTabular(&buf, nil); err != nil {
		t.Fatalf("outputSearchTabular() error = %v", err)
	}

	if !strings.Contains(buf.String(), "No shares found.") {
		t.Errorf("empty result should say so\nGot:\n%s", buf.String())
	}
}

func TestOutputSearchTabular_Rows(t *testing.T) {
	results := []repo.Entry{
		{
			Slug: "fix-flaky-ci-cache",
			Meta: share.Frontmatter{
				Title:        "Fix flaky CI cache",
				SolutionType: "fix",
				Problem:      "Test caches go stale between runners and fail intermittently on busy days.",
			},
		},
		{
			Slug: "vendor-proxy",
			Meta: share.Frontmatter{
				Title:        "Vendor proxy workaround",
				SolutionType: "workaround",
				Problem:      "Short problem.",
			},
		},
	}

	var buf bytes.Buffer
	if err := outputSearchTabular(&buf, results); err != nil {
		t.Fatalf("outputSearchTabular() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{"SLUG", "TITLE", "TYPE", "PROBLEM", "fix-flaky-ci-cache", "vendor-proxy", "Short problem."} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q\nGot:\n%s", want, output)
		}
	}

	// Long problem statements are truncated for the table.
	if !strings.Contains(output, "...") {
		t.Errorf("long problem should be truncated\nGot:\n%s", output)
	}
}

func TestRunSearch_RanksExactSlugFirst(t *testing.T) {
	root := newTestRepo(t)
	writeShare(t, root, "cache", validDoc("cache", "Unrelated title"))
	writeShare(t, root, "cache-invalidation", validDoc("cache-invalidation", "Another"))
	useRepo(t, root)

	resetSearchFlags()
	t.Cleanup(resetSearchFlags)
	searchNoCache = true

	var buf bytes.Buffer
	if err := runSearchWithWriter(&buf, []string{"cache"}); err != nil {
		t.Fatalf("runSearchWithWriter() error = %v", err)
	}

	// The slug cell ends at the color reset, which disambiguates the
	// exact slug from its prefix-match sibling.
	output := buf.String()
	exact := strings.Index(output, "cache"+colorReset)
	prefix := strings.Index(output, "cache-invalidation"+colorReset)
	if exact == -1 || prefix == -1 {
		t.Fatalf("both shares should match\nGot:\n%s", output)
	}
	if exact > prefix {
		t.Errorf("exact slug match should rank before the prefix match\nGot:\n%s", output)
	}
}

func TestRunSearch_NoMatches(t *testing.T) {
	root := newTestRepo(t)
	writeShare(t, root, "alpha", validDoc("alpha", "Alpha"))
	useRepo(t, root)

	resetSearchFlags()
	t.Cleanup(resetSearchFlags)
	searchNoCache = true

	var buf bytes.Buffer
	if err := runSearchWithWriter(&buf, []string{"zzz-nothing"}); err != nil {
		t.Fatalf("runSearchWithWriter() error = %v", err)
	}

	if !strings.Contains(buf.String(), "No shares found.") {
		t.Errorf("no matches should say so\nGot:\n%s", buf.String())
	}
}

func TestRunSearch_TypeFilter(t *testing.T) {
	root := newTestRepo(t)
	writeShare(t, root, "a-fix", validDoc("a-fix", "Cache fix"))
	workaround := strings.Replace(validDoc("a-workaround", "Cache workaround"),
		"solution_type: fix", "solution_type: workaround", 1)
	writeShare(t, root, "a-workaround", workaround)
	useRepo(t, root)

	resetSearchFlags()
	t.Cleanup(resetSearchFlags)
	searchNoCache = true
	searchType = "workaround"

	var buf bytes.Buffer
	if err := runSearchWithWriter(&buf, []string{"cache"}); err != nil {
		t.Fatalf("runSearchWithWriter() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "a-workaround") {
		t.Errorf("matching type should be listed\nGot:\n%s", output)
	}
	if strings.Contains(output, "a-fix") {
		t.Errorf("other types should be filtered out\nGot:\n%s", output)
	}
}

func TestRunSearch_JSON(t *testing.T) {
	root := newTestRepo(t)
	writeShare(t, root, "alpha", validDoc("alpha", "Alpha share"))
	useRepo(t, root)

	resetSearchFlags()
	t.Cleanup(resetSearchFlags)
	searchNoCache = true
	searchJSON = true

	var buf bytes.Buffer
	if err := runSearchWithWriter(&buf, []string{"alpha"}); err != nil {
		t.Fatalf("runSearchWithWriter() error = %v", err)
	}

	var entries []listEntryJSON
	if err := json.Unmarshal(buf.Bytes(), &entries); err != nil {
		t.Fatalf("output is not valid JSON: %v\nGot:\n%s", err, buf.String())
	}
	if len(entries) != 1 || entries[0].Slug != "alpha" {
		t.Errorf("entries = %+v, want the alpha share", entries)
	}
}

func TestRunSearch_QueryMatchesProblemText(t *testing.T) {
	root := newTestRepo(t)
	writeShare(t, root, "alpha", validDoc("alpha", "Alpha share"))
	useRepo(t, root)

	resetSearchFlags()
	t.Cleanup(resetSearchFlags)
	searchNoCache = true

	var buf bytes.Buffer
	// validDoc's problem statement mentions "condition".
	if err := runSearchWithWriter(&buf, []string{"condition"}); err != nil {
		t.Fatalf("runSearchWithWriter() error = %v", err)
	}

	if !strings.Contains(buf.String(), "alpha") {
		t.Errorf("problem text should be searchable\nGot:\n%s", buf.String())
	}
}
