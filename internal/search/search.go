// Package search ranks shares against a text query.
package search

import (
	"slices"
	"strings"

	"github.com/shareful-ai/shareful/internal/repo"
)

// Options configures search filtering.
type Options struct {
	// Tag keeps only shares carrying the tag. Empty matches all.
	Tag string
	// Type keeps only shares with the solution type. Empty matches all.
	Type string
}

// Search finds shares matching the query and filter options. Matching is
// case-insensitive against slug, title, tags, and problem. An empty query
// returns all shares (subject to filters). Results are sorted by match
// quality (exact slug or title > prefix > contains > problem/tag-only),
// ties broken by slug so output is deterministic.
//
// Entries carrying a scan error have no metadata to match and are skipped.
func Search(entries []repo.Entry, query string, opts Options) []repo.Entry {
	query = strings.ToLower(query)

	var results []repo.Entry
	for _, e := range entries {
		if e.Err != nil {
			continue
		}
		if !matchesFilters(e, opts) {
			continue
		}
		if query == "" || scoreMatch(e, query) > 0 {
			results = append(results, e)
		}
	}

	slices.SortFunc(results, func(a, b repo.Entry) int {
		if d := scoreMatch(b, query) - scoreMatch(a, query); d != 0 {
			return d
		}
		return strings.Compare(a.Slug, b.Slug)
	})

	return results
}

// matchesFilters checks if a share passes the filter criteria.
func matchesFilters(e repo.Entry, opts Options) bool {
	if opts.Type != "" && e.Meta.SolutionType != opts.Type {
		return false
	}
	if opts.Tag != "" && !hasTag(e.Meta.Tags, opts.Tag) {
		return false
	}
	return true
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// scoreMatch returns a score indicating match quality.
// Higher scores indicate better matches.
//
// Scoring:
//   - 100: Exact slug or title match
//   - 75: Slug or title starts with query
//   - 50: Slug or title contains query
//   - 25: Problem or a tag contains query (but slug and title don't)
//   - 0: No match or empty query
func scoreMatch(e repo.Entry, query string) int {
	if query == "" {
		return 0
	}

	slug := strings.ToLower(e.Slug)
	title := strings.ToLower(e.Meta.Title)

	if slug == query || title == query {
		return 100
	}
	if strings.HasPrefix(slug, query) || strings.HasPrefix(title, query) {
		return 75
	}
	if strings.Contains(slug, query) || strings.Contains(title, query) {
		return 50
	}

	if strings.Contains(strings.ToLower(e.Meta.Problem), query) {
		return 25
	}
	for _, tag := range e.Meta.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return 25
		}
	}

	return 0
}
