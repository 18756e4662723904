// Package slug derives URL-safe share identifiers from titles.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/internal/share"
)

// ErrUnsluggable is returned when no valid slug can be derived from the
// input, for example a title made entirely of punctuation.
var ErrUnsluggable = errors.New("cannot derive a slug from title")

// Make converts a title into a slug that satisfies the share slug
// constraint: lowercase ASCII letters, digits, and hyphens, at most 64
// characters. It NFD-normalizes, strips combining marks, lowercases,
// converts whitespace to hyphens, drops everything else, and collapses
// runs of hyphens.
func Make(title string) (string, error) {
	s := norm.NFD.String(title)

	// Strip combining (Mn) marks and lowercase before filtering so that
	// accented latin letters survive as their base letters.
	var b strings.Builder
	for _, r := range s {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	s = b.String()

	b.Reset()
	for _, r := range s {
		switch {
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '/':
			b.WriteRune('-')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	s = b.String()

	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.Trim(s, "-")

	if s == "" {
		return "", errors.Wrapf(ErrUnsluggable, "title %q", title)
	}

	if len(s) > share.MaxSlugLen {
		s = strings.Trim(s[:share.MaxSlugLen], "-")
	}

	return s, nil
}
