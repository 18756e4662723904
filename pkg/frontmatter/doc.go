// Package frontmatter provides generic parsing of YAML frontmatter from
// markdown files used by the shareful CLI for share documents.
//
// Frontmatter is delimited by lines containing exactly "---" at the start
// and end. The content between delimiters is parsed as YAML and unmarshaled
// into the type parameter T. The remaining content after the closing
// delimiter is returned as the body.
//
// # Basic Usage
//
//	type ShareMeta struct {
//		Title string   `yaml:"title"`
//		Slug  string   `yaml:"slug"`
//		Tags  []string `yaml:"tags"`
//	}
//
//	var meta ShareMeta
//	body, err := frontmatter.MustParse(f, &meta)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Share: %s\nBody:\n%s", meta.Title, body)
//
// # Error Handling
//
// The package defines sentinel errors for common failure conditions:
//
//   - [ErrMissing]: document doesn't start with a "---" delimiter line
//   - [ErrUnterminated]: the opening delimiter is never closed
//
// These can be checked using [errors.Is]:
//
//	body, err := frontmatter.MustParse(r, &meta)
//	if errors.Is(err, frontmatter.ErrMissing) {
//		// handle missing frontmatter
//	}
//
// [Split] exposes the raw delimiter handling directly for callers that need
// to report structural problems instead of failing on them, such as the
// share validator.
//
// # Supported Formats
//
// The parser supports YAML frontmatter with the standard "---" delimiters.
// Both Unix (LF) and Windows (CRLF) line endings are handled correctly.
package frontmatter
