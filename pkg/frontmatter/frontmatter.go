// Package frontmatter provides utilities for splitting, parsing, and
// formatting YAML frontmatter in markdown files.
package frontmatter

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissing is returned when a document does not begin with a "---"
// delimiter line.
var ErrMissing = errors.New("missing frontmatter")

// ErrUnterminated is returned when an opening "---" delimiter is never
// closed by a second one.
var ErrUnterminated = errors.New("unterminated frontmatter")

var delimiter = []byte("---")

// cutLine returns the first line of b without its terminator, the remainder
// after the terminator, and whether a terminator was found.
func cutLine(b []byte) (line, rest []byte, ok bool) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return b, nil, false
	}
	return b[:i], b[i+1:], true
}

// isDelimiter reports whether line contains exactly "---".
// A trailing carriage return is tolerated for CRLF files.
func isDelimiter(line []byte) bool {
	return bytes.Equal(bytes.TrimSuffix(line, []byte("\r")), delimiter)
}

// Split separates a document into its raw YAML frontmatter and body.
//
// The frontmatter must open with a line containing exactly "---" as the
// first line of the document and close with another such line. Both LF and
// CRLF line endings are accepted. The returned matter is the raw bytes
// between the delimiter lines; the body is everything after the closing
// delimiter line, untrimmed.
//
// If the document does not begin with a delimiter line, Split returns
// ErrMissing; if the opening delimiter is never closed, ErrUnterminated.
// In both cases body is the entire document, so callers can still inspect
// the text.
func Split(doc []byte) (matter, body []byte, err error) {
	line, rest, ok := cutLine(doc)
	if !isDelimiter(line) {
		return nil, doc, ErrMissing
	}
	if !ok {
		return nil, doc, ErrUnterminated
	}

	// Walk the remainder one line at a time looking for the closing
	// delimiter. Checking the delimiter before the terminator lets a
	// closing "---" with no trailing newline still count.
	for off := 0; ; {
		line, tail, ok := cutLine(rest[off:])
		if isDelimiter(line) {
			return rest[:off], tail, nil
		}
		if !ok {
			return nil, doc, ErrUnterminated
		}
		off += len(line) + 1
	}
}

// Parse extracts YAML frontmatter and body content from a reader.
// If no frontmatter is present, returns empty struct and full content as
// body. This is useful where frontmatter is optional (README files, notes).
func Parse[T any](r io.Reader, matter *T) (body []byte, err error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	fm, body, err := Split(content)
	if err != nil {
		// Frontmatter is optional here; treat the whole document as body.
		return content, nil
	}

	if err := yaml.Unmarshal(fm, matter); err != nil {
		return nil, err
	}
	return body, nil
}

// MustParse is like Parse but fails when no well-formed frontmatter block
// is found. This is used for share documents, where frontmatter is required.
func MustParse[T any](r io.Reader, matter *T) (body []byte, err error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	fm, body, err := Split(content)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(fm, matter); err != nil {
		return nil, err
	}
	return body, nil
}

// ParseHeader parses only the frontmatter from the reader.
// It stops reading after the closing delimiter, so the body is never
// consumed. Returns nil if no frontmatter is found (silent success, matter
// remains empty). This is the cheap path for directory scans that only
// need metadata.
func ParseHeader(r io.Reader, matter any) error {
	scanner := bufio.NewScanner(r)

	// Check first line
	if !scanner.Scan() {
		return scanner.Err()
	}
	if !isDelimiter([]byte(scanner.Text())) {
		// No frontmatter start delimiter
		return nil
	}

	var buf bytes.Buffer
	for scanner.Scan() {
		line := scanner.Text()
		if isDelimiter([]byte(line)) {
			// Found closing delimiter
			return yaml.Unmarshal(buf.Bytes(), matter)
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}

	return scanner.Err()
}

// Format formats content with YAML frontmatter.
// The matter struct is serialized to YAML and wrapped in "---" delimiters,
// followed by the body content.
func Format(matter any, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(matter); err != nil {
		return nil, err
	}

	buf.WriteString("---\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}
