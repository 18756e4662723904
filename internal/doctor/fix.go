package doctor

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shareful-ai/shareful/internal/backup"
	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/internal/share"
	"github.com/shareful-ai/shareful/pkg/fileutil"
	"github.com/shareful-ai/shareful/pkg/frontmatter"
)

// Fixer is an optional interface that checks can implement to support auto-remediation.
// Checks that implement Fixer can fix issues they detect when the --fix flag is used.
type Fixer interface {
	// CanFix returns true if this check has fixable issues.
	// Must be called after Run() to check if there are issues that can be fixed.
	CanFix() bool

	// Fix attempts to remediate the issues found by Run().
	// Returns a slice of FixResult indicating what was fixed or why it couldn't be fixed.
	// Must be called after Run().
	Fix() []FixResult
}

// FixResult describes the outcome of an attempted fix operation.
type FixResult struct {
	// Path is the file that was targeted for fixing.
	Path string `json:"path"`

	// Fixed indicates whether the fix was successfully applied.
	Fixed bool `json:"fixed"`

	// Description explains what was fixed or why it couldn't be fixed.
	Description string `json:"description"`

	// Error contains the error if the fix failed.
	Error error `json:"-"`
}

// backupScope keys the pre-fix snapshot; one snapshot of the shares tree
// is taken per run regardless of how many fixers modify files.
const backupScope = "doctor"

// sharesBackup returns a hook that snapshots the shares tree under the
// doctor scope before the first modification of a run.
func sharesBackup(sharesDir string) func() error {
	return func() error {
		return backup.EnsureBackedUp(backupScope, []string{sharesDir})
	}
}

// mappingValue returns the value node for key in a YAML mapping node,
// or nil when the key is absent.
func mappingValue(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// rewriteFrontmatter reads the share document at path, lets mutate alter
// the parsed frontmatter mapping, and atomically writes the document back
// when mutate reports a change. The body is preserved byte for byte; the
// frontmatter is re-encoded, which keeps key order and comments but may
// normalize indentation.
func rewriteFrontmatter(path string, mutate func(mapping *yaml.Node) (bool, error)) (bool, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return false, errors.Wrapf(err, "reading %s", path)
	}

	matter, body, err := frontmatter.Split(data)
	if err != nil {
		return false, errors.Wrapf(err, "splitting %s", path)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(matter, &doc); err != nil {
		return false, errors.Wrapf(err, "parsing frontmatter of %s", path)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return false, errors.Newf("frontmatter of %s is not a mapping", path)
	}

	changed, err := mutate(doc.Content[0])
	if err != nil || !changed {
		return false, err
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return false, errors.Wrapf(err, "encoding frontmatter of %s", path)
	}
	if err := enc.Close(); err != nil {
		return false, errors.Wrap(err, "closing encoder")
	}
	buf.WriteString("---\n")
	buf.Write(body)

	if err := fileutil.AtomicWriteFile(path, buf.Bytes(), 0o644); err != nil {
		return false, errors.Wrapf(err, "writing %s", path)
	}

	return true, nil
}

// slugRewrite is one pending slug correction.
type slugRewrite struct {
	Path string // absolute SHARE.md path
	Slug string // directory-derived slug to write
}

// SlugFixer rewrites slug fields that disagree with their directory name.
// It is embedded in StructureCheck to provide fix capability.
type SlugFixer struct {
	rewrites []slugRewrite
	backup   func() error
}

// CanFix returns true if there are slug mismatches to rewrite.
func (f *SlugFixer) CanFix() bool {
	return len(f.rewrites) > 0
}

// Fix rewrites each mismatched slug field to its directory name.
// The shares tree is backed up before the first write.
func (f *SlugFixer) Fix() []FixResult {
	if err := f.backup(); err != nil {
		return []FixResult{{
			Description: "backup failed, no fixes applied",
			Error:       err,
		}}
	}

	results := make([]FixResult, 0, len(f.rewrites))
	for _, rw := range f.rewrites {
		result := FixResult{Path: rw.Path}

		changed, err := rewriteFrontmatter(rw.Path, func(mapping *yaml.Node) (bool, error) {
			node := mappingValue(mapping, share.FieldSlug)
			if node == nil {
				return false, errors.New("no slug field in frontmatter")
			}
			if node.Value == rw.Slug {
				return false, nil
			}
			node.Value = rw.Slug
			return true, nil
		})

		switch {
		case err != nil:
			result.Description = fmt.Sprintf("failed to rewrite slug: %v", err)
			result.Error = err
		case changed:
			result.Fixed = true
			result.Description = fmt.Sprintf("rewrote slug to %q", rw.Slug)
		default:
			result.Fixed = true
			result.Description = "slug already correct"
		}

		results = append(results, result)
	}

	return results
}

// setRewrites stores the pending corrections found by the check.
func (f *SlugFixer) setRewrites(rewrites []slugRewrite) {
	f.rewrites = rewrites
}

// TagCaseFixer lowercases tag values in share documents.
// It is embedded in TagCaseCheck to provide fix capability.
type TagCaseFixer struct {
	paths  []string
	backup func() error
}

// CanFix returns true if there are files with uppercase tags.
func (f *TagCaseFixer) CanFix() bool {
	return len(f.paths) > 0
}

// Fix lowercases every tag in each offending file.
// The shares tree is backed up before the first write.
func (f *TagCaseFixer) Fix() []FixResult {
	if err := f.backup(); err != nil {
		return []FixResult{{
			Description: "backup failed, no fixes applied",
			Error:       err,
		}}
	}

	results := make([]FixResult, 0, len(f.paths))
	for _, path := range f.paths {
		result := FixResult{Path: path}

		changed, err := rewriteFrontmatter(path, lowercaseTags)

		switch {
		case err != nil:
			result.Description = fmt.Sprintf("failed to lowercase tags: %v", err)
			result.Error = err
		case changed:
			result.Fixed = true
			result.Description = "lowercased tags"
		default:
			result.Fixed = true
			result.Description = "tags already lowercase"
		}

		results = append(results, result)
	}

	return results
}

// setPaths stores the offending files found by the check.
func (f *TagCaseFixer) setPaths(paths []string) {
	f.paths = paths
}

// lowercaseTags folds every scalar in the tags sequence to lower case.
func lowercaseTags(mapping *yaml.Node) (bool, error) {
	node := mappingValue(mapping, share.FieldTags)
	if node == nil || node.Kind != yaml.SequenceNode {
		return false, nil
	}

	changed := false
	for _, item := range node.Content {
		if item.Kind != yaml.ScalarNode {
			continue
		}
		lower := strings.ToLower(item.Value)
		if lower != item.Value {
			item.Value = lower
			changed = true
		}
	}
	return changed, nil
}
