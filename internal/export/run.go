package export

import (
	"fmt"
	"log/slog"

	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/internal/logging"
	"github.com/shareful-ai/shareful/internal/repo"
	"github.com/shareful-ai/shareful/internal/share/validator"
	"github.com/shareful-ai/shareful/pkg/fileutil"
	"github.com/shareful-ai/shareful/pkg/frontmatter"
)

// ErrNotExportable is returned by Run in strict mode when a share fails
// validation or cannot be read.
var ErrNotExportable = errors.New("share not exportable")

// Options configure a Run.
type Options struct {
	// Strict aborts on the first share that cannot be exported instead
	// of skipping it.
	Strict bool

	// Logger receives a warning per skipped share. Nil discards.
	Logger *slog.Logger
}

// Skipped describes one share left out of an export.
type Skipped struct {
	Slug   string `json:"slug"`
	Reason string `json:"reason"`
}

// Result summarizes a completed export run.
type Result struct {
	Target   string    `json:"target"`
	OutDir   string    `json:"out_dir"`
	Exported int       `json:"exported"`
	Skipped  []Skipped `json:"skipped,omitempty"`
}

// Run renders every valid share of the repository through the named
// target into outDir. Invalid or unreadable shares are skipped with a
// warning; with opts.Strict the first one aborts the run before anything
// is written.
func Run(r *repo.Repository, targetName, outDir string, opts Options) (*Result, error) {
	target, err := Get(targetName)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewDiscard()
	}

	entries, err := r.Scan()
	if err != nil {
		return nil, err
	}

	v := validator.New()
	result := &Result{Target: targetName, OutDir: outDir}
	shares := make([]Share, 0, len(entries))

	for _, e := range entries {
		s, reason, err := prepare(v, e)
		if err != nil {
			return nil, err
		}
		if reason != "" {
			if opts.Strict {
				return nil, errors.Wrapf(ErrNotExportable, "%s: %s", e.Slug, reason)
			}
			logger.Warn("skipping share", "slug", e.Slug, "reason", reason)
			result.Skipped = append(result.Skipped, Skipped{Slug: e.Slug, Reason: reason})
			continue
		}
		shares = append(shares, *s)
	}

	if err := target.Export(outDir, shares); err != nil {
		return nil, errors.Wrapf(err, "exporting to %s", targetName)
	}

	result.Exported = len(shares)
	return result, nil
}

// prepare turns a scan entry into an exportable Share, or a reason it
// cannot be one. The error return is reserved for infrastructure
// failures; content problems always come back as a reason.
func prepare(v *validator.Validator, e repo.Entry) (*Share, string, error) {
	if e.Err != nil {
		return nil, e.Err.Error(), nil
	}

	data, err := fileutil.ReadFileWithLimit(e.Path)
	if err != nil {
		return nil, err.Error(), nil
	}

	res, err := v.Validate(data)
	if err != nil {
		return nil, "", errors.Wrapf(err, "validating %s", e.Slug)
	}
	if !res.IsValid() {
		return nil, fmt.Sprintf("%d validation violation(s)", len(res.Violations)), nil
	}

	_, body, err := frontmatter.Split(data)
	if err != nil {
		return nil, "", errors.Wrapf(err, "parsing %s", e.Slug)
	}

	return &Share{Meta: e.Meta, Body: string(body)}, "", nil
}
