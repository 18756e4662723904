package share

import (
	"strings"

	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/pkg/frontmatter"
)

// bodyTemplate is the scaffold body for a new share. It carries the four
// required sections with placeholder prose an author replaces.
const bodyTemplate = `## Problem

{{problem}}

## Solution

Describe the fix, workaround, pattern, or configuration here. Include the
exact commands, code, or config an author can copy.

## Why It Works

Explain the mechanism: what was actually wrong and why this resolves it.

## Context

Note versions, platforms, and situations where this applies or does not.
`

// Scaffold renders a complete SHARE.md document for the given frontmatter.
// The result always contains the four required sections, so a scaffolded
// share with valid frontmatter passes validation as generated.
func Scaffold(fm Frontmatter) ([]byte, error) {
	problem := strings.TrimSpace(fm.Problem)
	if problem == "" {
		problem = "State the problem in one sentence."
	}
	body := strings.Replace(bodyTemplate, "{{problem}}", problem, 1)

	doc, err := frontmatter.Format(&fm, body)
	if err != nil {
		return nil, errors.Wrap(err, "rendering share template")
	}
	return doc, nil
}
