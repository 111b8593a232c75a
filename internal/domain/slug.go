package domain

import (
	"regexp"
	"strings"
)

// Package-level compiled regex patterns for performance
var (
	whitespaceRunRegex = regexp.MustCompile(`\s+`)
	nonSlugCharsRegex  = regexp.MustCompile(`[^a-z0-9\s-]`)
	hyphenRunRegex     = regexp.MustCompile(`-{2,}`)
)

// NormalizeModel converts a model name to the form used by the model filter:
// lowercased, with whitespace runs collapsed to a single hyphen.
// "Model 3 Long Range" becomes "model-3-long-range".
func NormalizeModel(model string) string {
	model = strings.TrimSpace(model)
	if model == "" {
		return ""
	}
	return whitespaceRunRegex.ReplaceAllString(strings.ToLower(model), "-")
}

// Slugify produces a URL path segment. Unlike NormalizeModel it also drops
// characters that do not belong in a path.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlugCharsRegex.ReplaceAllString(s, "")
	s = whitespaceRunRegex.ReplaceAllString(s, "-")
	s = hyphenRunRegex.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
