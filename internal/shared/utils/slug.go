package utils

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	slugDashRuns     = regexp.MustCompile(`-+`)
)

// GenerateSlug derives a URL-friendly slug from a display name.
// "Organic Green Tea (500g)" -> "organic-green-tea-500g"
func GenerateSlug(input string) string {
	lower := strings.ToLower(strings.TrimSpace(input))
	hyphenated := strings.ReplaceAll(lower, " ", "-")
	cleaned := slugInvalidChars.ReplaceAllString(hyphenated, "")
	normalized := slugDashRuns.ReplaceAllString(cleaned, "-")
	return strings.Trim(normalized, "-")
}
