package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

var slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify reduces a product or category name to a URL-safe identifier.
// Arabic-only names produce an empty slug, so callers fall back to the SKU
// or a generated value.
func Slugify(value string) string {
	s := strings.ToLower(strings.TrimSpace(value))
	s = slugStripRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// UniqueSlug appends a numeric suffix until taken reports the slug as free.
// The base slug never changes once assigned; this only runs at creation.
func UniqueSlug(base string, taken func(string) bool) string {
	if base == "" {
		base = "item"
	}
	if !taken(base) {
		return base
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if !taken(candidate) {
			return candidate
		}
	}
}
