package slug

import (
	"regexp"
	"strings"
)

var rePunct = regexp.MustCompile(`[^a-z0-9\s-]`)

// Make normalizes a place name into a stable slug: lower-case, punctuation
// stripped, whitespace runs collapsed to single hyphens. It is used both for
// cache-key construction and for matching listing cities against town slugs,
// so the output for a given input must never change.
func Make(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = rePunct.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), "-")
}

// Same reports whether a free-form name and a slug identify the same place.
func Same(name, slugged string) bool {
	return slugged != "" && Make(name) == slugged
}
