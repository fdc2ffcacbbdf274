// Package normalize derives clean book attributes from the raw category
// strings and identifiers returned by catalog lookups.
package normalize

import (
	"regexp"
	"strings"
)

// DefaultGenre is used when no usable genre can be extracted.
const DefaultGenre = "General"

// nonFictionMarkers are matched as substrings against the joined,
// lowercased category list.
var nonFictionMarkers = []string{
	"biography",
	"autobiography",
	"history",
	"science",
	"business",
	"psychology",
	"self-help",
	"memoir",
	"true crime",
	"nonfiction",
}

// forbiddenGenreTerms are too broad to be useful as a genre. Compared
// case-insensitively against whole segments.
var forbiddenGenreTerms = map[string]struct{}{
	"fiction":                   {},
	"non-fiction":               {},
	"general":                   {},
	"biography & autobiography": {},
	"comics & graphic novels":   {},
	"books":                     {},
}

var isbnSeparators = regexp.MustCompile(`[-\s]`)

// IsNonFiction reports whether the category list indicates a non-fiction
// work. Empty input defaults to fiction.
func IsNonFiction(categories []string) bool {
	if len(categories) == 0 {
		return false
	}

	joined := strings.ToLower(strings.Join(categories, " "))
	for _, marker := range nonFictionMarkers {
		if strings.Contains(joined, marker) {
			return true
		}
	}
	return false
}

// ParseGenre extracts the most specific genre from a category list.
//
// Catalog categories come as hierarchy paths like
// "Fiction / Science Fiction / Space Opera". Each category is split on
// " / " and " > " separators, overly broad segments are dropped, and the
// last surviving segment wins. The deepest level of the hierarchy is the
// most specific one.
func ParseGenre(categories []string) string {
	if len(categories) == 0 {
		return DefaultGenre
	}

	genre := DefaultGenre
	for _, category := range categories {
		for _, part := range splitCategory(category) {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, forbidden := forbiddenGenreTerms[strings.ToLower(part)]; forbidden {
				continue
			}
			genre = part
		}
	}
	return genre
}

// splitCategory splits a category path on " / " and " > " separators.
func splitCategory(category string) []string {
	var parts []string
	for _, bySlash := range strings.Split(category, " / ") {
		parts = append(parts, strings.Split(bySlash, " > ")...)
	}
	return parts
}

// SanitizeISBN strips hyphens and whitespace from an ISBN. No checksum
// validation is performed; the catalog is the authority on whether the
// identifier resolves.
func SanitizeISBN(raw string) string {
	return isbnSeparators.ReplaceAllString(raw, "")
}
