// Package sanitize provides text sanitization utilities for user-supplied
// strings that end up in documents, file names and sheet names.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// htmlTagRegex matches HTML tags
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
	// filenameRegex matches everything outside ASCII alphanumerics and Hangul syllables.
	filenameRegex = regexp.MustCompile(`[^a-zA-Z0-9가-힣]`)
	// sheetNameRegex matches characters a worksheet name may not contain.
	sheetNameRegex = regexp.MustCompile(`[\[\]:*?/\\]`)
)

const maxSheetNameRunes = 31

// StripHTML removes all HTML tags from a string, making it safe for text-only display.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = strings.ReplaceAll(result, "&lt;", "<")
	result = strings.ReplaceAll(result, "&gt;", ">")
	result = strings.ReplaceAll(result, "&amp;", "&")
	result = strings.ReplaceAll(result, "&quot;", "\"")
	result = strings.ReplaceAll(result, "&#39;", "'")
	// Re-strip after entity decode to catch encoded tags
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Text sanitizes a string for safe text storage by stripping HTML.
func Text(s string) string {
	return StripHTML(s)
}

// FilenamePart keeps only ASCII letters, digits and Hangul syllables.
func FilenamePart(s string) string {
	return filenameRegex.ReplaceAllString(s, "")
}

// SheetName makes s usable as a worksheet name: forbidden characters are
// removed, the result cut to 31 runes and surrounding spaces and apostrophes
// trimmed.
// An empty result yields fallback.
func SheetName(s, fallback string) string {
	name := sheetNameRegex.ReplaceAllString(s, "")
	if utf8.RuneCountInString(name) > maxSheetNameRunes {
		name = string([]rune(name)[:maxSheetNameRunes])
	}
	// Trimmed after the cut so no quote lands at either end.
	name = strings.TrimFunc(name, func(r rune) bool { return r == '\'' || unicode.IsSpace(r) })
	if name == "" {
		return fallback
	}
	return name
}
