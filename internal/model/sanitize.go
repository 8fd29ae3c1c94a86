package model

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// pathUnsafe lists the characters that must never appear in a path segment.
// Covers both Unix and Windows reserved characters plus control whitespace.
const pathUnsafe = "/\\:<>\"|?*\t\n"

// Sanitize makes a display name safe for use as a single path segment.
// The name is NFC-normalized, every path-unsafe character is replaced with
// "-", and surrounding whitespace is trimmed. The result is never empty;
// a name that sanitizes to nothing becomes "_".
//
// Distinct names may sanitize to the same segment; callers accept that
// collisions of this kind overwrite each other.
func Sanitize(name string) string {
	s := norm.NFC.String(name)
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(pathUnsafe, r) {
			return '-'
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if s == "" {
		return "_"
	}
	return s
}
