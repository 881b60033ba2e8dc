package utils

import (
	"strings"
	"unicode"
)

const slugSuffixLen = 6
const slugSuffixCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// Slugify lowercases the title and collapses every non-alphanumeric run
// into a single dash.
func Slugify(title string) string {
	var b strings.Builder
	lastDash := true // avoid a leading dash
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// MakeSlug appends a short random suffix so two posts with the same title
// get distinct slugs.
func MakeSlug(title string) string {
	base := Slugify(title)
	suffix := GenerateRandomString(slugSuffixLen, slugSuffixCharset)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
