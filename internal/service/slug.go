package service

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Slugify converts a product title into a URL-safe slug: lowercase, runs of
// non-alphanumeric characters collapsed into single hyphens, no leading or
// trailing hyphen.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen

	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

// slugSuffix returns a short random fragment appended to a slug that
// collides with an existing product
func slugSuffix() string {
	return uuid.NewString()[:8]
}
