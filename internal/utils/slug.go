package utils

import "strings"

// Slugify derives a URL-safe identifier from a product title. Lowercase
// alphanumeric runs are preserved; everything else collapses to a single
// hyphen. The derivation is deterministic so the same title always yields
// the same slug within a catalog snapshot.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
