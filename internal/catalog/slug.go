package catalog

import "strings"

// Slugify derives the URL-safe navigation key from a market title: lowercase,
// every maximal run of characters outside [a-z0-9] collapses to a single
// hyphen, and a leading or trailing hyphen is stripped. Deterministic and
// pure; slugs are computed exactly once, at catalog load, so links and the
// resolver can never disagree.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	lastHyphen := false
	for _, r := range strings.ToLower(title) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}
