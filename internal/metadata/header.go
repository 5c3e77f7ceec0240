package metadata

import (
	"strings"
	"unicode"
)

// HeaderName converts a snake_case attribute name to its header form:
// underscores become hyphens and every word is title-cased, so
// "requires_python" becomes "Requires-Python" and "project_url" becomes
// "Project-Url". A word starts after any non-letter.
func HeaderName(attr string) string {
	var b strings.Builder
	b.Grow(len(attr))

	startOfWord := true
	for _, r := range strings.ReplaceAll(attr, "_", "-") {
		if unicode.IsLetter(r) {
			if startOfWord {
				b.WriteRune(unicode.ToUpper(r))
			} else {
				b.WriteRune(unicode.ToLower(r))
			}
			startOfWord = false
			continue
		}
		b.WriteRune(r)
		startOfWord = true
	}
	return b.String()
}
