package catalog

import (
	"strings"
	"unicode"
)

var slugReplacements = map[rune]rune{
	'á': 'a', 'é': 'e', 'í': 'i', 'ó': 'o', 'ú': 'u',
	'ü': 'u', 'ñ': 'n',
}

// Slugify derives a URL-safe slug from free text. Used when the caller did
// not supply one.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if repl, ok := slugReplacements[r]; ok {
			r = repl
		}
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
