package query

import "strings"

// regex metacharacters that must be neutralized before a search term is
// used for substring matching
const regexMeta = `.+*^$?[]()|\`

// EscapeTerm escapes regex metacharacters character-by-character so a
// user-supplied term is always matched as a literal substring. Malformed
// patterns and unintended wildcarding are both prevented this way.
func EscapeTerm(term string) string {
	var b strings.Builder
	b.Grow(len(term))
	for _, r := range term {
		if strings.ContainsRune(regexMeta, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
