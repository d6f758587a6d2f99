package strings

import (
	"unicode"
	"unicode/utf8"
)

// UpperFirst upper-cases the first rune of s and leaves the rest unchanged.
// "id" -> "Id", "ID" -> "ID", "ssn" -> "Ssn".
func UpperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
