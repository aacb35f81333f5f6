package validation

import (
	"strings"
	"unicode"
)

// IsCountryCode reports whether s is exactly two letters.
func IsCountryCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// NormalizeCountry trims and uppercases a country code. Codes are normalized
// before being written anywhere or put on the wire.
func NormalizeCountry(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
