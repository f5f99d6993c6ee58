package recode

import "strings"

// Normalize canonicalizes a codec name: lower case, with every space and
// hyphen mapped to an underscore. Normalize is idempotent.
func Normalize(name string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return '_'
		}
		return r
	}, strings.ToLower(name))
}
