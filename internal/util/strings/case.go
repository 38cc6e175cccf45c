package strings

import (
	"strings"
	"unicode"
)

// ToCamelCase joins the ASCII letters and digits of s into a lowerCamel
// JavaScript identifier. Separators are dropped and capitalize the following
// letter; a leading digit is prefixed with an underscore (audit-log -> auditLog).
func ToCamelCase(s string) string {
	var result strings.Builder
	upper := false

	for _, r := range s {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || r == '$' || (unicode.IsDigit(r) && result.Len() > 0)):
			if upper {
				r = unicode.ToUpper(r)
				upper = false
			}
			result.WriteRune(r)
		case unicode.IsDigit(r):
			result.WriteRune('_')
			result.WriteRune(r)
		default:
			upper = result.Len() > 0
		}
	}
	return result.String()
}

// UpperFirst upper-cases the first letter of s
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ToIdentifier replaces every rune outside [A-Za-z0-9_] with an underscore
func ToIdentifier(s string) string {
	var result strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			result.WriteRune(r)
		} else {
			result.WriteRune('_')
		}
	}
	return result.String()
}
