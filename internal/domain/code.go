package domain

import (
	"regexp"
	"strings"
)

var codeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// NormalizeCode trims and upper-cases a currency code.
func NormalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidCode reports whether s is a well-formed three-letter code.
func ValidCode(s string) bool {
	return codeRe.MatchString(s)
}
