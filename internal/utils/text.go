package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Truncate shortens s to maxLen runes, ending with "..." when it was cut.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// ToTitle renders enum-like values such as "PENDING" or "high" as "Pending" and "High".
// A Caser holds state, so each call builds its own.
func ToTitle(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}

// IsBlank reports whether s has no non-whitespace characters.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
