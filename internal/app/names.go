package app

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeName collapses whitespace and capitalizes every word of a student name.
func NormalizeName(raw string) string {
	words := strings.Fields(raw)
	if len(words) == 0 {
		return ""
	}
	// A Caser keeps state, so each call gets its own.
	return cases.Title(language.Russian).String(strings.Join(words, " "))
}
