// Package textutil holds small string helpers for terminal and log output.
package textutil

import (
	"strings"
	"unicode/utf8"
)

// Truncate flattens newlines and shortens s to at most max runes, marking
// the cut with "...". The cut always falls on a rune boundary.
func Truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	if max <= 3 {
		return strings.Repeat(".", max)
	}

	n := 0
	for i := range s {
		if n == max-3 {
			return s[:i] + "..."
		}
		n++
	}
	return s
}
