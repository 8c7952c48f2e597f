// Package textutil holds the rune-aware string helpers shared by the
// command line, the dashboard and the providers.
package textutil

import "strings"

// Truncate shortens s to at most n runes, ending in "..." when there is
// room for it.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// OneLine collapses every run of whitespace, newlines included, to a single space.
func OneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
