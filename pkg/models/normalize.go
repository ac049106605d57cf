package models

import "strings"

// NormalizeName strips a trailing parenthetical decoration:
// "Base Set (1999)" -> "Base Set".
func NormalizeName(s string) string {
	if i := strings.Index(s, " ("); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// NormalizeRarity keeps only the first line of a rarity cell;
// the source appends unrelated annotations on following lines.
func NormalizeRarity(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// NormalizeYear strips parentheses: "(1999)" -> "1999".
func NormalizeYear(s string) string {
	s = strings.ReplaceAll(s, "(", "")
	s = strings.ReplaceAll(s, ")", "")
	return strings.TrimSpace(s)
}
