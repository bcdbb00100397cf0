package utils

import "strings"

// TruncateForLog shortens the provided string to the specified limit, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// MaskSecret keeps the first and last four characters of a credential and
// hides the rest. Short values are hidden completely.
func MaskSecret(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) == 0 {
		return ""
	}
	if len(runes) <= 10 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:4]) + "…" + string(runes[len(runes)-4:])
}
