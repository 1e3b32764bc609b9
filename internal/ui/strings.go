package ui

import "strings"

// truncate shortens a string to the given limit, adding an ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit == 1 {
		return "…"
	}
	return string(runes[:limit-1]) + "…"
}

// truncateMiddle shortens s to limit runes, keeping both ends.
func truncateMiddle(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit || limit < 5 {
		return s
	}
	keep := (limit - 1) / 2
	return string(runes[:keep]) + "…" + string(runes[len(runes)-(limit-1-keep):])
}
