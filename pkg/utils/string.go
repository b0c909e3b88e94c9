package utils

import "strings"

// Preview flattens s onto a single line and cuts it to at most maxRunes
// runes, appending "..." when anything was dropped. Used for log fields
// that would otherwise carry whole model responses.
func Preview(s string, maxRunes int) string {
	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}
