package utils

import (
	"strings"
	"unicode"
)

// SanitizeLogMessage strips control characters from user supplied values
// before they reach the log, keeping tabs and newlines.
func SanitizeLogMessage(msg string) string {
	var sb strings.Builder
	for _, r := range msg {
		if r == 10 || r == 9 {
			sb.WriteRune(r)
		} else if unicode.IsPrint(r) || unicode.IsGraphic(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// SanitizeLogFilename truncates and sanitizes a filename for logging.
func SanitizeLogFilename(name string) string {
	if len(name) > 80 {
		name = name[:80] + "..."
	}
	return SanitizeLogMessage(name)
}
