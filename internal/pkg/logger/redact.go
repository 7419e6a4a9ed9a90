package logger

import (
	"fmt"
	"strings"
)

// RedactEmail masks an email address for safe logging.
// "john.doe@example.com" → "jo***@example.com"
// Short local parts (≤2 chars) are fully masked: "ab@example.com" → "***@example.com"
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "***@***"
	}
	name := parts[0]
	if len(name) > 2 {
		return name[:2] + "***@" + parts[1]
	}
	return "***@" + parts[1]
}

// RedactContent replaces free text written by a user with its length, so
// logs show that something was said without saying it.
func RedactContent(s string) string {
	if s == "" {
		return ""
	}
	return fmt.Sprintf("[redacted %d chars]", len([]rune(s)))
}
