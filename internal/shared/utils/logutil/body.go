package logutil

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxBodyLen is the default cap applied by Body.
const MaxBodyLen = 4096

// Body renders an HTTP payload for a log field. Unless verbose is set only
// the size is reported, so personal data in provider payloads stays out of
// the logs by default.
func Body(b []byte, verbose bool) string {
	if !verbose {
		return fmt.Sprintf("size=%d bytes", len(b))
	}
	s := strings.TrimSpace(string(b))
	if s == "" {
		return "<empty>"
	}
	if !utf8.ValidString(s) {
		return fmt.Sprintf("<binary size=%d bytes>", len(b))
	}
	return Truncate(s, MaxBodyLen)
}

// Truncate cuts s to at most maxLen bytes without splitting a rune and
// marks the cut with "...".
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return "..."
	}
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
