package utils

import (
	"strings"
	"unicode/utf8"
)

// MaskEmail keeps the first character of the local part and the domain,
// e.g. "jane@example.se" becomes "j***@example.se".
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(strings.TrimSpace(email), "@")
	if !ok || domain == "" {
		return "***"
	}
	r, _ := utf8.DecodeRuneInString(local)
	if r == utf8.RuneError {
		return "***@" + domain
	}
	return string(r) + "***@" + domain
}
