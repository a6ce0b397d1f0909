package models

import "strings"

// NormalizeKey lowercases and trims a value used as an identity or
// lookup key. Emails, item keys, options and choices all pass through
// it before any comparison or write.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
