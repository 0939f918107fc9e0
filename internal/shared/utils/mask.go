package utils

import "strings"

// MaskEmail redacts the local part of an email address.
// Example: "user@example.com" -> "u***@example.com"
func MaskEmail(email string) string {
	parts := strings.SplitN(email, "@", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "***"
	}
	local := []rune(parts[0])
	if len(local) <= 1 {
		return string(local) + "***@" + parts[1]
	}
	return string(local[0]) + "***@" + parts[1]
}

// MaskToken keeps the first four characters of a public token for log lines.
func MaskToken(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return token[:4] + "****"
}
