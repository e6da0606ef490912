package utils

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether the email has a local@domain.tld shape
func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// NormalizeEmail lower-cases and trims an email address; normalized
// emails are the per-event identity key for registrations
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
