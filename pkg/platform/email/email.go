// Package email validates the email addresses staff log in with.
package email

import "strings"

// IsValid performs lightweight validation of an email address format.
// It checks shape, not deliverability.
func IsValid(email string) bool {
	if email == "" {
		return false
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	if parts[0] == "" || parts[1] == "" {
		return false
	}
	if !strings.Contains(parts[1], ".") {
		return false
	}
	return true
}
