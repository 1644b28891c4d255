package verify

import (
	"strings"
	"unicode"
)

// IsCleanEmail reports whether an extracted token looks like a real contact
// address. The broad extraction regex also catches version and package
// strings (1.2.3@4.5.6); requiring an alphabetic character in the domain
// weeds those out. Anything at a gmail domain passes unconditionally, and a
// token without @ is rejected outright.
func IsCleanEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}

	domain := email[at+1:]
	if strings.Contains(domain, "gmail") {
		return true
	}

	for _, r := range domain {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// CleanEmails filters a list down to the clean subset, preserving order
func CleanEmails(emails []string) []string {
	cleaned := make([]string, 0, len(emails))
	for _, email := range emails {
		if IsCleanEmail(email) {
			cleaned = append(cleaned, email)
		}
	}
	return cleaned
}

// EmailDomain returns the part after the last @, or "" when there is none
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	return email[at+1:]
}
