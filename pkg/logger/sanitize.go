package logger

import (
	"strings"
)

// SanitizedEmail masks an email address for logging (e.g., "u***@*******.com")
func SanitizedEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "[invalid-email]"
	}

	local, domain := email[:at], email[at+1:]
	local = local[:1] + strings.Repeat("*", len(local)-1)

	// Keep the TLD only
	labels := strings.Split(domain, ".")
	for i := 0; i < len(labels)-1; i++ {
		labels[i] = strings.Repeat("*", len(labels[i]))
	}

	return local + "@" + strings.Join(labels, ".")
}

var sensitiveParams = []string{
	"password", "token", "secret", "email", "auth",
}

// SanitizeQueryString reports whether the raw query should be redacted
// before it is logged.
func SanitizeQueryString(rawQuery string) bool {
	query := strings.ToLower(rawQuery)
	for _, param := range sensitiveParams {
		if strings.Contains(query, param) {
			return true
		}
	}
	return false
}

// RedactPath hides the reset token carried in the reset-password path.
func RedactPath(path string) string {
	const prefix = "/auth/reset-password/"
	if strings.HasPrefix(path, prefix) && len(path) > len(prefix) {
		return prefix + "[REDACTED]"
	}
	return path
}
