package apierror

import "regexp"

// maxMessageLength caps sanitized messages; longer messages are truncated and
// suffixed with "...".
const maxMessageLength = 500

// redactedMarker replaces every matched secret-bearing substring.
const redactedMarker = "[REDACTED]"

// A token is a maximal run of base64url-ish characters, optionally trailed by
// = padding.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Bearer\s+[\w\-.~+/]+=*`),
	regexp.MustCompile(`(?i)token[=:]\s*[\w\-.~+/]+=*`),
	regexp.MustCompile(`(?i)api[_-]?key[=:]\s*[\w\-.~+/]+=*`),
	regexp.MustCompile(`(?i)authorization:\s*basic\s+[\w\-.~+/]+=*`),
}

// SanitizeMessage redacts credential-bearing substrings and caps the result
// at maxMessageLength characters. Redaction runs before truncation, so a
// secret can never be cut mid-token and survive the cap. The cap counts
// characters, not bytes, so multibyte messages are never cut mid-rune.
func SanitizeMessage(message string) string {
	sanitized := message
	for _, pattern := range sensitivePatterns {
		sanitized = pattern.ReplaceAllString(sanitized, redactedMarker)
	}
	if runes := []rune(sanitized); len(runes) > maxMessageLength {
		return string(runes[:maxMessageLength]) + "..."
	}
	return sanitized
}
