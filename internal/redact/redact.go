// Package redact provides utilities for redacting sensitive information from strings
// before they are logged. Probe errors routinely carry connection strings, passwords
// and bearer tokens; everything that reaches a log handler passes through here first.
package redact

import "regexp"

// Constants for redaction placeholders
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Rules are applied in order; later rules must not re-match earlier placeholders.
var rules = []rule{
	// Userinfo in URL-style connection strings
	{
		pattern:     regexp.MustCompile(`(?i)\b(postgres|postgresql|mysql|mongodb|redis|amqp)://[^@\s/]+@`),
		replacement: RedactedCredentialPlaceholder,
	},
	// JWTs
	{
		pattern:     regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),
		replacement: RedactedJWTPlaceholder,
	},
	// Any other bearer credential
	{
		pattern:     regexp.MustCompile(`(?i)\b(bearer\s+)[^\s\[]\S*`),
		replacement: "${1}" + RedactionPlaceholder,
	},
	// key=value and key: value password forms
	{
		pattern:     regexp.MustCompile(`(?i)\b(password|passwd|pwd)(\s*[=:]\s*)[^\s&"',]+`),
		replacement: "${1}${2}" + RedactionPlaceholder,
	},
	// JSON password fields
	{
		pattern:     regexp.MustCompile(`(?i)("(?:password|token|refreshToken|jwt_secret)"\s*:\s*)"[^"]*"`),
		replacement: `${1}"` + RedactionPlaceholder + `"`,
	},
	// API keys and secrets
	{
		pattern:     regexp.MustCompile(`(?i)\b(api[_-]?key|secret)(\s*[=:]\s*)[A-Za-z0-9_\-.~+/]{8,}`),
		replacement: "${1}${2}" + RedactedKeyPlaceholder,
	},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
