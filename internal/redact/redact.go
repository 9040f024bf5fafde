// Package redact scrubs sensitive fragments from strings before they reach
// logs or error responses. The service's errors can carry database
// connection strings, bearer tokens, SQL fragments and host names; none of
// those belong in a client-visible message or a shipped log line.
package redact

import "regexp"

// Redaction placeholders
const (
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	SecretPlaceholder     = "[REDACTED_SECRET]"
	TokenPlaceholder      = "[REDACTED_TOKEN]"
	SQLPlaceholder        = "[REDACTED_SQL]"
	HostPlaceholder       = "[REDACTED_HOST]"
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// Rules are applied in order; credentials before hosts so a connection
// string is scrubbed as a whole instead of piecemeal.
var rules = []rule{
	{
		// Connection strings with inline credentials.
		regexp.MustCompile(`(?i)(postgres|postgresql|mysql)://[^@\s]+@[^\s]+`),
		CredentialPlaceholder,
	},
	{
		// key=value style secrets (jwt_secret=..., password=...).
		regexp.MustCompile(`(?i)(secret|password|passwd|api[_-]?key)(['"\s:=]+)[^'"&\s]{3,}`),
		SecretPlaceholder,
	},
	{
		// Three-part base64url JWTs.
		regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`),
		TokenPlaceholder,
	},
	{
		// SQL statement fragments surfaced by driver errors.
		regexp.MustCompile(`(?i)(SELECT|INSERT|UPDATE|DELETE)[\s\w,*()]+(?:FROM|INTO|SET)[\s\w,*()='"$]*`),
		SQLPlaceholder,
	},
	{
		// host:port pairs from connection failures.
		regexp.MustCompile(`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}:\d{1,5}\b`),
		HostPlaceholder,
	},
}

// String redacts sensitive fragments from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive fragments from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
