// Package shared provides error kinds and small helpers used across the
// glbindgen packages.
package shared

import (
	"fmt"
	"strings"
	"unicode"
)

// HTTPStatusErrorWithBody creates a formatted error that includes the
// response body for non-2xx HTTP responses.
func HTTPStatusErrorWithBody(status int, url string, body string) error {
	return fmt.Errorf("status=%d url=%s response=%s", status, url, body)
}

// CommandError wraps a command execution error with its trimmed output
// for cleaner error messages.
func CommandError(output []byte, err error) error {
	return fmt.Errorf("%s: %w", strings.TrimSpace(string(output)), err)
}

// MacroName upper-cases value and replaces every character that cannot
// appear in a preprocessor identifier with an underscore.
func MacroName(value string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(value) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || r == '_'):
			b.WriteRune(unicode.ToUpper(r))
		case r < unicode.MaxASCII && unicode.IsDigit(r):
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
