// backend/src/security/validation/sanitizers.go
package validation

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// Definition of strict sanitization policy
	strictHTMLPolicy *bluemonday.Policy
)

// entity-encoded markup is decoded and stripped one level per round
const maxSanitizeRounds = 5

func init() {
	// Initialize strict policy once at startup
	strictHTMLPolicy = bluemonday.StrictPolicy() // Removes all HTML tags
}

// SanitizeText removes all HTML tags and attributes from an input string
// before it is saved. Entities are decoded again so "Pão & Cia" stays intact;
// escaping is left to the output side. Decoding can reveal markup
// ("&lt;script&gt;"), so the text is sanitized again until it is stable.
func SanitizeText(s string) string {
	s = strings.TrimSpace(StripUnprintable(s))
	for range maxSanitizeRounds {
		clean := strings.TrimSpace(html.UnescapeString(strictHTMLPolicy.Sanitize(s)))
		if clean == s {
			return clean
		}
		s = clean
	}
	// still decoding into markup: keep it escaped
	return strings.TrimSpace(strictHTMLPolicy.Sanitize(s))
}

// SanitizeForFormulaInjection prepends a single quote if the string starts with a formula character.
// This prevents CSV Injection (Formula Injection) in Excel/Sheets.
func SanitizeForFormulaInjection(s string) string {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) == 0 {
		return s
	}

	switch trimmed[0] {
	case '=', '+', '-', '@', '\t', '\r':
		// Prepend a single quote (') which forces the cell to be treated as text
		return "'" + s
	}
	return s
}

// StripUnprintable removes non-printable characters, allowing common whitespace
// like space, tab, newline, and carriage return.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1 // Drop the rune
	}, s)
}
