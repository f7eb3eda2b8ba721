// Package normalizers provides field normalization functions for identity matching
package normalizers

import (
	"strings"
	"unicode"
)

// NormalizeEmail normalizes an email address (lowercase, trim).
// Empty input yields an empty key, treated by callers as "no email".
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Phone holds a phone number in both its raw form and, when the digit count
// allows it, a canonical international form used for equality comparison.
type Phone struct {
	Raw       string
	Canonical *string
}

// HasCanonical reports whether a canonical form could be derived.
func (p Phone) HasCanonical() bool {
	return p.Canonical != nil
}

// NormalizePhone strips all non-digit characters and derives a canonical form:
//   - exactly 10 digits: canonical is "+1" + digits (domestic numbering assumed)
//   - exactly 11 digits with leading 1: canonical is "+" + digits
//   - any other digit count: canonical is absent, the raw string is preserved
//
// No further validation is performed. This is a deliberate simplification of
// the source format, not a gap to close.
func NormalizePhone(s string) Phone {
	digits := DigitsOnly(s)

	switch {
	case len(digits) == 10:
		canonical := "+1" + digits
		return Phone{Raw: s, Canonical: &canonical}
	case len(digits) == 11 && strings.HasPrefix(digits, "1"):
		canonical := "+" + digits
		return Phone{Raw: s, Canonical: &canonical}
	default:
		return Phone{Raw: s}
	}
}

// DigitsOnly keeps only digit characters
func DigitsOnly(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// NormalizeName normalizes a person's name for comparison
// - Lowercase
// - Collapse whitespace
// - Remove punctuation
func NormalizeName(s string) string {
	s = strings.ToLower(s)

	var result strings.Builder
	prevSpace := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
			prevSpace = false
		} else if unicode.IsSpace(r) {
			if !prevSpace {
				result.WriteRune(' ')
				prevSpace = true
			}
		}
	}

	return strings.TrimSpace(result.String())
}
