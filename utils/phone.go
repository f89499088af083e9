package utils

import (
	"strings"
	"unicode"
)

// CountryCode is the Sri Lankan dialing prefix used for the canonical phone form.
const CountryCode = "94"

// stripPhoneNoise drops any Unicode whitespace, dashes and parentheses.
func stripPhoneNoise(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' || r == '(' || r == ')' {
			return -1
		}
		return r
	}, phone)
}

// NormalizePhoneNumber converts +94714007983, 0714007983 and 94714007983 to 94714007983.
// The transformation is textual only, nothing is validated.
func NormalizePhoneNumber(phone string) string {
	if phone == "" {
		return phone
	}

	normalized := stripPhoneNoise(phone)
	normalized = strings.TrimPrefix(normalized, "+")

	// local trunk prefix
	if strings.HasPrefix(normalized, "0") {
		return CountryCode + normalized[1:]
	}

	if !strings.HasPrefix(normalized, CountryCode) {
		normalized = CountryCode + normalized
	}

	return normalized
}

// PhoneCandidates returns the values a stored number may have been saved as:
// the canonical form first, then the raw input when it differs.
func PhoneCandidates(raw string) []string {
	normalized := NormalizePhoneNumber(raw)
	if raw == "" || raw == normalized {
		return []string{normalized}
	}
	return []string{normalized, raw}
}
