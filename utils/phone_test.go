package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhoneNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Local trunk prefix", input: "0714007983", expected: "94714007983"},
		{name: "International with plus", input: "+94714007983", expected: "94714007983"},
		{name: "Already canonical", input: "94714007983", expected: "94714007983"},
		{name: "Spaces and dashes", input: "+94 71-400 7983", expected: "94714007983"},
		{name: "Parentheses", input: "(071) 400-7983", expected: "94714007983"},
		{name: "Missing country code", input: "714007983", expected: "94714007983"},
		{name: "Vertical tab", input: "077\v1234567", expected: "94771234567"},
		{name: "Form feed", input: "077\f1234567", expected: "94771234567"},
		{name: "No-break space", input: "077\u00a01234567", expected: "94771234567"},
		{name: "Thin space", input: "077\u20091234567", expected: "94771234567"},
		{name: "Ideographic space", input: "+94\u300077 123 4567", expected: "94771234567"},
		{name: "Empty", input: "", expected: ""},
		{name: "Garbage is transformed not rejected", input: "abc", expected: "94abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePhoneNumber(tt.input))
		})
	}
}

func TestNormalizePhoneNumberIsIdempotent(t *testing.T) {
	inputs := []string{"0714007983", "+94714007983", "94714007983", "0771234567", "+1 (555) 010-999", "abc", "0"}
	for _, in := range inputs {
		once := NormalizePhoneNumber(in)
		assert.Equal(t, once, NormalizePhoneNumber(once), "input %q", in)
	}
}

func TestPhoneCandidates(t *testing.T) {
	assert.Equal(t, []string{"94771234567", "0771234567"}, PhoneCandidates("0771234567"))
	assert.Equal(t, []string{"94771234567"}, PhoneCandidates("94771234567"))
}
