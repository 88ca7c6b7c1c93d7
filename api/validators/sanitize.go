package validators

import (
	"strings"
	"unicode"
)

// SanitizeString trims the input, folds runs of whitespace into one space and
// cuts it to maxLen runes. Names are often Vietnamese, so the cut never splits
// a multi-byte character.
func SanitizeString(input string, maxLen int) string {
	folded := strings.Join(strings.Fields(input), " ")
	if maxLen <= 0 {
		return folded
	}
	runes := []rune(folded)
	if len(runes) > maxLen {
		return strings.TrimSpace(string(runes[:maxLen]))
	}
	return folded
}

// NormalizePhone drops the separators people type into phone numbers
// ("0909 123-456", "(090) 912.3456") and keeps the digits.
func NormalizePhone(input string) string {
	var b strings.Builder
	for _, r := range input {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isPhoneSeparator(r rune) bool {
	switch r {
	case ' ', '-', '.', '(', ')':
		return true
	}
	return false
}
