package utils

import (
	"regexp"
	"strings"
	"unicode"
)

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// SanitizeText trims free text (product names, addresses, device names),
// strips HTML tags and drops control characters.
func SanitizeText(input string) string {
	trimmed := strings.TrimSpace(input)
	stripped := htmlTag.ReplaceAllString(trimmed, "")
	return removeControlChars(stripped)
}

// SanitizeID normalizes an identifier such as "dev-001 " to "DEV-001".
func SanitizeID(id string) string {
	var result strings.Builder
	for _, r := range strings.TrimSpace(id) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			result.WriteRune(unicode.ToUpper(r))
		}
	}
	return result.String()
}

func removeControlChars(input string) string {
	var result strings.Builder
	for _, r := range input {
		if unicode.IsPrint(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}
