package validation

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Validate is a shared validator instance
var Validate *validator.Validate

func init() {
	Validate = validator.New()
}

// SanitizeText trims whitespace and strips control characters (except
// newline and tab) from text input.
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// NormalizeDescription trims an optional description and collapses
// empty-after-trim values to nil. This is the only place where the
// empty-string-means-absent convention is applied.
func NormalizeDescription(description *string) *string {
	if description == nil {
		return nil
	}
	trimmed := SanitizeText(*description)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
