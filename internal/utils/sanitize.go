package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict policy: every tag is stripped, text is kept
var textPolicy = bluemonday.StrictPolicy()

// SanitizeText strips markup from free text submitted by users. The policy escapes the text it
// keeps; values are stored and served as JSON, so entities are decoded back to plain text.
func SanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// SanitizeOptional is SanitizeText for patch fields; nil stays nil.
func SanitizeOptional(s *string) *string {
	if s == nil {
		return nil
	}

	clean := SanitizeText(*s)

	return &clean
}
