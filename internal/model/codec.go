package model

import "strings"

// Delimiter separates descriptions in the persisted form. It is not escaped:
// a description containing it comes back as several tasks.
const Delimiter = ","

// Flatten joins descriptions into the persisted form. Every description is
// followed by the delimiter, so a non-empty form always ends with one.
func Flatten(descriptions []string) string {
	var b strings.Builder
	for _, d := range descriptions {
		b.WriteString(d)
		b.WriteString(Delimiter)
	}
	return b.String()
}

// Parse splits a persisted form back into descriptions. Trailing empty
// fragments are dropped; interior ones are kept. It never fails.
func Parse(form string) []string {
	parts := strings.Split(form, Delimiter)
	end := len(parts)
	for end > 0 && parts[end-1] == "" {
		end--
	}
	if end == 0 {
		return []string{}
	}
	return parts[:end]
}
