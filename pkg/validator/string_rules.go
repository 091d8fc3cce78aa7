package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// RequiredString fails when value is empty after trimming whitespace.
func RequiredString(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{
			Field:          field,
			Message:        "field is required",
			TranslationKey: "validation.required",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// MaxLenString counts runes, so accented names are measured as users see them.
func MaxLenString(field, value string, max int) Rule {
	return Rule{
		Check: func() bool {
			return utf8.RuneCountInString(value) <= max
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be at most %d characters long", max),
			TranslationKey: "validation.max_length",
			TranslationValues: map[string]any{
				"field": field,
				"max":   max,
			},
		},
	}
}

// UniqueFold fails when value equals one of taken under Unicode case folding
// ("Trésorier" collides with "TRÉSORIER"). Surrounding whitespace is ignored.
func UniqueFold(field, value string, taken []string) Rule {
	folder := cases.Fold()
	key := folder.String(strings.TrimSpace(value))
	return Rule{
		Check: func() bool {
			if key == "" {
				return true
			}
			for _, t := range taken {
				if folder.String(strings.TrimSpace(t)) == key {
					return false
				}
			}
			return true
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("%q is already taken", strings.TrimSpace(value)),
			TranslationKey: "validation.unique",
			TranslationValues: map[string]any{
				"field": field,
				"value": strings.TrimSpace(value),
			},
		},
	}
}

// EqualFold reports whether a and b match under Unicode case folding.
func EqualFold(a, b string) bool {
	folder := cases.Fold()
	return folder.String(strings.TrimSpace(a)) == folder.String(strings.TrimSpace(b))
}
