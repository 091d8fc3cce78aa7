package validator

import (
	"regexp"
)

var hexColorRegex = regexp.MustCompile(`^#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// ValidHexColor accepts #RGB and #RRGGBB.
func ValidHexColor(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return hexColorRegex.MatchString(value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be a hex color like #1E88E5",
			TranslationKey: "validation.hex_color",
			TranslationValues: map[string]any{
				"field": field,
				"value": value,
			},
		},
	}
}
