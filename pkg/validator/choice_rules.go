package validator

import (
	"fmt"
	"strings"
)

// EachIn fails when any element of values is rejected by allowed.
// The message lists every rejected element.
func EachIn[T ~string](field string, values []T, allowed func(T) bool) Rule {
	var rejected []string
	for _, v := range values {
		if !allowed(v) {
			rejected = append(rejected, string(v))
		}
	}
	return Rule{
		Check: func() bool {
			return len(rejected) == 0
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("unknown values: %s", strings.Join(rejected, ", ")),
			TranslationKey: "validation.unknown_values",
			TranslationValues: map[string]any{
				"field":   field,
				"unknown": rejected,
			},
		},
	}
}

// InListString fails when value is not one of allowedValues.
func InListString(field, value string, allowedValues []string) Rule {
	return Rule{
		Check: func() bool {
			for _, allowed := range allowedValues {
				if value == allowed {
					return true
				}
			}
			return false
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be one of: %s", strings.Join(allowedValues, ", ")),
			TranslationKey: "validation.in_list",
			TranslationValues: map[string]any{
				"field":          field,
				"allowed_values": allowedValues,
			},
		},
	}
}
