package validator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/assokit/assokit/pkg/validator"
)

func TestRequiredString(t *testing.T) {
	assert.True(t, validator.RequiredString("name", "Président").Check())
	assert.False(t, validator.RequiredString("name", "").Check())
	assert.False(t, validator.RequiredString("name", " \t ").Check())
}

func TestMaxLenString(t *testing.T) {
	t.Run("counts runes", func(t *testing.T) {
		assert.True(t, validator.MaxLenString("name", "ééééé", 5).Check())
		assert.False(t, validator.MaxLenString("name", "éééééé", 5).Check())
	})

	t.Run("error metadata", func(t *testing.T) {
		rule := validator.MaxLenString("name", strings.Repeat("x", 10), 3)
		assert.Equal(t, "must be at most 3 characters long", rule.Error.Message)
		assert.Equal(t, map[string]any{"field": "name", "max": 3}, rule.Error.TranslationValues)
	})
}

func TestUniqueFold(t *testing.T) {
	taken := []string{"Trésorier", "Secrétaire"}

	tests := []struct {
		value string
		want  bool
	}{
		{"TRÉSORIER", false},
		{"  trésorier ", false},
		{"secrétaire", false},
		{"Président", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, validator.UniqueFold("name", tt.value, taken).Check())
		})
	}

	assert.True(t, validator.EqualFold("Trésorier", " TRÉSORIER"))
	assert.False(t, validator.EqualFold("Trésorier", "Tresorier"))
}

func TestValidHexColor(t *testing.T) {
	for _, c := range []string{"#fff", "#FFF", "#1E88E5", "#a1b2c3"} {
		assert.True(t, validator.ValidHexColor("color", c).Check(), c)
	}
	for _, c := range []string{"", "fff", "#ffff", "#ggg", "#1E88E5 ", "red"} {
		assert.False(t, validator.ValidHexColor("color", c).Check(), c)
	}
}

func TestEachIn(t *testing.T) {
	allowed := func(s string) bool { return s == "a" || s == "b" }

	rule := validator.EachIn("permissions", []string{"a", "x", "b", "y"}, allowed)
	assert.False(t, rule.Check())
	assert.Equal(t, "unknown values: x, y", rule.Error.Message)
	assert.Equal(t, []string{"x", "y"}, rule.Error.TranslationValues["unknown"])

	assert.True(t, validator.EachIn("permissions", []string{"a"}, allowed).Check())
	assert.True(t, validator.EachIn[string]("permissions", nil, allowed).Check())
}

func TestInListString(t *testing.T) {
	rule := validator.InListString("status", "active", []string{"active", "pending"})
	assert.True(t, rule.Check())
	assert.False(t, validator.InListString("status", "gone", []string{"active"}).Check())
}
