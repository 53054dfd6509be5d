package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidSnowflake(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{name: "17 digit snowflake", input: "12345678901234567", valid: true},
		{name: "19 digit snowflake", input: "1234567890123456789", valid: true},
		{name: "too short", input: "1234567890123456", valid: false},
		{name: "too long", input: "12345678901234567890", valid: false},
		{name: "non numeric", input: "12345678901234567a", valid: false},
		{name: "empty", input: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidSnowflake(tt.input))
		})
	}
}

func TestAssertInvariant(t *testing.T) {
	assert.NotPanics(t, func() {
		AssertInvariant(true, "should not panic")
	})
	assert.Panics(t, func() {
		AssertInvariant(false, "should panic")
	})
}
