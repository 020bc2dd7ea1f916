package crm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidMobile(t *testing.T) {
	t.Parallel()

	valid := []string{
		"+1 (555) 123-4567",
		"0412345678",
		"+44 20 7946 0958",
		"(02) 9999 8888",
	}
	for _, s := range valid {
		assert.True(t, ValidMobile(s), "expected valid: %q", s)
	}

	invalid := []string{
		"",
		"123",                    // too short
		"12345678901234567890123", // too long
		"555-ABCD-99",            // letters
		"+1;5551234567",          // bad punctuation
	}
	for _, s := range invalid {
		assert.False(t, ValidMobile(s), "expected invalid: %q", s)
	}
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidEmail("jane@example.com"))
	assert.True(t, ValidEmail("j.doe+crm@sub.example.co"))

	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail("a@b"))        // no dot in domain
	assert.False(t, ValidEmail("a b@c.com"))  // whitespace
	assert.False(t, ValidEmail("@example.com"))
}

func TestValidBudget(t *testing.T) {
	t.Parallel()

	t.Run("accepts plain numbers", func(t *testing.T) {
		assert.True(t, ValidBudget("2500"))
		assert.True(t, ValidBudget("99.95"))
		assert.True(t, ValidBudget(" 120000 "))
	})

	t.Run("rejects non-numeric and non-finite input", func(t *testing.T) {
		for _, s := range []string{"abc", "1,000", "Inf", "NaN", "-Inf", ""} {
			assert.False(t, ValidBudget(s), "expected invalid: %q", s)
		}
	})
}
