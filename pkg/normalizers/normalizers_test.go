package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane@x.com", NormalizeEmail("  Jane@X.com "))
	assert.Equal(t, "", NormalizeEmail(""))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestNormalizeEmailIdempotent(t *testing.T) {
	inputs := []string{"Jane@X.com", "  BOB@example.ORG  ", "", "weird @ spacing"}
	for _, in := range inputs {
		once := NormalizeEmail(in)
		assert.Equal(t, once, NormalizeEmail(once))
	}
}

func TestNormalizePhoneTenDigits(t *testing.T) {
	p := NormalizePhone("5551234567")
	require.True(t, p.HasCanonical())
	assert.Equal(t, "+15551234567", *p.Canonical)
	assert.Equal(t, "5551234567", p.Raw)
}

func TestNormalizePhoneElevenDigitsLeadingOne(t *testing.T) {
	p := NormalizePhone("15551234567")
	require.True(t, p.HasCanonical())
	assert.Equal(t, "+15551234567", *p.Canonical)
}

func TestNormalizePhoneFormatted(t *testing.T) {
	p := NormalizePhone("(555) 123-4567")
	require.True(t, p.HasCanonical())
	assert.Equal(t, "+15551234567", *p.Canonical)
	assert.Equal(t, "(555) 123-4567", p.Raw)
}

func TestNormalizePhoneInvalidDigitCount(t *testing.T) {
	p := NormalizePhone("123")
	assert.False(t, p.HasCanonical())
	assert.Equal(t, "123", p.Raw)

	p = NormalizePhone("25551234567") // 11 digits, no leading 1
	assert.False(t, p.HasCanonical())
}

func TestNormalizePhoneEmpty(t *testing.T) {
	p := NormalizePhone("")
	assert.False(t, p.HasCanonical())
	assert.Equal(t, "", p.Raw)
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "5551234567", DigitsOnly("(555) 123-4567"))
	assert.Equal(t, "", DigitsOnly("no digits here"))
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "jane doe", NormalizeName("  Jane   Doe "))
	assert.Equal(t, "oconnor", NormalizeName("O'Connor"))
}
