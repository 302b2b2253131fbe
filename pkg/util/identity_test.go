package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePAN(t *testing.T) {
	assert.Equal(t, "ABCDE1234F", NormalizePAN("  abcde1234f "))
	assert.Equal(t, "ABCDE1234F", NormalizePAN("ABCDE1234F"))
	assert.Equal(t, "", NormalizePAN("   "))
}

func TestIsValidPAN(t *testing.T) {
	valid := []string{"ABCDE1234F", "abcde1234f", " ZZZZZ9999Z "}
	for _, pan := range valid {
		assert.True(t, IsValidPAN(pan), "expected %q to be valid", pan)
	}

	invalid := []string{
		"",
		"ABCDE1234",    // too short
		"ABCDE12345",   // digit in the checksum slot
		"ABCD11234F",   // only four leading letters
		"ABCDE1234FX",  // too long
		"1BCDE1234F",   // digit where a letter belongs
		"ABCDE 1234 F", // inner whitespace survives normalization
	}
	for _, pan := range invalid {
		assert.False(t, IsValidPAN(pan), "expected %q to be invalid", pan)
	}
}

func TestNormalizeAadhaar(t *testing.T) {
	assert.Equal(t, "123456789012", NormalizeAadhaar("1234 5678 9012"))
	assert.Equal(t, "123456789012", NormalizeAadhaar("  123456789012  "))
}

func TestIsValidAadhaar(t *testing.T) {
	assert.True(t, IsValidAadhaar("123456789012"))
	assert.True(t, IsValidAadhaar("1234 5678 9012"))

	assert.False(t, IsValidAadhaar(""))
	assert.False(t, IsValidAadhaar("12345678901"))   // 11 digits
	assert.False(t, IsValidAadhaar("1234567890123")) // 13 digits
	assert.False(t, IsValidAadhaar("12345678901a"))
}
