package util

import (
	"regexp"
	"strings"
)

var (
	panPattern     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	aadhaarPattern = regexp.MustCompile(`^[0-9]{12}$`)
)

// NormalizePAN upper-cases and trims a PAN entry.
func NormalizePAN(pan string) string {
	return strings.ToUpper(strings.TrimSpace(pan))
}

// IsValidPAN reports whether pan matches the 10-character permanent account
// number format (5 letters, 4 digits, 1 letter).
func IsValidPAN(pan string) bool {
	return panPattern.MatchString(NormalizePAN(pan))
}

// NormalizeAadhaar strips all whitespace from an Aadhaar entry.
func NormalizeAadhaar(aadhaar string) string {
	return strings.Join(strings.Fields(aadhaar), "")
}

// IsValidAadhaar reports whether aadhaar is exactly 12 digits after
// whitespace is removed.
func IsValidAadhaar(aadhaar string) bool {
	return aadhaarPattern.MatchString(NormalizeAadhaar(aadhaar))
}
