// Package certid derives the public certificate identifier from the issuing
// institution's short code, the pass-out year and the student's roll number.
// The identifier is typed by third parties into the public verification form,
// so its format is a wire contract and must never change:
//   lowercase(shortCode) + last2digits(passOutYear) + rollNumber
// with no separators, e.g. "cmr2510143".
package certid

import (
	"fmt"
	"strings"
)

// Derive computes the certificate identifier for the given inputs.
// All three inputs are required; a blank short code or roll number, or a
// non-positive year, is rejected before any hashing or signing takes place.
func Derive(shortCode string, passOutYear int, rollNumber string) (string, error) {
	shortCode = strings.TrimSpace(shortCode)
	rollNumber = strings.TrimSpace(rollNumber)

	if shortCode == "" {
		return "", fmt.Errorf("cannot derive a certificate ID without an institution short code")
	}
	if rollNumber == "" {
		return "", fmt.Errorf("cannot derive a certificate ID without a roll number")
	}
	if passOutYear <= 0 {
		return "", fmt.Errorf("cannot derive a certificate ID from a non-positive pass-out year %v", passOutYear)
	}

	return fmt.Sprintf("%s%02d%s", strings.ToLower(shortCode), passOutYear%100, rollNumber), nil
}
