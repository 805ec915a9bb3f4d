// Package certhash computes the two digests that anchor tamper detection:
// the canonical data hash over a certificate's semantic fields and the file
// hash over rendered document bytes. Both are hex-encoded SHA-256 digests so
// that any implementation of the verification contract, in any language,
// reproduces them byte for byte.
package certhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// HashPayload serializes the ordered payload tuple with a '|' delimiter and
// returns the lowercase hex SHA-256 digest of the result. The branch field is
// optional; an absent branch takes part as an empty string, keeping the
// delimiter positions stable.
func HashPayload(certificateID, studentName, courseName, branch string, passOutYear int) string {
	canonical := fmt.Sprintf("%s|%s|%s|%s|%d", certificateID, studentName, courseName, branch, passOutYear)
	digest := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(digest[:])
}

// HashFileBytes returns the lowercase hex SHA-256 digest of the raw bytes of
// a rendered certificate document.
func HashFileBytes(fileBytes []byte) string {
	digest := sha256.Sum256(fileBytes)
	return hex.EncodeToString(digest[:])
}
