package certhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPayloadIsDeterministic(t *testing.T) {
	first := HashPayload("cmr2510143", "Alice", "B.Tech", "CSE", 2025)
	second := HashPayload("cmr2510143", "Alice", "B.Tech", "CSE", 2025)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestHashPayloadMatchesCanonicalSerialization(t *testing.T) {
	// Known digest of "cmr2510143|Alice|B.Tech|CSE|2025" pinned so that the
	// wire contract with other implementations cannot drift silently.
	got := HashPayload("cmr2510143", "Alice", "B.Tech", "CSE", 2025)
	assert.Equal(t, "c20612fb7d733e5a7cb618193791268bc7543077e2369d1caf84fb0f5ab31806", got)
}

func TestHashPayloadNormalizesMissingBranch(t *testing.T) {
	// An absent branch participates as an empty string, so the delimiter
	// positions stay fixed and the digest differs from any non-empty branch.
	withEmpty := HashPayload("cmr2510143", "Alice", "B.Tech", "", 2025)
	withBranch := HashPayload("cmr2510143", "Alice", "B.Tech", "CSE", 2025)

	assert.NotEqual(t, withEmpty, withBranch)
	assert.Equal(t, withEmpty, HashPayload("cmr2510143", "Alice", "B.Tech", "", 2025))
}

func TestHashPayloadChangesOnAnyFieldMutation(t *testing.T) {
	base := HashPayload("cmr2510143", "Alice", "B.Tech", "CSE", 2025)

	assert.NotEqual(t, base, HashPayload("cmr2510144", "Alice", "B.Tech", "CSE", 2025))
	assert.NotEqual(t, base, HashPayload("cmr2510143", "Alicia", "B.Tech", "CSE", 2025))
	assert.NotEqual(t, base, HashPayload("cmr2510143", "Alice", "M.Tech", "CSE", 2025))
	assert.NotEqual(t, base, HashPayload("cmr2510143", "Alice", "B.Tech", "ECE", 2025))
	assert.NotEqual(t, base, HashPayload("cmr2510143", "Alice", "B.Tech", "CSE", 2026))
}

func TestHashFileBytes(t *testing.T) {
	first := HashFileBytes([]byte("rendered document bytes"))
	second := HashFileBytes([]byte("rendered document bytes"))
	tampered := HashFileBytes([]byte("rendered document bytes."))

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, tampered)
	assert.Len(t, first, 64)
}
