package certid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	id, err := Derive("CMR", 2025, "10143")
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	assert.Equal(t, "cmr2510143", id)
}

func TestDeriveLowercasesShortCode(t *testing.T) {
	id, err := Derive("XYZ", 2025, "10099")
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	assert.Equal(t, "xyz2510099", id)
}

func TestDeriveUsesLastTwoYearDigits(t *testing.T) {
	id, err := Derive("abc", 2103, "7")
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	assert.Equal(t, "abc037", id)
}

func TestDeriveRejectsMissingInputs(t *testing.T) {
	_, err := Derive("", 2025, "10143")
	assert.Error(t, err)

	_, err = Derive("cmr", 2025, "   ")
	assert.Error(t, err)

	_, err = Derive("cmr", 0, "10143")
	assert.Error(t, err)
}
