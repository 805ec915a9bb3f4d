package service

import (
	"testing"

	"gitee.com/czyczk/certichain/pkg/certhash"
	"gitee.com/czyczk/certichain/pkg/sm2keyutils"
	"github.com/stretchr/testify/assert"
)

func TestSignAndVerifyDataHash(t *testing.T) {
	publicKeyPEM, privateKeyPEM, err := sm2keyutils.GenerateKeyPair()
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	dataHash := certhash.HashPayload("cmr2510143", "张三", "Computer Science and Engineering", "CSE", 2025)

	signature, err := SignDataHashWithPEM(string(privateKeyPEM), dataHash)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.NotEmpty(t, signature)

	ok, err := VerifyDataHashWithPEM(string(publicKeyPEM), dataHash, signature)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.True(t, ok)
}

func TestVerifyDataHashWithWrongHash(t *testing.T) {
	publicKeyPEM, privateKeyPEM, err := sm2keyutils.GenerateKeyPair()
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	dataHash := certhash.HashPayload("cmr2510143", "张三", "Computer Science and Engineering", "CSE", 2025)
	tamperedHash := certhash.HashPayload("cmr2510143", "李四", "Computer Science and Engineering", "CSE", 2025)

	signature, err := SignDataHashWithPEM(string(privateKeyPEM), dataHash)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	ok, err := VerifyDataHashWithPEM(string(publicKeyPEM), tamperedHash, signature)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.False(t, ok)
}

func TestVerifyDataHashWithAnotherKey(t *testing.T) {
	_, privateKeyPEM, err := sm2keyutils.GenerateKeyPair()
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	otherPublicKeyPEM, _, err := sm2keyutils.GenerateKeyPair()
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	dataHash := certhash.HashPayload("cmr2510143", "张三", "Computer Science and Engineering", "CSE", 2025)

	signature, err := SignDataHashWithPEM(string(privateKeyPEM), dataHash)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	ok, err := VerifyDataHashWithPEM(string(otherPublicKeyPEM), dataHash, signature)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.False(t, ok)
}

func TestSignDataHashWithGarbagePEM(t *testing.T) {
	_, err := SignDataHashWithPEM("not a pem", "deadbeef")
	assert.Error(t, err)
}

func TestVerifyDataHashWithGarbageSignature(t *testing.T) {
	publicKeyPEM, _, err := sm2keyutils.GenerateKeyPair()
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	_, err = VerifyDataHashWithPEM(string(publicKeyPEM), "deadbeef", "%%% not base64 %%%")
	assert.Error(t, err)
}
