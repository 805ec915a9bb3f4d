package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIssueAndParseToken(t *testing.T) {
	issuer := &TokenIssuer{
		Key: []byte("a test signing key"),
		TTL: time.Hour,
	}

	tokenStr, err := issuer.IssueToken("1001", RoleInstitution)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	claims, err := issuer.ParseToken(tokenStr)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	assert.Equal(t, "1001", claims.Subject)
	assert.Equal(t, RoleInstitution, claims.Role)
}

func TestParseTokenWithWrongKey(t *testing.T) {
	issuer := &TokenIssuer{
		Key: []byte("a test signing key"),
		TTL: time.Hour,
	}

	tokenStr, err := issuer.IssueToken("admin", RoleAdmin)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	otherIssuer := &TokenIssuer{
		Key: []byte("another signing key"),
		TTL: time.Hour,
	}

	_, err = otherIssuer.ParseToken(tokenStr)
	assert.Error(t, err)
}

func TestParseExpiredToken(t *testing.T) {
	issuer := &TokenIssuer{
		Key: []byte("a test signing key"),
		TTL: -time.Minute,
	}

	tokenStr, err := issuer.IssueToken("1001", RoleInstitution)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	_, err = issuer.ParseToken(tokenStr)
	assert.Error(t, err)
}

func TestParseGarbageToken(t *testing.T) {
	issuer := &TokenIssuer{
		Key: []byte("a test signing key"),
		TTL: time.Hour,
	}

	_, err := issuer.ParseToken("not.a.token")
	assert.Error(t, err)
}
