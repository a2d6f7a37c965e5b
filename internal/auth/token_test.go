package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalogkit/catalog/internal/db/models"
)

func testUser() *models.User {
	return &models.User{ID: 42, Name: "alice", Email: "alice@example.com"}
}

func TestCodecMintValidate(t *testing.T) {
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	codec := NewCodec("test-secret").WithClock(func() time.Time { return base })

	expiresAt, token, err := codec.Mint(testUser())
	require.NoError(t, err)
	assert.Equal(t, base.Unix()+3600, expiresAt)

	claims, err := codec.Validate(token, expiresAt)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Name)
	assert.Equal(t, expiresAt, claims.ExpiresAt)
	assert.Equal(t, base.Unix(), claims.IssuedAt)
}

func TestCodecValidateTamperedToken(t *testing.T) {
	codec := NewCodec("test-secret")

	expiresAt, token, err := codec.Mint(testUser())
	require.NoError(t, err)

	// Flip one character inside the payload; the signature no longer matches.
	tampered := []byte(token)
	pos := strings.IndexByte(token, '.') + 1
	if tampered[pos] == 'A' {
		tampered[pos] = 'B'
	} else {
		tampered[pos] = 'A'
	}

	_, err = codec.Validate(string(tampered), expiresAt)
	assert.ErrorIs(t, err, ErrMalformedCredential)
}

func TestCodecValidateWrongSecret(t *testing.T) {
	expiresAt, token, err := NewCodec("secret-a").Mint(testUser())
	require.NoError(t, err)

	_, err = NewCodec("secret-b").Validate(token, expiresAt)
	assert.ErrorIs(t, err, ErrMalformedCredential)
}

func TestCodecValidatePlaintextExpiryFastPath(t *testing.T) {
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	codec := NewCodec("test-secret").WithClock(func() time.Time { return base })

	expiresAt, token, err := codec.Mint(testUser())
	require.NoError(t, err)

	// Advance past the expiry: rejected without a signature check.
	late := base.Add(TokenLifetime + time.Second)
	codec.WithClock(func() time.Time { return late })
	_, err = codec.Validate(token, expiresAt)
	assert.ErrorIs(t, err, ErrExpiredCredential)

	// Garbage token with a stale plaintext expiry reports expired, not
	// malformed: the fast path fires first.
	_, err = codec.Validate("not-a-token", expiresAt)
	assert.ErrorIs(t, err, ErrExpiredCredential)
}

func TestCodecValidateExpiryMismatch(t *testing.T) {
	codec := NewCodec("test-secret")

	expiresAt, token, err := codec.Mint(testUser())
	require.NoError(t, err)

	// A plaintext expiry extended past the signed one is tampering.
	_, err = codec.Validate(token, expiresAt+600)
	assert.ErrorIs(t, err, ErrMalformedCredential)
}

func TestCodecValidateExpiryBoundary(t *testing.T) {
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	codec := NewCodec("test-secret").WithClock(func() time.Time { return base })

	expiresAt, token, err := codec.Mint(testUser())
	require.NoError(t, err)

	// Exactly at the expiry instant the credential is still valid; only
	// now > exp rejects.
	codec.WithClock(func() time.Time { return time.Unix(expiresAt, 0) })
	_, err = codec.Validate(token, expiresAt)
	assert.NoError(t, err)

	codec.WithClock(func() time.Time { return time.Unix(expiresAt+1, 0) })
	_, err = codec.Validate(token, expiresAt)
	assert.ErrorIs(t, err, ErrExpiredCredential)
}
