package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	signer := NewTokenSigner("secret").WithClock(func() time.Time { return now })

	tok, err := signer.GenerateToken("user-1", "a@example.com", 15*time.Minute)
	require.NoError(t, err)

	claims, err := signer.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "a@example.com", claims.Email)
}

func TestTokenExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	signer := NewTokenSigner("secret").WithClock(func() time.Time { return now })
	tok, err := signer.GenerateToken("user-1", "", time.Minute)
	require.NoError(t, err)

	signer.WithClock(func() time.Time { return now.Add(2 * time.Minute) })
	_, err = signer.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenWrongSecret(t *testing.T) {
	tok, err := NewTokenSigner("one").GenerateToken("user-1", "", time.Minute)
	require.NoError(t, err)

	_, err = NewTokenSigner("two").ValidateToken(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestHashTokenStable(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}
