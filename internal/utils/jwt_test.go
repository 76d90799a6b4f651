package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	tok, err := NewSessionToken("secret", 42, "yusuf", "manager", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	claims, err := ParseSessionToken("secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.AccountID)
	assert.Equal(t, "yusuf", claims.Username)
	assert.Equal(t, "manager", claims.Role)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	tok, err := NewSessionToken("secret", 1, "u", "manager", time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken("other", tok.Token)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrTokenExpired)
}

func TestSessionTokenExpired(t *testing.T) {
	tok, err := NewSessionToken("secret", 1, "u", "manager", -time.Minute)
	require.NoError(t, err)

	_, err = ParseSessionToken("secret", tok.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestSessionTokenGarbage(t *testing.T) {
	_, err := ParseSessionToken("secret", "not.a.token")
	assert.Error(t, err)
}
