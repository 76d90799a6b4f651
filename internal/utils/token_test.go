package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomToken(t *testing.T) {
	tok, err := RandomToken(32)
	require.NoError(t, err)
	assert.Len(t, tok, 32)
	for _, r := range tok {
		assert.True(t, strings.ContainsRune(tokenAlphabet, r), "unexpected rune %q", r)
	}

	other, err := RandomToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}
