package magiclink_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"proofdeck-backend/internal/magiclink"
)

func TestGenerateToken(t *testing.T) {
	token, hash, err := magiclink.GenerateToken()
	require.NoError(t, err)

	assert.Len(t, token, magiclink.TokenLength)
	assert.True(t, magiclink.ValidFormat(token))
	assert.Equal(t, magiclink.HashToken(token), hash)
	assert.NotEqual(t, token, hash)
}

func TestGenerateToken_Unique(t *testing.T) {
	a, _, err := magiclink.GenerateToken()
	require.NoError(t, err)
	b, _, err := magiclink.GenerateToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestHashToken_Deterministic(t *testing.T) {
	assert.Equal(t, magiclink.HashToken("abc"), magiclink.HashToken("abc"))
	assert.NotEqual(t, magiclink.HashToken("abc"), magiclink.HashToken("abd"))
}

func TestValidFormat(t *testing.T) {
	valid, _, err := magiclink.GenerateToken()
	require.NoError(t, err)

	assert.True(t, magiclink.ValidFormat(valid))
	assert.False(t, magiclink.ValidFormat(""))
	assert.False(t, magiclink.ValidFormat("short"))
	assert.False(t, magiclink.ValidFormat(valid[:63]))
	assert.False(t, magiclink.ValidFormat(valid+"a"))
	// Uppercase hex is rejected; tokens are minted lowercase.
	assert.False(t, magiclink.ValidFormat("ABCDEF0123456789ABCDEF0123456789ABCDEF0123456789ABCDEF0123456789"))
	assert.False(t, magiclink.ValidFormat("zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"))
}
