package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateToken(42, "alice", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserId)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.IsStaff)
	assert.Equal(t, "shopmobile", claims.Issuer)
}

func TestParseTokenRejectsWrongKey(t *testing.T) {
	SetSecret("key-one")
	token, err := GenerateToken(1, "bob", false)
	require.NoError(t, err)

	SetSecret("key-two")
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	SetSecret("test-secret")
	_, err := ParseToken("not.a.token")
	assert.Error(t, err)
}
