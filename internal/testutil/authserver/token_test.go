package authserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := generateToken(Claims{Username: "alice", Kind: kindAccess, Generation: 3}, secret, time.Hour)
	require.NoError(t, err)

	claims, err := parseToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, kindAccess, claims.Kind)
	assert.Equal(t, int64(3), claims.Generation)
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := generateToken(Claims{Username: "u1", Kind: kindAccess}, secret, -time.Second)
	require.NoError(t, err)

	_, err = parseToken(tok, secret)
	require.ErrorIs(t, err, errTokenExpired)
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := generateToken(Claims{Username: "u1", Kind: kindRefresh}, []byte("one"), time.Hour)
	require.NoError(t, err)

	_, err = parseToken(tok, []byte("two"))
	require.ErrorIs(t, err, errInvalidToken)
}

func TestParseToken_Garbage(t *testing.T) {
	t.Parallel()

	_, err := parseToken("not-a-jwt", []byte("secret"))
	require.ErrorIs(t, err, errInvalidToken)
}
