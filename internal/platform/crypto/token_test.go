package crypto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	mgr := NewJWTManager("secret", time.Minute, "test-issuer")

	token, err := mgr.Generate(42, "alice")
	require.NoError(t, err)

	claims, err := mgr.Verify(token)
	require.NoError(t, err)
	require.EqualValues(t, 42, claims.UserID)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, "test-issuer", claims.Issuer)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret-a", time.Minute, "test").Generate(1, "alice")
	require.NoError(t, err)

	_, err = NewJWTManager("secret-b", time.Minute, "test").Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	mgr := NewJWTManager("secret", -time.Minute, "test")

	token, err := mgr.Generate(1, "alice")
	require.NoError(t, err)

	_, err = mgr.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	mgr := NewJWTManager("secret", time.Minute, "test")
	_, err := mgr.Verify("not-a-token")
	require.Error(t, err)
}

func TestBcryptManager(t *testing.T) {
	mgr := NewBcryptManager(0)

	hash, err := mgr.Hash("hunter2")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2", hash)

	require.NoError(t, mgr.Compare(hash, "hunter2"))
	require.Error(t, mgr.Compare(hash, "wrong"))
}
