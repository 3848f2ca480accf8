package auth

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	ok, err := VerifyPassword(hash, "correct horse")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(hash, "wrong horse")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_UniqueSalt(t *testing.T) {
	a, err := HashPassword("secret")
	require.NoError(t, err)
	b, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashPassword_Rejects(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)

	_, err = HashPassword(strings.Repeat("x", maxPasswordLength+1))
	assert.Error(t, err)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	_, err := VerifyPassword("not-a-hash", "secret")
	assert.Error(t, err)

	_, err = VerifyPassword("$bcrypt$v=19$m=1,t=1,p=1$AAAA$AAAA", "secret")
	assert.Error(t, err)
}

func TestLoadOrGenerateKey(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	key, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, key, keyLength)

	again, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, key, again)

	info, err := os.Stat(filepath.Join(dir, KeyFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadOrGenerateKey_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, KeyFileName), []byte("zz"), 0o600))

	_, err := LoadOrGenerateKey(dir)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, KeyFileName), []byte("abcd"), 0o600))
	_, err = LoadOrGenerateKey(dir)
	assert.Error(t, err)
}

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	key, err := LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)
	svc, err := NewTokenService(key)
	require.NoError(t, err)
	return svc
}

func TestNewTokenService_KeyLength(t *testing.T) {
	_, err := NewTokenService(make([]byte, 16))
	assert.Error(t, err)
}

func TestTokenService_IssueVerify(t *testing.T) {
	svc := newTestTokenService(t)

	expires := time.Now().Add(time.Hour)
	token, err := svc.Issue("ses-abc", expires)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "v4.local."))

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ses-abc", claims.SessionID)
	assert.Equal(t, tokenIssuer, claims.Issuer)
	assert.Equal(t, tokenAudience, claims.Audience)
	assert.WithinDuration(t, expires, claims.Expiration, time.Second)
}

func TestTokenService_Expired(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.Issue("ses-old", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.Error(t, err)
}

func TestTokenService_WrongKey(t *testing.T) {
	token, err := newTestTokenService(t).Issue("ses-abc", time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = newTestTokenService(t).Verify(token)
	assert.Error(t, err)
}

func TestTokenService_Garbage(t *testing.T) {
	svc := newTestTokenService(t)

	_, err := svc.Verify("")
	assert.Error(t, err)
	_, err = svc.Verify("v4.local.garbage")
	assert.Error(t, err)

	_, err = svc.Issue("", time.Now().Add(time.Hour))
	assert.Error(t, err)
}
