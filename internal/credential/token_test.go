package credential

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestExpiresAt(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{"sub": "u1", "exp": exp.Unix()})

	got, ok := ExpiresAt(token)
	require.True(t, ok)
	assert.True(t, got.Equal(exp))

	_, ok = ExpiresAt("opaque-session-token")
	assert.False(t, ok)

	_, ok = ExpiresAt(signedToken(t, jwt.MapClaims{"sub": "u1"}))
	assert.False(t, ok, "JWT without exp has no known expiry")
}

func TestExpired(t *testing.T) {
	now := time.Now()
	past := signedToken(t, jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()})
	future := signedToken(t, jwt.MapClaims{"exp": now.Add(time.Minute).Unix()})

	assert.True(t, Expired(past, now))
	assert.False(t, Expired(future, now))
	assert.False(t, Expired("opaque", now), "opaque tokens are never considered expired locally")
}

func TestFingerprint(t *testing.T) {
	assert.Empty(t, Fingerprint(""))

	a := Fingerprint("token-a")
	assert.Len(t, a, 12)
	assert.Equal(t, a, Fingerprint("token-a"))
	assert.NotEqual(t, a, Fingerprint("token-b"))
	assert.NotContains(t, a, "token")
}
