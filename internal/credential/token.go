package credential

import (
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zeebo/blake3"
)

// Fingerprint identifies a token in logs and status output without revealing it
func Fingerprint(token string) string {
	if token == "" {
		return ""
	}
	sum := blake3.Sum256([]byte(token))
	return hex.EncodeToString(sum[:6])
}

// ExpiresAt reads the exp claim of a JWT without verifying its signature.
// ok is false for opaque tokens and for JWTs without exp.
func ExpiresAt(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expired reports whether token is a JWT whose exp is not after now
func Expired(token string, now time.Time) bool {
	exp, ok := ExpiresAt(token)
	return ok && !exp.After(now)
}
