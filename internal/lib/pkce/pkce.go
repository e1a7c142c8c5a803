// Package pkce implements RFC 7636 code challenge verification
package pkce

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"oauthd/internal/domain/models"
)

// Challenge computes S256 challenge for verifier: base64url without padding of SHA256(verifier)
func Challenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

// Verify reports whether verifier matches challenge under method.
// Only S256 is supported, blank challenge or verifier never match.
func Verify(challenge, method, verifier string) bool {
	if challenge == "" || verifier == "" {
		return false
	}
	if method != models.PKCEMethodS256 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(Challenge(verifier)), []byte(challenge)) == 1
}
