package random

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// ArtifactBytes is the entropy of states, codes and access tokens (256 bits)
const ArtifactBytes = 32

// HexToken returns ArtifactBytes of crypto randomness hex-encoded (64 chars)
func HexToken() (string, error) {
	b := make([]byte, ArtifactBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("random.HexToken: %w", err)
	}
	return hex.EncodeToString(b), nil
}
