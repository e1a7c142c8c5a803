package pkce

import (
	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"oauthd/internal/domain/models"
	"testing"
)

func TestChallenge_RFC7636AppendixB(t *testing.T) {
	const verifier = "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	assert.Equal(t, "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM", Challenge(verifier))
}

func TestVerify_RoundTrip(t *testing.T) {
	for i := 0; i < 50; i++ {
		verifier := gofakeit.LetterN(uint(gofakeit.Number(1, 128)))
		challenge := Challenge(verifier)

		assert.True(t, Verify(challenge, models.PKCEMethodS256, verifier))
		assert.False(t, Verify(challenge, models.PKCEMethodS256, verifier+"x"))
	}
}

func TestVerify_Rejects(t *testing.T) {
	verifier := gofakeit.UUID()
	challenge := Challenge(verifier)

	tests := []struct {
		name      string
		challenge string
		method    string
		verifier  string
	}{
		{name: "plain method", challenge: verifier, method: "plain", verifier: verifier},
		{name: "empty method", challenge: challenge, method: "", verifier: verifier},
		{name: "lowercase method", challenge: challenge, method: "s256", verifier: verifier},
		{name: "blank challenge", challenge: "", method: models.PKCEMethodS256, verifier: verifier},
		{name: "blank verifier", challenge: challenge, method: models.PKCEMethodS256, verifier: ""},
		{name: "padded challenge", challenge: challenge + "=", method: models.PKCEMethodS256, verifier: verifier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Verify(tt.challenge, tt.method, tt.verifier))
		})
	}
}
