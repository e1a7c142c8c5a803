package validation

import (
	"context"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"oauthd/internal/domain/models"
	"oauthd/internal/lib/oautherr"
	"oauthd/internal/storage"
	"oauthd/internal/storage/memory"
	"strconv"
	"testing"
)

type fixture struct {
	v      *Validator
	client models.Client
	user   models.User
}

func newFixture(t *testing.T, requireRedirectURI bool) fixture {
	t.Helper()

	store := memory.New()
	client := store.AddClient(models.Client{
		ClientID:    gofakeit.UUID(),
		Name:        gofakeit.AppName(),
		RedirectURI: "https://app.example/callback",
	})
	user := store.AddUser(models.User{
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Email:     gofakeit.Email(),
	})
	return fixture{v: New(store, store, requireRedirectURI), client: client, user: user}
}

func (f fixture) validAuthorize() AuthorizeRequest {
	return AuthorizeRequest{
		ClientID:            f.client.ClientID,
		ResponseType:        "code",
		RedirectURI:         f.client.RedirectURI,
		UserID:              strconv.FormatInt(f.user.ID, 10),
		CodeChallenge:       "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM",
		CodeChallengeMethod: "S256",
	}
}

func TestValidateAuthorizeRequest_HappyPath(t *testing.T) {
	f := newFixture(t, false)

	got, err := f.v.ValidateAuthorizeRequest(context.Background(), f.validAuthorize())
	require.NoError(t, err)
	assert.Equal(t, f.client.ClientID, got.Client.ClientID)
	assert.Equal(t, f.user.ID, got.User.ID)
	assert.Equal(t, f.client.RedirectURI, got.RedirectURI)
	assert.Equal(t, models.PKCE{CodeChallenge: "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM", Method: "S256"}, got.PKCE)
}

func TestValidateAuthorizeRequest_Failures(t *testing.T) {
	f := newFixture(t, false)

	tests := []struct {
		name    string
		mutate  func(r *AuthorizeRequest)
		wantErr error
	}{
		{name: "missing client", mutate: func(r *AuthorizeRequest) { r.ClientID = "" }, wantErr: oautherr.MissingClientID},
		{name: "unknown client", mutate: func(r *AuthorizeRequest) { r.ClientID = "nope" }, wantErr: oautherr.InvalidClientID},
		{name: "token response type", mutate: func(r *AuthorizeRequest) { r.ResponseType = "token" }, wantErr: oautherr.UnsupportedResponseType},
		{name: "missing redirect", mutate: func(r *AuthorizeRequest) { r.RedirectURI = "" }, wantErr: oautherr.MissingRedirectURI},
		{name: "redirect trailing slash", mutate: func(r *AuthorizeRequest) { r.RedirectURI += "/" }, wantErr: oautherr.InvalidRedirectURI},
		{name: "missing user", mutate: func(r *AuthorizeRequest) { r.UserID = " " }, wantErr: oautherr.MissingUserID},
		{name: "unknown user", mutate: func(r *AuthorizeRequest) { r.UserID = "987654321" }, wantErr: storage.ErrUserNotFound},
		{name: "malformed user", mutate: func(r *AuthorizeRequest) { r.UserID = "abc" }, wantErr: storage.ErrUserNotFound},
		{name: "missing challenge", mutate: func(r *AuthorizeRequest) { r.CodeChallenge = "" }, wantErr: oautherr.MissingCodeChallenge},
		{name: "missing method", mutate: func(r *AuthorizeRequest) { r.CodeChallengeMethod = "" }, wantErr: oautherr.MissingCodeChallengeMethod},
		{name: "plain method", mutate: func(r *AuthorizeRequest) { r.CodeChallengeMethod = "plain" }, wantErr: oautherr.InvalidCodeChallengeMethod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.validAuthorize()
			tt.mutate(&req)

			_, err := f.v.ValidateAuthorizeRequest(context.Background(), req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateAuthorizeRequest_FirstFailureWins(t *testing.T) {
	f := newFixture(t, false)

	req := f.validAuthorize()
	req.ResponseType = "token"
	req.CodeChallengeMethod = "plain"
	req.UserID = ""

	_, err := f.v.ValidateAuthorizeRequest(context.Background(), req)
	e, ok := oautherr.As(err)
	require.True(t, ok)
	assert.Equal(t, "unsupported_response_type", e.Code)
}

func TestValidateTokenRequest(t *testing.T) {
	f := newFixture(t, false)
	valid := TokenRequest{
		GrantType:    "authorization_code",
		Code:         gofakeit.LetterN(64),
		ClientID:     f.client.ClientID,
		CodeVerifier: gofakeit.LetterN(43),
	}

	client, err := f.v.ValidateTokenRequest(context.Background(), valid)
	require.NoError(t, err)
	assert.Equal(t, f.client.ClientID, client.ClientID)

	tests := []struct {
		name    string
		mutate  func(r *TokenRequest)
		wantErr error
	}{
		{name: "grant type", mutate: func(r *TokenRequest) { r.GrantType = "client_credentials" }, wantErr: oautherr.UnsupportedGrantType},
		{name: "missing code", mutate: func(r *TokenRequest) { r.Code = "" }, wantErr: oautherr.MissingCode},
		{name: "missing client", mutate: func(r *TokenRequest) { r.ClientID = "" }, wantErr: oautherr.MissingClientID},
		{name: "missing verifier", mutate: func(r *TokenRequest) { r.CodeVerifier = "" }, wantErr: oautherr.MissingCodeVerifier},
		{name: "unknown client", mutate: func(r *TokenRequest) { r.ClientID = "nope" }, wantErr: oautherr.InvalidClientID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			_, err := f.v.ValidateTokenRequest(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateTokenRequest_RequiredRedirectURI(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.v.ValidateTokenRequest(context.Background(), TokenRequest{
		GrantType:    "authorization_code",
		Code:         gofakeit.LetterN(64),
		ClientID:     f.client.ClientID,
		CodeVerifier: gofakeit.LetterN(43),
	})
	assert.ErrorIs(t, err, oautherr.RedirectURIRequired)
}
