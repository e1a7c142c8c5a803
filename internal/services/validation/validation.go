package validation

import (
	"context"
	"errors"
	"fmt"
	"oauthd/internal/domain/models"
	"oauthd/internal/lib/oautherr"
	"oauthd/internal/services/validation/interfaces"
	"oauthd/internal/storage"
	"strconv"
	"strings"
)

const (
	ResponseTypeCode           = "code"
	GrantTypeAuthorizationCode = "authorization_code"
)

// AuthorizeRequest raw authorization endpoint's args
type AuthorizeRequest struct {
	ClientID            string
	ResponseType        string
	RedirectURI         string
	UserID              string
	CodeChallenge       string
	CodeChallengeMethod string
}

// ValidAuthorizeRequest is an authorization request which passed all checks
type ValidAuthorizeRequest struct {
	Client      *models.Client
	User        *models.User
	RedirectURI string
	PKCE        models.PKCE
}

// TokenRequest raw token endpoint's args
type TokenRequest struct {
	GrantType    string
	Code         string
	ClientID     string
	RedirectURI  string
	CodeVerifier string
}

// Validator validates request's input data against registered clients and users
type Validator struct {
	clients            interfaces.ClientProvider
	users              interfaces.UserProvider
	requireRedirectURI bool
}

// New creates new instance of Validator.
// requireRedirectURI makes redirect_uri mandatory at token endpoint.
func New(clients interfaces.ClientProvider, users interfaces.UserProvider, requireRedirectURI bool) *Validator {
	return &Validator{
		clients:            clients,
		users:              users,
		requireRedirectURI: requireRedirectURI,
	}
}

// ValidateAuthorizeRequest checks authorization request, the first failed check wins
func (v *Validator) ValidateAuthorizeRequest(ctx context.Context, req AuthorizeRequest) (*ValidAuthorizeRequest, error) {
	const op = "validation.ValidateAuthorizeRequest"

	client, err := v.client(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	if req.ResponseType != ResponseTypeCode {
		return nil, oautherr.UnsupportedResponseType
	}
	if isBlank(req.RedirectURI) {
		return nil, oautherr.MissingRedirectURI
	}
	if req.RedirectURI != client.RedirectURI {
		return nil, oautherr.InvalidRedirectURI
	}
	if isBlank(req.UserID) {
		return nil, oautherr.MissingUserID
	}
	user, err := v.user(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if isBlank(req.CodeChallenge) {
		return nil, oautherr.MissingCodeChallenge
	}
	if isBlank(req.CodeChallengeMethod) {
		return nil, oautherr.MissingCodeChallengeMethod
	}
	if req.CodeChallengeMethod != models.PKCEMethodS256 {
		return nil, oautherr.InvalidCodeChallengeMethod
	}

	return &ValidAuthorizeRequest{
		Client:      client,
		User:        user,
		RedirectURI: req.RedirectURI,
		PKCE: models.PKCE{
			CodeChallenge: req.CodeChallenge,
			Method:        req.CodeChallengeMethod,
		},
	}, nil
}

// ValidateTokenRequest checks grant type, required fields and the client
func (v *Validator) ValidateTokenRequest(ctx context.Context, req TokenRequest) (*models.Client, error) {
	if req.GrantType != GrantTypeAuthorizationCode {
		return nil, oautherr.UnsupportedGrantType
	}
	if isBlank(req.Code) {
		return nil, oautherr.MissingCode
	}
	if isBlank(req.ClientID) {
		return nil, oautherr.MissingClientID
	}
	if isBlank(req.CodeVerifier) {
		return nil, oautherr.MissingCodeVerifier
	}
	if v.requireRedirectURI && isBlank(req.RedirectURI) {
		return nil, oautherr.RedirectURIRequired
	}
	return v.client(ctx, req.ClientID)
}

func (v *Validator) client(ctx context.Context, clientID string) (*models.Client, error) {
	const op = "validation.client"

	if isBlank(clientID) {
		return nil, oautherr.MissingClientID
	}
	client, err := v.clients.Client(ctx, clientID)
	if err != nil {
		if errors.Is(err, storage.ErrClientNotFound) {
			return nil, oautherr.InvalidClientID
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return client, nil
}

// user resolves user by raw id, malformed ids cannot reference anybody
func (v *Validator) user(ctx context.Context, rawID string) (*models.User, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil {
		return nil, storage.ErrUserNotFound
	}
	return v.users.UserByID(ctx, id)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
