package interfaces

import (
	"context"
	"oauthd/internal/domain/models"
	"oauthd/internal/services/validation"
	"time"
)

// RequestValidator validates authorize and token requests
type RequestValidator interface {
	ValidateAuthorizeRequest(ctx context.Context, req validation.AuthorizeRequest) (*validation.ValidAuthorizeRequest, error)
	ValidateTokenRequest(ctx context.Context, req validation.TokenRequest) (*models.Client, error)
}

// StateStorage keeps pending authorization requests.
// ConsumeState must read and delete in one atomic step.
type StateStorage interface {
	SaveState(ctx context.Context, st *models.AuthorizationState, ttl time.Duration) error
	ConsumeState(ctx context.Context, state string) (*models.AuthorizationState, error)
	State(ctx context.Context, state string) (*models.AuthorizationState, error)
}

// AuthCodeStorage keeps issued authorization codes.
// ConsumeAuthCode must read and delete in one atomic step.
type AuthCodeStorage interface {
	SaveAuthCode(ctx context.Context, code *models.AuthorizationCode, ttl time.Duration) error
	ConsumeAuthCode(ctx context.Context, code string) (*models.AuthorizationCode, error)
	RemoveAuthCode(ctx context.Context, code string) error
}

// GrantStorage records user's consent per client, SaveGrant is idempotent
type GrantStorage interface {
	HasGrant(ctx context.Context, userID int64, clientID string) (bool, error)
	SaveGrant(ctx context.Context, userID int64, clientID string) error
}

// TokenIssuer mints access tokens
type TokenIssuer interface {
	Issue(ctx context.Context, clientID string, userID int64) (*models.AccessToken, error)
	ExpiresIn(token *models.AccessToken) int64
}
