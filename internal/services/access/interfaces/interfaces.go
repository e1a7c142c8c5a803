package interfaces

import (
	"context"
	"oauthd/internal/domain/models"
)

// TokenStorage persists access tokens.
// SaveAccessToken returns storage.ErrTokenExists on token collision,
// AccessToken returns storage.ErrTokenNotFound for unknown token.
type TokenStorage interface {
	SaveAccessToken(ctx context.Context, token *models.AccessToken) error
	AccessToken(ctx context.Context, token string) (*models.AccessToken, error)
}
