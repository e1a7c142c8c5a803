package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"oauthd/internal/domain/models"
	"oauthd/internal/lib/oautherr"
	"oauthd/internal/lib/random"
	"oauthd/internal/services/access/interfaces"
	interfaces2 "oauthd/internal/services/validation/interfaces"
	"oauthd/internal/storage"
	"strings"
	"time"
)

const (
	bearerPrefix = "Bearer "
	// issueAttempts bounds regeneration on token collision
	issueAttempts = 3
)

// Access issues opaque bearer tokens and authenticates requests carrying them
type Access struct {
	log          *slog.Logger
	tokenStorage interfaces.TokenStorage
	userProvider interfaces2.UserProvider
	tokenTTL     time.Duration
	now          func() time.Time
}

// New creates an instance of Access service
func New(
	log *slog.Logger,
	tokenStorage interfaces.TokenStorage,
	userProvider interfaces2.UserProvider,
	tokenTTL time.Duration,
) *Access {
	return &Access{
		log:          log,
		tokenStorage: tokenStorage,
		userProvider: userProvider,
		tokenTTL:     tokenTTL,
		now:          time.Now,
	}
}

// Issue mints and persists access token for user on behalf of client
func (a *Access) Issue(ctx context.Context, clientID string, userID int64) (*models.AccessToken, error) {
	const op = "access.Issue"
	logger := a.log.With(slog.String("op", op), slog.String("client_id", clientID))

	for attempt := 1; attempt <= issueAttempts; attempt++ {
		value, err := random.HexToken()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		token := &models.AccessToken{
			Token:     value,
			ClientID:  clientID,
			UserID:    userID,
			ExpiresAt: a.now().Add(a.tokenTTL),
		}
		err = a.tokenStorage.SaveAccessToken(ctx, token)
		if err == nil {
			logger.Debug("access token issued", slog.Time("expires_at", token.ExpiresAt))
			return token, nil
		}
		if !errors.Is(err, storage.ErrTokenExists) {
			logger.Error("failed to save access token", slog.String("error", err.Error()))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		logger.Warn("access token collision, regenerating", slog.Int("attempt", attempt))
	}
	return nil, fmt.Errorf("%s: %w", op, storage.ErrTokenExists)
}

// ExpiresIn whole seconds until token expires, 0 when already expired
func (a *Access) ExpiresIn(token *models.AccessToken) int64 {
	return token.ExpiresIn(a.now())
}

// Authenticate resolves user behind "Authorization: Bearer <token>" header value
func (a *Access) Authenticate(ctx context.Context, authorizationHeader string) (*models.UserClaims, error) {
	const op = "access.Authenticate"
	logger := a.log.With(slog.String("op", op))

	if strings.TrimSpace(authorizationHeader) == "" {
		return nil, oautherr.MissingAuthorizationHeader
	}
	if !strings.HasPrefix(authorizationHeader, bearerPrefix) {
		return nil, oautherr.InvalidAuthorizationHeader
	}
	value := strings.TrimPrefix(authorizationHeader, bearerPrefix)
	if strings.TrimSpace(value) == "" {
		return nil, oautherr.MissingAccessToken
	}

	token, err := a.tokenStorage.AccessToken(ctx, value)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			return nil, oautherr.InvalidAccessToken
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if token.Expired(a.now()) {
		logger.Debug("access token expired", slog.Time("expired_at", token.ExpiresAt))
		return nil, oautherr.AccessTokenExpired
	}

	user, err := a.userProvider.UserByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Error("access token references missing user", slog.Int64("user_id", token.UserID))
			return nil, fmt.Errorf("%s: user %d: %w", op, token.UserID, storage.ErrIntegrity)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	claims := user.Claims()
	return &claims, nil
}
