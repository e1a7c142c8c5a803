package interfaces

import (
	"context"
	"oauthd/internal/domain/models"
)

// ClientProvider looks up registered clients, returns storage.ErrClientNotFound when absent
type ClientProvider interface {
	Client(ctx context.Context, clientID string) (*models.Client, error)
}

// UserProvider looks up users, returns storage.ErrUserNotFound when absent
type UserProvider interface {
	UserByID(ctx context.Context, userID int64) (*models.User, error)
}
