package postgres

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"oauthd/internal/domain/models"
	"oauthd/internal/storage"
)

// uniqueViolation is postgres error code for unique constraint violation
const uniqueViolation = "23505"

// Storage instance for processing sql queries
type Storage struct {
	dbPool *pgxpool.Pool
}

// New initialize an instance of storage db context
func New(ctx context.Context, storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	dbPool, err := pgxpool.New(ctx, storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: error connecting to database: %w", op, err)
	}

	return &Storage{dbPool: dbPool}, nil
}

// CloseStorage ends database pool connection
func (s *Storage) CloseStorage() {
	s.dbPool.Close()
}

// Ping checks connection
func (s *Storage) Ping(ctx context.Context) error {
	return s.dbPool.Ping(ctx)
}

func isUniqueViolation(err error) bool {
	var pgxError *pgconn.PgError
	return errors.As(err, &pgxError) && pgxError.Code == uniqueViolation
}

// Client gets registered client by its public client_id
func (s *Storage) Client(ctx context.Context, clientID string) (*models.Client, error) {
	const op = "storage.postgres.Client"

	var client models.Client
	err := s.dbPool.QueryRow(
		ctx,
		"SELECT id, client_id, client_name, redirect_uri FROM oauth_clients WHERE client_id = $1",
		clientID,
	).Scan(&client.ID, &client.ClientID, &client.Name, &client.RedirectURI)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrClientNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &client, nil
}

// UserByID searches user in database by his ID
func (s *Storage) UserByID(ctx context.Context, userID int64) (*models.User, error) {
	const op = "storage.postgres.UserByID"

	var user models.User
	err := s.dbPool.QueryRow(
		ctx,
		"SELECT id, first_name, last_name, email FROM users WHERE id = $1",
		userID,
	).Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// HasGrant checks whether user has already consented to client
func (s *Storage) HasGrant(ctx context.Context, userID int64, clientID string) (bool, error) {
	const op = "storage.postgres.HasGrant"

	var exists bool
	err := s.dbPool.QueryRow(
		ctx,
		"SELECT EXISTS(SELECT 1 FROM oauth_grants WHERE user_id = $1 AND client_id = $2)",
		userID,
		clientID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// SaveGrant records user's consent to client once per pair.
// Concurrent inserts converge on the (user_id, client_id) unique index.
func (s *Storage) SaveGrant(ctx context.Context, userID int64, clientID string) error {
	const op = "storage.postgres.SaveGrant"

	_, err := s.dbPool.Exec(
		ctx,
		`INSERT INTO oauth_grants (user_id, client_id, granted_at) VALUES ($1, $2, now())
		ON CONFLICT (user_id, client_id) DO NOTHING`,
		userID,
		clientID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SaveAccessToken persists issued access token
func (s *Storage) SaveAccessToken(ctx context.Context, token *models.AccessToken) error {
	const op = "storage.postgres.SaveAccessToken"

	err := s.dbPool.QueryRow(
		ctx,
		`INSERT INTO access_tokens (token, client_id, user_id, expires_at) VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		token.Token,
		token.ClientID,
		token.UserID,
		token.ExpiresAt,
	).Scan(&token.ID, &token.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrTokenExists
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// AccessToken gets access token by its value
func (s *Storage) AccessToken(ctx context.Context, token string) (*models.AccessToken, error) {
	const op = "storage.postgres.AccessToken"

	var t models.AccessToken
	err := s.dbPool.QueryRow(
		ctx,
		"SELECT id, token, client_id, user_id, expires_at, created_at FROM access_tokens WHERE token = $1",
		token,
	).Scan(&t.ID, &t.Token, &t.ClientID, &t.UserID, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrTokenNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &t, nil
}
