package models

import "time"

// TokenTypeBearer is the only issued token type
const TokenTypeBearer = "Bearer"

// AccessToken is a durable opaque bearer token
type AccessToken struct {
	ID        int64     `json:"-" db:"id"`
	Token     string    `json:"access_token" db:"token"`
	ClientID  string    `json:"client_id" db:"client_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Expired reports whether token is dead at the moment now
func (t *AccessToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// ExpiresIn whole seconds left until expiration, never negative
func (t *AccessToken) ExpiresIn(now time.Time) int64 {
	left := t.ExpiresAt.Sub(now)
	if left <= 0 {
		return 0
	}
	return int64(left / time.Second)
}

// TokenResponse is returned by the token endpoint
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
