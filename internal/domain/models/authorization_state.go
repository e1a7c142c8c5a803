package models

import "time"

// AuthorizationState is an authorization request awaiting user's consent.
// Stored in ephemeral storage under State and consumed once by consent.
type AuthorizationState struct {
	State       string    `json:"-"`
	ClientID    string    `json:"client_id"`
	RedirectURI string    `json:"redirect_uri"`
	UserID      int64     `json:"user_id"`
	PKCE        PKCE      `json:"pkce"`
	CreatedAt   time.Time `json:"created_at"`
}
