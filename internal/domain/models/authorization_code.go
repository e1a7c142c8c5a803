package models

import "time"

// AuthorizationCode is issued after consent and exchanged once for an access token
type AuthorizationCode struct {
	Code        string    `json:"-"`
	ClientID    string    `json:"client_id"`
	UserID      int64     `json:"user_id"`
	RedirectURI string    `json:"redirect_uri"`
	PKCE        PKCE      `json:"pkce"`
	CreatedAt   time.Time `json:"created_at"`
}
