package models

// Client is a registered OAuth client, looked up by its public client_id
type Client struct {
	ID          int64  `json:"-" db:"id"`
	ClientID    string `json:"client_id" db:"client_id"`
	Name        string `json:"client_name" db:"client_name"`
	RedirectURI string `json:"redirect_uri" db:"redirect_uri"`
}
