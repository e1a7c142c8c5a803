package models

import "time"

// Grant records that user has consented to client, unique on (user_id, client_id)
type Grant struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	ClientID  string    `json:"client_id" db:"client_id"`
	GrantedAt time.Time `json:"granted_at" db:"granted_at"`
}
