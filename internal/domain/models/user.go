package models

import "strconv"

// User's model
type User struct {
	ID        int64  `db:"id"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Email     string `db:"email"`
}

// DisplayName is shown on the consent screen
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// UserClaims minimal set of claims exposed to resource servers
type UserClaims struct {
	Sub       string `json:"sub"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Claims projects user on UserClaims
func (u *User) Claims() UserClaims {
	return UserClaims{
		Sub:       strconv.FormatInt(u.ID, 10),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}
