package storage

import "errors"

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrClientNotFound = errors.New("client not found")
	ErrTokenNotFound  = errors.New("access token not found")
	ErrTokenExists    = errors.New("access token already exists")
	ErrKeyNotFound    = errors.New("redis key not found")
	ErrIntegrity      = errors.New("storage integrity violation")
)
