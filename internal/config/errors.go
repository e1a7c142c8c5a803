package config

import "errors"

var ErrEmptyPath = errors.New("config path is empty")

type NotExistError struct {
	Path string
}

func (e *NotExistError) Error() string {
	return "config path does not exist: " + e.Path
}
