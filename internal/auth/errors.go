package auth

import "errors"

var (
	ErrUnauthorized       = errors.New("auth: unauthorized")
	ErrInvalidToken       = errors.New("auth: invalid token")
	ErrMissingCredentials = errors.New("auth: missing credentials")
)
