package api

import "errors"

var (
	// ErrUnauthorized means the bearer credential was rejected (401).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnavailable covers transport failures and unexpected server responses.
	ErrUnavailable = errors.New("server unavailable")
)
