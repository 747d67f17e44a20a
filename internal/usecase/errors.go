package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrProviderAuth          = errors.New("provider authentication failed")
	ErrProviderRateLimited   = errors.New("provider rate limited")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
