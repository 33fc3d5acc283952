package types

import "errors"

// Domain specific errors shared across services and handlers.
var (
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists or conflict")
	ErrBadRequest      = errors.New("bad request")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrRateLimited     = errors.New("rate limit exceeded")
)
