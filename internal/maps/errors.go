package maps

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned when an operation needs a remote call but no
// Google Maps credential is configured. Cache-served paths do not need the key.
var ErrMissingAPIKey = errors.New("google maps api key not configured")

// ErrNoRoute is returned by the pairwise distance lookup when the remote
// reports no route between the points.
var ErrNoRoute = errors.New("no route found")

// RemoteError is a non-success status from a required remote call.
type RemoteError struct {
	API    string
	Status string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s API error: %s", e.API, e.Status)
}
