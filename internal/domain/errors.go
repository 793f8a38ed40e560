package domain

import "errors"

// Failure taxonomy. Each is caught at the component boundary that produced
// it and converted into a degraded-but-valid result; only ErrCannotDial and
// a failed administrative seed reach the user as visible errors.
var (
	// ErrPermissionDenied means the user or platform refused location access.
	ErrPermissionDenied = errors.New("location permission denied")

	// ErrLocationUnavailable means the location provider errored or timed out.
	ErrLocationUnavailable = errors.New("location unavailable")

	// ErrRemoteUnreachable means the remote number store could not be reached
	// or returned a malformed response.
	ErrRemoteUnreachable = errors.New("remote number store unreachable")

	// ErrRecordNotFound means the remote number store has no record for the
	// requested country.
	ErrRecordNotFound = errors.New("country record not found")

	// ErrCannotDial means the platform could not place the call.
	ErrCannotDial = errors.New("cannot dial")
)
