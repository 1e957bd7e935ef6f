package service

import "errors"

// Errors surfaced by the service layer in addition to the store sentinels.
// The API layer translates these into HTTP responses without inspecting
// anything deeper.
var (
	// ErrInvalidArgument marks malformed or missing request data: empty
	// names, a favorite with neither or both targets, a move that would
	// create a cycle.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStorageFailure marks a blob-store operation that failed and
	// aborted the current operation. Swallowed blob failures (recursive
	// delete, archive export) never surface as this error.
	ErrStorageFailure = errors.New("object storage failure")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password, deliberately indistinguishable. Infrastructure failures
	// during login are not this error.
	ErrInvalidCredentials = errors.New("invalid username or password")
)
