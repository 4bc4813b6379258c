package domain

import "errors"

var (
	// ErrInvalidDifficulty is returned for a tier name outside easy/medium/hard/very_hard.
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	// ErrIndexOutOfRange indicates a question or answer index outside the tier bounds.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrDuplicateUser is returned when registering an existing user id.
	ErrDuplicateUser = errors.New("user already exists")
	// ErrNotFound is returned when the ledger has no account for a user id.
	ErrNotFound = errors.New("user not found")
	// ErrStoreUnavailable wraps transient ledger I/O failures. A failed write
	// wrapped with it has unknown outcome.
	ErrStoreUnavailable = errors.New("store unavailable")
)
