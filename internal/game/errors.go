package game

import "errors"

var (
	// ErrValidation marks malformed input: bad coordinates, unknown ability.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidSession marks an operation that needs a session when none
	// exists, or whose persisted blob could not be decoded.
	ErrInvalidSession = errors.New("no ongoing game found")

	// ErrInvariant marks an impossible board state. It signals a logic or
	// data corruption bug and is never recovered from.
	ErrInvariant = errors.New("game invariant violated")
)
