package repository

import "errors"

// Store-level errors shared by all repositories. Services translate these
// into domain errors; pgx internals never leak past this package.
var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrStaleQuiz is returned when an optimistic quiz update lost the race:
	// the row changed since it was read.
	ErrStaleQuiz = errors.New("quiz was modified concurrently")
	// ErrDuplicateEmail is returned when an insert violates the unique email
	// constraint on users.
	ErrDuplicateEmail = errors.New("user with this email already exists")
)
