package service

import "errors"

// Domain errors returned by the services. Handlers map these onto the
// response error taxonomy.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrCohortRequired     = errors.New("year and branch are required for students")
	ErrUserNotFound       = errors.New("user not found")

	ErrQuizNotFound     = errors.New("quiz not found")
	ErrNotQuizOwner     = errors.New("not the owner of this quiz")
	ErrQuestionNotFound = errors.New("question index out of range")
	ErrInvalidQuestion  = errors.New("invalid question")
)
