package service

import "errors"

var (
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password; callers must not be able to tell them apart.
	ErrInvalidCredentials = errors.New("wrong email or password")

	// ErrTaskNotFound covers both a missing task and a task owned by
	// another user.
	ErrTaskNotFound = errors.New("task not found or not authorized")

	ErrNoUpdateData = errors.New("no data provided for update")
)
