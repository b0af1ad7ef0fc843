package services

import "errors"

// Shared service errors. Handlers map these onto distinct HTTP results so
// that forbidden, invalid input, and not found are never conflated into a
// silent no-op.
var (
	ErrForbidden = errors.New("forbidden")
	ErrNotFound  = errors.New("not found")

	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrUsernameTaken    = errors.New("username already exists")
	ErrUsernameRequired = errors.New("username is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrEmailInvalid     = errors.New("invalid email address")
	ErrPasswordTooShort = errors.New("password too short")

	ErrProjectNameRequired = errors.New("project name is required")

	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidPriority = errors.New("priority must be between 1 and 3")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrTaskSoftDeleted = errors.New("task is deleted and can only be modified by the super-admin")
)
