package auth

import "errors"

var (
	// ErrUserNotFound is returned when the caller id does not match a user.
	ErrUserNotFound = errors.New("user not found")

	// ErrDenied is wrapped by a denying Decision's error.
	ErrDenied = errors.New("access denied")

	// ErrNoRequirement is returned when an operation was declared without access.Require.
	ErrNoRequirement = errors.New("operation declares no access requirement")
)
