package user

import (
	"errors"

	"github.com/GoBazaar/GoBazaar/internal/db/controller/role"
)

var (
	// ErrUserNotFound is returned when no user matches.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists is returned when creating a user with an email already in use.
	ErrEmailExists = errors.New("user with email already exists")
	// ErrInvalidPassword is returned when the provided password is incorrect during authentication.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrInvalidOldPassword is returned when the old password does not match on a password change.
	ErrInvalidOldPassword = errors.New("invalid old password")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrRoleNotFound is returned when assigning a role that does not exist.
	ErrRoleNotFound = role.ErrRoleNotFound
)
