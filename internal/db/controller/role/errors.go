package role

import "errors"

var (
	// ErrRoleNotFound is returned when no role has the requested id.
	ErrRoleNotFound = errors.New("role not found")
	// ErrDuplicateName is returned when another role already uses the name.
	ErrDuplicateName = errors.New("role name already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)
