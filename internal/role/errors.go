package role

import (
	"errors"

	"github.com/GoBazaar/GoBazaar/internal/db/controller/role"
)

var (
	// ErrEmptyName is returned when a role name is blank after trimming.
	ErrEmptyName = errors.New("role name is empty")
	// ErrNameTooLong is returned when a role name exceeds maxNameLength.
	ErrNameTooLong = errors.New("role name is too long")
	// ErrNoAccess is returned when an add or remove call names no access type.
	ErrNoAccess = errors.New("no access type given")

	// ErrRoleNotFound is returned when no role has the requested id.
	ErrRoleNotFound = role.ErrRoleNotFound
	// ErrDuplicateName is returned when another role already uses the name.
	ErrDuplicateName = role.ErrDuplicateName
)
