package access

import "errors"

// ErrUnknownAccess is returned when a value is not part of the access catalog.
var ErrUnknownAccess = errors.New("unknown access type")
