package login

import "errors"

// ErrInvalidCredentials is returned for an unknown email or a wrong password alike.
var ErrInvalidCredentials = errors.New("invalid email or password")
