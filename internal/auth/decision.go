package auth

import (
	"fmt"
	"strings"

	"github.com/GoBazaar/GoBazaar/internal/access"
)

// Decision is the outcome of one authorization check. The zero value denies.
type Decision struct {
	Allowed bool
	// Missing lists the required types the caller lacks.
	Missing access.Set
	// Err is set when the permission set could not be resolved.
	Err error
}

// Reason describes a denial for logs and responses. It is empty for an allowing decision.
func (d Decision) Reason() string {
	switch {
	case d.Allowed:
		return ""
	case d.Err != nil:
		return d.Err.Error()
	case d.Missing.Len() > 0:
		return "missing " + strings.Join(d.Missing.Strings(), ",")
	default:
		return ErrDenied.Error()
	}
}

// AsError returns the decision as an error, nil when allowed.
func (d Decision) AsError() error {
	if d.Allowed {
		return nil
	}

	if d.Err != nil {
		return fmt.Errorf("%w: %w", ErrDenied, d.Err)
	}

	return fmt.Errorf("%w: %s", ErrDenied, d.Reason())
}

// Evaluate allows exactly when granted is a superset of the requirement.
func Evaluate(granted access.Set, required access.Requirement) Decision {
	if required.IsZero() {
		return Decision{Err: ErrNoRequirement}
	}

	missing := granted.Missing(required.Set())
	if missing.Len() > 0 {
		return Decision{Missing: missing}
	}

	return Decision{Allowed: true}
}
