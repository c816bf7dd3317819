package access

import "strings"

// Requirement is the static set of access types an operation declares at definition time.
// Build it once at package level with Require; it is never computed from request contents.
type Requirement struct {
	set Set
}

// Require builds a Requirement. It panics when called without types or with a type outside the
// catalog, both of which are programming errors caught at startup.
func Require(types ...Type) Requirement {
	if len(types) == 0 {
		panic("access: requirement needs at least one access type")
	}

	for _, t := range types {
		if !IsValid(t) {
			panic("access: unknown access type in requirement: " + string(t))
		}
	}

	return Requirement{set: NewSet(types...)}
}

// Set returns a copy of the required types.
func (r Requirement) Set() Set {
	return r.set.Clone()
}

// IsZero reports whether r was declared without Require.
func (r Requirement) IsZero() bool {
	return len(r.set) == 0
}

// String renders the requirement as a comma separated list in catalog order.
func (r Requirement) String() string {
	return strings.Join(r.set.Strings(), ",")
}
