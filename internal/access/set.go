package access

import "sort"

// Set is an unordered collection of unique access types.
type Set map[Type]struct{}

// NewSet builds a Set from the given types. Duplicates collapse.
func NewSet(types ...Type) Set {
	s := make(Set, len(types))
	for _, t := range types {
		s[t] = struct{}{}
	}

	return s
}

// Has reports whether t is in the set.
func (s Set) Has(t Type) bool {
	_, ok := s[t]
	return ok
}

// Len returns the number of types in the set.
func (s Set) Len() int {
	return len(s)
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for t := range s {
		out[t] = struct{}{}
	}

	return out
}

// Union returns a new set holding every type from s and o.
func (s Set) Union(o Set) Set {
	out := s.Clone()
	for t := range o {
		out[t] = struct{}{}
	}

	return out
}

// Difference returns a new set holding the types of s that are not in o.
func (s Set) Difference(o Set) Set {
	out := make(Set, len(s))

	for t := range s {
		if !o.Has(t) {
			out[t] = struct{}{}
		}
	}

	return out
}

// ContainsAll reports whether s is a superset of o.
func (s Set) ContainsAll(o Set) bool {
	for t := range o {
		if !s.Has(t) {
			return false
		}
	}

	return true
}

// Missing returns the types of required that s lacks.
func (s Set) Missing(required Set) Set {
	return required.Difference(s)
}

// Equal reports whether both sets hold exactly the same types.
func (s Set) Equal(o Set) bool {
	return len(s) == len(o) && s.ContainsAll(o)
}

// Sorted returns the members in catalog order, unknown values last in lexical order.
func (s Set) Sorted() []Type {
	out := make([]Type, 0, len(s))
	for t := range s {
		out = append(out, t)
	}

	sort.Slice(out, func(i, j int) bool {
		ii, iok := index[out[i]]
		jj, jok := index[out[j]]

		switch {
		case iok && jok:
			return ii < jj
		case iok != jok:
			return iok
		default:
			return out[i] < out[j]
		}
	})

	return out
}

// Strings returns Sorted as plain strings, handy for logging and JSON.
func (s Set) Strings() []string {
	sorted := s.Sorted()

	out := make([]string, len(sorted))
	for i, t := range sorted {
		out[i] = string(t)
	}

	return out
}

// DeriveAdminFlag returns a copy of s in which ReadAccess is present exactly when s holds at least
// one other access type. Every code path that writes a role's access set must pass it through here.
func DeriveAdminFlag(s Set) Set {
	out := s.Clone()
	delete(out, ReadAccess)

	if len(out) > 0 {
		out[ReadAccess] = struct{}{}
	}

	return out
}
