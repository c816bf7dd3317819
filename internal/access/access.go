// Package access defines the closed catalog of access types used for role-based access control.
//
// The catalog is fixed at build time. Granting a new capability to the system means adding a
// constant here and to the ordered list returned by All; roles can only ever hold values from it.
package access

import (
	"fmt"
	"strings"
)

// Type is a single grantable capability.
type Type string

// Access type constants. The string values are stored in the database and must never change.
const (
	// ReadAccess grants visibility of the admin area. It is derived: a role holds it if and only if
	// it holds at least one other access type. See DeriveAdminFlag.
	ReadAccess Type = "readAccess"

	// CreateCategory allows creating categories.
	CreateCategory Type = "createCategory"
	// UpdateCategory allows renaming and (de)activating categories.
	UpdateCategory Type = "updateCategory"
	// DeleteCategory allows deleting categories.
	DeleteCategory Type = "deleteCategory"

	// CreateBrand allows creating brands.
	CreateBrand Type = "createBrand"
	// UpdateBrand allows renaming and (de)activating brands.
	UpdateBrand Type = "updateBrand"
	// DeleteBrand allows deleting brands.
	DeleteBrand Type = "deleteBrand"

	// CreateModel allows creating models.
	CreateModel Type = "createModel"
	// UpdateModel allows renaming and (de)activating models.
	UpdateModel Type = "updateModel"
	// DeleteModel allows deleting models.
	DeleteModel Type = "deleteModel"

	// UpdateProduct allows editing any product listing.
	UpdateProduct Type = "updateProduct"
	// DeleteProduct allows deleting any product listing.
	DeleteProduct Type = "deleteProduct"

	// CreateRole allows creating roles.
	CreateRole Type = "createRole"
	// UpdateRole allows renaming roles and changing their access types.
	UpdateRole Type = "updateRole"
	// UpdateUsersRole allows assigning roles to users.
	UpdateUsersRole Type = "updateUsersRole"
	// DeleteRole allows deleting roles.
	DeleteRole Type = "deleteRole"

	// UpdateUser allows editing user accounts.
	UpdateUser Type = "updateUser"
	// DeleteUser allows deleting user accounts.
	DeleteUser Type = "deleteUser"
)

//nolint:gochecknoglobals // closed catalog
var catalog = []Type{
	ReadAccess,
	CreateCategory, UpdateCategory, DeleteCategory,
	CreateBrand, UpdateBrand, DeleteBrand,
	CreateModel, UpdateModel, DeleteModel,
	UpdateProduct, DeleteProduct,
	CreateRole, UpdateRole, UpdateUsersRole, DeleteRole,
	UpdateUser, DeleteUser,
}

//nolint:gochecknoglobals // lookup index for catalog
var index = func() map[Type]int {
	m := make(map[Type]int, len(catalog))
	for i, t := range catalog {
		m[t] = i
	}

	return m
}()

// All returns a copy of the catalog in its canonical order.
func All() []Type {
	out := make([]Type, len(catalog))
	copy(out, catalog)

	return out
}

// IsValid reports whether t is part of the catalog.
func IsValid(t Type) bool {
	_, ok := index[t]
	return ok
}

// Parse converts a raw string into a catalog Type.
func Parse(s string) (Type, error) {
	t := Type(strings.TrimSpace(s))
	if !IsValid(t) {
		return "", fmt.Errorf("%w: %q", ErrUnknownAccess, s)
	}

	return t, nil
}

// ParseAll converts raw strings into a Set, failing on the first unknown value.
func ParseAll(raw []string) (Set, error) {
	set := make(Set, len(raw))

	for _, s := range raw {
		t, err := Parse(s)
		if err != nil {
			return nil, err
		}

		set[t] = struct{}{}
	}

	return set, nil
}

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}
