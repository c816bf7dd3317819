// Package models contains database model definitions.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/GoBazaar/GoBazaar/internal/access"
)

// Role is a named, mutable bundle of access types assignable to users.
type Role struct {
	// ID is a generated uuid, immutable after creation.
	ID string `gorm:"primaryKey;size:36"`
	// Name is the globally unique display name.
	Name string `gorm:"uniqueIndex;size:100;not null"`
	// Accesses holds one row per granted access type.
	Accesses []RoleAccess `gorm:"foreignKey:RoleID;references:ID"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}

// BeforeCreate assigns the uuid.
func (r *Role) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	return nil
}

// AccessSet returns the loaded access rows as a set.
func (r *Role) AccessSet() access.Set {
	s := access.NewSet()
	for _, a := range r.Accesses {
		s[a.Access] = struct{}{}
	}

	return s
}
