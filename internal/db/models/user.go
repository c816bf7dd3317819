package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// User represents a marketplace account.
// RoleID is nil for users without elevated permissions.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// Name is the display name.
	Name string `gorm:"size:100;not null"`
	// Email is the unique login identifier.
	Email string `gorm:"uniqueIndex;size:255;not null"`
	// Password is the Argon2id hashed password.
	Password string `gorm:"size:255" json:"-"`
	// RoleID references the assigned role, nil means no role.
	RoleID *string `gorm:"size:36;index;column:role_id"`
	// Role is the associated role.
	Role *Role `gorm:"foreignKey:RoleID;references:ID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams) //nolint:wrapcheck
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
// It uses constant-time comparison to prevent timing attacks.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", u.ID).Msg("failed to verify password")
		return false
	}

	return match
}
