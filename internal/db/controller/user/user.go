// Package user provides storage operations for marketplace accounts.
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GoBazaar/GoBazaar/internal/db/like"
	"github.com/GoBazaar/GoBazaar/internal/db/models"
)

const whereID = "id = ?"

// Filter narrows List. Zero values match everything.
type Filter struct {
	// RoleID limits to users holding the role. Use NoRole for users without one.
	RoleID string
	// Search is matched case-insensitively against name and email.
	Search string
	Limit  int
	Offset int
}

// NoRole selects users without a role in Filter.RoleID.
const NoRole = "-"

// Create stores a new user with an Argon2id hashed password.
func Create(ctx context.Context, db *gorm.DB, name, email, password string, roleID *string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	hashed, err := models.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &models.User{
		Name:     name,
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: hashed,
		RoleID:   roleID,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("email = ?", u.Email).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to check existing user: %w", err)
		}

		if n > 0 {
			return ErrEmailExists
		}

		if roleID != nil {
			if err := lockRole(tx, *roleID); err != nil {
				return err
			}
		}

		if err := tx.Omit(clause.Associations).Create(u).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailExists
			}

			return fmt.Errorf("failed to create user: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return u, nil
}

// Authenticate returns the user with email when password matches.
func Authenticate(ctx context.Context, db *gorm.DB, email, password string) (*models.User, error) {
	u, err := GetByEmail(ctx, db, email)
	if err != nil {
		return nil, err
	}

	if !u.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	return u, nil
}

// GetByID loads a user with its role and the role's accesses.
func GetByID(ctx context.Context, db *gorm.DB, id uint64) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var u models.User
	if err := db.WithContext(ctx).Preload("Role.Accesses").First(&u, whereID, id).Error; err != nil {
		return nil, notFound(err)
	}

	return &u, nil
}

// GetByEmail loads a user by email.
func GetByEmail(ctx context.Context, db *gorm.DB, email string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var u models.User
	if err := db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error; err != nil {
		return nil, notFound(err)
	}

	return &u, nil
}

// List returns a page of users ordered by id and the total matching f.
func List(ctx context.Context, db *gorm.DB, f Filter) ([]models.User, int64, error) {
	if db == nil {
		return nil, 0, ErrDBNil
	}

	query := db.WithContext(ctx).Model(&models.User{})

	switch f.RoleID {
	case "":
	case NoRole:
		query = query.Where("role_id IS NULL")
	default:
		query = query.Where("role_id = ?", f.RoleID)
	}

	if s := strings.TrimSpace(f.Search); s != "" {
		query = query.Where(like.Contains(s, "name", "email"))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}

	if f.Offset > 0 {
		query = query.Offset(f.Offset)
	}

	var users []models.User
	if err := query.Preload("Role.Accesses").Order("id").Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

// AssignRole sets the user's role, nil clears it. The role row is locked so a concurrent role
// deletion either runs before (ErrRoleNotFound) or after (user unassigned again).
func AssignRole(ctx context.Context, db *gorm.DB, userID uint64, roleID *string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if roleID != nil {
			if err := lockRole(tx, *roleID); err != nil {
				return err
			}
		}

		var u models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, whereID, userID).Error; err != nil {
			return notFound(err)
		}

		value := any(gorm.Expr("NULL"))
		if roleID != nil {
			value = *roleID
		}

		if err := tx.Model(&models.User{}).Where(whereID, userID).Update("role_id", value).Error; err != nil {
			return fmt.Errorf("failed to assign role to user %d: %w", userID, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetByID(ctx, db, userID)
}

// ChangePassword replaces the password after checking the old one.
func ChangePassword(ctx context.Context, db *gorm.DB, userID uint64, oldPassword, newPassword string) error {
	u, err := GetByID(ctx, db, userID)
	if err != nil {
		return err
	}

	if !u.VerifyPassword(oldPassword) {
		return ErrInvalidOldPassword
	}

	hashed, err := models.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return db.WithContext(ctx).Model(&models.User{}).Where(whereID, userID).Update("password", hashed).Error
}

// Delete removes a user.
func Delete(ctx context.Context, db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.WithContext(ctx).Delete(&models.User{}, whereID, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func lockRole(tx *gorm.DB, roleID string) error {
	var r models.Role
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&r, whereID, roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}

		return fmt.Errorf("failed to load role %s: %w", roleID, err)
	}

	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}

	return err
}
