// Package role persists roles and their access sets.
//
// Every write runs in one transaction. Access set changes go through Mutate, which locks the
// role row for the read-modify-write and normalizes the result with access.DeriveAdminFlag.
package role

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GoBazaar/GoBazaar/internal/access"
	"github.com/GoBazaar/GoBazaar/internal/db/models"
)

const idQueryPattern = "id = ?"

// MutateFunc receives a copy of the current access set and returns the wanted one.
type MutateFunc func(current access.Set) access.Set

// Create persists a new role. The access set is normalized before it is written.
func Create(ctx context.Context, db *gorm.DB, name string, accesses access.Set) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	r := &models.Role{Name: name}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkNameFree(tx, name, ""); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(r).Error; err != nil {
			return translate(err)
		}

		r.Accesses = models.RoleAccessRows(r.ID, access.DeriveAdminFlag(accesses))
		if len(r.Accesses) == 0 {
			return nil
		}

		return tx.Create(&r.Accesses).Error
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

// GetByID loads a role with its accesses.
func GetByID(ctx context.Context, db *gorm.DB, id string) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var r models.Role
	if err := db.WithContext(ctx).Preload("Accesses").First(&r, idQueryPattern, id).Error; err != nil {
		return nil, translate(err)
	}

	return &r, nil
}

// List returns all roles ordered by name.
func List(ctx context.Context, db *gorm.DB) ([]models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var roles []models.Role
	if err := db.WithContext(ctx).Preload("Accesses").Order("name").Order("id").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	return roles, nil
}

// Delete removes a role. Users holding it are left without a role in the same transaction.
func Delete(ctx context.Context, db *gorm.DB, id string) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var r *models.Role

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if r, err = lock(tx, id); err != nil {
			return err
		}

		if err = tx.Model(&models.User{}).Where("role_id = ?", id).
			Update("role_id", gorm.Expr("NULL")).Error; err != nil {
			return fmt.Errorf("unassign role %s: %w", id, err)
		}

		if err = tx.Where("role_id = ?", id).Delete(&models.RoleAccess{}).Error; err != nil {
			return fmt.Errorf("delete accesses of role %s: %w", id, err)
		}

		if err = tx.Delete(&models.Role{}, idQueryPattern, id).Error; err != nil {
			return fmt.Errorf("delete role %s: %w", id, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

// Mutate applies fn to the role's access set under a row lock and writes the normalized result.
// Nothing is written when fn leaves the set unchanged. On any error the transaction rolls back.
func Mutate(ctx context.Context, db *gorm.DB, id string, fn MutateFunc) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var r *models.Role

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if r, err = lock(tx, id); err != nil {
			return err
		}

		current := r.AccessSet()
		next := access.DeriveAdminFlag(fn(current.Clone()))

		if next.Equal(current) {
			return nil
		}

		if removed := current.Difference(next); removed.Len() > 0 {
			if err = tx.Where("role_id = ? AND access IN ?", id, removed.Strings()).
				Delete(&models.RoleAccess{}).Error; err != nil {
				return fmt.Errorf("revoke accesses of role %s: %w", id, err)
			}
		}

		if added := next.Difference(current); added.Len() > 0 {
			rows := models.RoleAccessRows(id, added)
			if err = tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("grant accesses to role %s: %w", id, err)
			}
		}

		r.UpdatedAt = time.Now()
		if err = tx.Model(&models.Role{}).Where(idQueryPattern, id).
			UpdateColumn("updated_at", r.UpdatedAt).Error; err != nil {
			return fmt.Errorf("touch role %s: %w", id, err)
		}

		r.Accesses = models.RoleAccessRows(id, next)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

// Rename changes the role name. Renaming to the current name is a no-op.
func Rename(ctx context.Context, db *gorm.DB, id, name string) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var r *models.Role

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if r, err = lock(tx, id); err != nil {
			return err
		}

		if r.Name == name {
			return nil
		}

		if err = checkNameFree(tx, name, id); err != nil {
			return err
		}

		if err = tx.Model(r).Update("name", name).Error; err != nil {
			return translate(err)
		}

		r.Name = name

		return nil
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

// lock selects the role row FOR UPDATE and loads its accesses.
func lock(tx *gorm.DB, id string) (*models.Role, error) {
	var r models.Role
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&r, idQueryPattern, id).Error; err != nil {
		return nil, translate(err)
	}

	if err := tx.Where("role_id = ?", id).Find(&r.Accesses).Error; err != nil {
		return nil, fmt.Errorf("load accesses of role %s: %w", id, err)
	}

	return &r, nil
}

func checkNameFree(tx *gorm.DB, name, exceptID string) error {
	q := tx.Model(&models.Role{}).Where("name = ?", name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return fmt.Errorf("check role name: %w", err)
	}

	if n > 0 {
		return ErrDuplicateName
	}

	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrRoleNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateName
	default:
		return err
	}
}
