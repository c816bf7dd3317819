package daemon

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GoBazaar/GoBazaar/internal/access"
	"github.com/GoBazaar/GoBazaar/internal/config"
	rolestore "github.com/GoBazaar/GoBazaar/internal/db/controller/role"
	"github.com/GoBazaar/GoBazaar/internal/db/controller/user"
	"github.com/GoBazaar/GoBazaar/internal/db/models"
)

// AdminRoleName names the seeded role holding every access type.
const AdminRoleName = "Administrator"

const (
	defaultAdminName  = "Administrator"
	defaultAdminEmail = "admin@gobazaar.local"
)

// Seed creates the administrator role with the whole catalog, grants it access types added to the
// catalog since the last start and, on an empty user table, creates the admin account.
// A generated password is logged once.
func Seed(ctx context.Context, db *gorm.DB, cfg config.Seed) error {
	admin, err := seedAdminRole(ctx, db)
	if err != nil {
		return err
	}

	var count int64
	if err = db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}

	if count > 0 {
		return nil
	}

	name, email, password := cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword
	if name == "" {
		name = defaultAdminName
	}

	if email == "" {
		email = defaultAdminEmail
	}

	generated := password == ""
	if generated {
		password = strings.ReplaceAll(uuid.NewString(), "-", "")
	}

	u, err := user.Create(ctx, db, name, email, password, &admin.ID)
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	ev := log.Warn().Uint64("user_id", u.ID).Str("email", u.Email)
	if generated {
		ev = ev.Str("password", password)
	}

	ev.Msg("admin user created, change the password after the first login")

	return nil
}

// seedAdminRole creates the administrator role or grants it access types added to the catalog
// since the last start.
func seedAdminRole(ctx context.Context, db *gorm.DB) (*models.Role, error) {
	var seen []models.CatalogAccess
	if err := db.WithContext(ctx).Find(&seen).Error; err != nil {
		return nil, fmt.Errorf("failed to load known access types: %w", err)
	}

	known := access.NewSet()
	for _, c := range seen {
		known[c.Access] = struct{}{}
	}

	added := access.NewSet(access.All()...).Difference(known)

	var (
		existing models.Role
		r        *models.Role
	)

	err := db.WithContext(ctx).Where("name = ?", AdminRoleName).Take(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		r, err = rolestore.Create(ctx, db, AdminRoleName, access.NewSet(access.All()...))
		if err != nil {
			return nil, fmt.Errorf("failed to create admin role: %w", err)
		}

		log.Info().Str("role_id", r.ID).Msg("admin role created")
	case err != nil:
		return nil, fmt.Errorf("failed to load admin role: %w", err)
	case added.Len() == 0:
		// accesses removed from the role by an administrator stay removed
		return rolestore.GetByID(ctx, db, existing.ID)
	default:
		r, err = rolestore.Mutate(ctx, db, existing.ID, func(current access.Set) access.Set {
			return current.Union(added)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to update admin role: %w", err)
		}

		log.Info().Str("role_id", r.ID).Strs("accesses", added.Strings()).Msg("new access types granted to admin role")
	}

	if added.Len() > 0 {
		rows := make([]models.CatalogAccess, 0, added.Len())
		for _, t := range added.Sorted() {
			rows = append(rows, models.CatalogAccess{Access: t})
		}

		if err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to record known access types: %w", err)
		}
	}

	return r, nil
}
