package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoBazaar/GoBazaar/internal/access"
)

// Service resolves permission sets and authorizes callers.
type Service struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewService creates a new auth service. A positive timeout bounds every lookup.
func NewService(db *gorm.DB, timeout time.Duration) *Service {
	return &Service{db: db, timeout: timeout}
}

type accessRow struct {
	Access *string
}

// Permissions returns the access set of the role assigned to userID.
// A user without a role has an empty set. The set is read with a single statement.
func (s *Service) Permissions(ctx context.Context, userID uint64) (access.Set, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var rows []accessRow

	err := s.db.WithContext(ctx).
		Table("users").
		Select("role_accesses.access AS access").
		Joins("LEFT JOIN role_accesses ON role_accesses.role_id = users.role_id").
		Where("users.id = ?", userID).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load permissions of user %d: %w", userID, err)
	}

	if len(rows) == 0 {
		return nil, ErrUserNotFound
	}

	granted := access.NewSet()

	for _, row := range rows {
		if row.Access == nil {
			continue
		}

		t := access.Type(*row.Access)
		if !access.IsValid(t) {
			log.Warn().Uint64("user_id", userID).Str("access", *row.Access).Msg("ignoring access type outside the catalog")
			continue
		}

		granted[t] = struct{}{}
	}

	return granted, nil
}

// Authorize checks userID against required. It never returns an allowing decision on error.
func (s *Service) Authorize(ctx context.Context, userID uint64, required access.Requirement) Decision {
	var d Decision

	granted, err := s.Permissions(ctx, userID)
	if err != nil {
		d = Decision{Err: err}
	} else {
		d = Evaluate(granted, required)
	}

	observe(d)

	if !d.Allowed {
		ev := log.Warn()
		if d.Err != nil && !errors.Is(d.Err, ErrUserNotFound) {
			ev = log.Error().Err(d.Err)
		}

		ev.Uint64("user_id", userID).Str("required", required.String()).Str("reason", d.Reason()).
			Msg("authorization denied")
	}

	return d
}

// Has reports whether userID holds t. Errors count as false.
func (s *Service) Has(ctx context.Context, userID uint64, t access.Type) bool {
	granted, err := s.Permissions(ctx, userID)
	if err != nil {
		return false
	}

	return granted.Has(t)
}
