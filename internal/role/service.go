// Package role implements the role mutation operations used by the admin API and the CLI.
//
// Inputs are validated here; persistence and the read-modify-write locking live in
// internal/db/controller/role.
package role

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoBazaar/GoBazaar/internal/access"
	store "github.com/GoBazaar/GoBazaar/internal/db/controller/role"
	"github.com/GoBazaar/GoBazaar/internal/db/models"
)

const maxNameLength = 100

type nameInput struct {
	Name string `validate:"required,max=100"`
}

type accessInput struct {
	Accesses []access.Type `validate:"required,min=1,dive,access"`
}

// Service validates and applies role mutations.
type Service struct {
	db        *gorm.DB
	validator *validator.Validate
	timeout   time.Duration
}

// NewService returns a Service. A positive timeout bounds every call on top of the caller's ctx.
func NewService(db *gorm.DB, timeout time.Duration) *Service {
	v := validator.New()

	// registration only fails for an empty tag or nil func
	_ = v.RegisterValidation("access", func(fl validator.FieldLevel) bool {
		return access.IsValid(access.Type(fl.Field().String()))
	})

	return &Service{db: db, validator: v, timeout: timeout}
}

func (s *Service) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, s.timeout)
}

// Create adds a role. accesses may be empty; the stored set is normalized.
func (s *Service) Create(ctx context.Context, name string, accesses []access.Type) (*models.Role, error) {
	name, err := s.checkName(name)
	if err != nil {
		return nil, err
	}

	if len(accesses) > 0 {
		if err = s.checkAccesses(accesses); err != nil {
			return nil, err
		}
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	r, err := store.Create(ctx, s.db, name, access.NewSet(accesses...))
	if err != nil {
		return nil, err
	}

	log.Info().Str("role_id", r.ID).Str("name", r.Name).Strs("accesses", r.AccessSet().Strings()).
		Msg("role created")

	return r, nil
}

// AddAccess unions accesses into the role's set. Already granted types are left as they are.
func (s *Service) AddAccess(ctx context.Context, id string, accesses []access.Type) (*models.Role, error) {
	return s.mutate(ctx, id, accesses, "grant", func(current, given access.Set) access.Set {
		return current.Union(given)
	})
}

// RemoveAccess removes accesses from the role's set. Absent types are ignored.
func (s *Service) RemoveAccess(ctx context.Context, id string, accesses []access.Type) (*models.Role, error) {
	return s.mutate(ctx, id, accesses, "revoke", func(current, given access.Set) access.Set {
		return current.Difference(given)
	})
}

func (s *Service) mutate(
	ctx context.Context,
	id string,
	accesses []access.Type,
	op string,
	apply func(current, given access.Set) access.Set,
) (*models.Role, error) {
	if err := s.checkAccesses(accesses); err != nil {
		return nil, err
	}

	given := access.NewSet(accesses...)

	ctx, cancel := s.bound(ctx)
	defer cancel()

	r, err := store.Mutate(ctx, s.db, id, func(current access.Set) access.Set {
		return apply(current, given)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("role_id", r.ID).Str("op", op).Strs("given", given.Strings()).
		Strs("accesses", r.AccessSet().Strings()).Msg("role accesses changed")

	return r, nil
}

// Rename changes the display name.
func (s *Service) Rename(ctx context.Context, id, name string) (*models.Role, error) {
	name, err := s.checkName(name)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	r, err := store.Rename(ctx, s.db, id, name)
	if err != nil {
		return nil, err
	}

	log.Info().Str("role_id", r.ID).Str("name", r.Name).Msg("role renamed")

	return r, nil
}

// Delete removes the role; its users are left without a role.
func (s *Service) Delete(ctx context.Context, id string) (*models.Role, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	r, err := store.Delete(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	log.Info().Str("role_id", r.ID).Str("name", r.Name).Msg("role deleted")

	return r, nil
}

// Get returns one role.
func (s *Service) Get(ctx context.Context, id string) (*models.Role, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	return store.GetByID(ctx, s.db, id) //nolint:wrapcheck
}

// List returns all roles ordered by name.
func (s *Service) List(ctx context.Context) ([]models.Role, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	return store.List(ctx, s.db) //nolint:wrapcheck
}

func (s *Service) checkName(name string) (string, error) {
	in := nameInput{Name: strings.TrimSpace(name)}

	if err := s.validator.Struct(in); err != nil {
		if len(in.Name) == 0 {
			return "", ErrEmptyName
		}

		return "", fmt.Errorf("%w: max %d characters", ErrNameTooLong, maxNameLength)
	}

	return in.Name, nil
}

func (s *Service) checkAccesses(accesses []access.Type) error {
	err := s.validator.Struct(accessInput{Accesses: accesses})
	if err == nil {
		return nil
	}

	if len(accesses) == 0 {
		return ErrNoAccess
	}

	for _, a := range accesses {
		if !access.IsValid(a) {
			return fmt.Errorf("%w: %q", access.ErrUnknownAccess, string(a))
		}
	}

	return fmt.Errorf("invalid accesses: %w", err)
}
