// Package taxonomy manages the marketplace catalog: categories, brands and models.
//
// Entries live in a state partition. Names of categories and brands are unique within their
// state; model names are unique per brand within a state. Public listings only return active
// entries, callers pass IncludeInactive explicitly to see the rest.
package taxonomy

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoBazaar/GoBazaar/internal/config"
	"github.com/GoBazaar/GoBazaar/internal/db/models"
)

var (
	categoryKind = kind{notFound: ErrCategoryNotFound, exists: ErrCategoryExists}
	brandKind    = kind{notFound: ErrBrandNotFound, exists: ErrBrandExists}
	modelKind    = kind{notFound: ErrModelNotFound, exists: ErrModelExists}
)

// CreateInput names a new category or brand.
type CreateInput struct {
	Name  string `validate:"required,max=255"`
	State string `validate:"required,state"`
}

// CreateModelInput names a new model of a brand in a category.
type CreateModelInput struct {
	Name       string `validate:"required,max=255"`
	State      string `validate:"required,state"`
	BrandID    string `validate:"required"`
	CategoryID string `validate:"required"`
}

// Service implements the catalog operations.
type Service struct {
	db           *gorm.DB
	validator    *validator.Validate
	states       []string
	defaultLimit int
	maxLimit     int
}

// NewService creates a catalog service for the configured states and page limits.
func NewService(db *gorm.DB, cfg config.Marketplace) *Service {
	s := &Service{
		db:           db,
		validator:    validator.New(),
		states:       slices.Clone(cfg.States),
		defaultLimit: cfg.DefaultLimit,
		maxLimit:     cfg.MaxLimit,
	}

	if s.defaultLimit <= 0 {
		s.defaultLimit = 20
	}

	if s.maxLimit < s.defaultLimit {
		s.maxLimit = s.defaultLimit
	}

	_ = s.validator.RegisterValidation("state", func(fl validator.FieldLevel) bool {
		return slices.Contains(s.states, fl.Field().String())
	})

	return s
}

// States returns the configured state partitions.
func (s *Service) States() []string {
	return slices.Clone(s.states)
}

func (s *Service) check(in any) error {
	if err := s.validator.Struct(in); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return nil
}

func newEntry(name, state string, createdBy uint64) models.Entry {
	e := models.Entry{Name: name, Slug: Slugify(name), State: state, Active: true}
	if createdBy != 0 {
		e.CreatedByID = &createdBy
	}

	return e
}

func trimUpdate(in UpdateInput) (UpdateInput, error) {
	if in.Name == nil && in.Active == nil {
		return in, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	if in.Name != nil {
		n := strings.TrimSpace(*in.Name)
		in.Name = &n
	}

	return in, nil
}

// ListCategories returns one page of categories.
func (s *Service) ListCategories(ctx context.Context, q ListQuery) (Page[models.Category], error) {
	q, err := s.normalize(q)
	if err != nil {
		return Page[models.Category]{}, err
	}

	return list[models.Category](ctx, s.db, q, nil)
}

// GetCategory returns one category.
func (s *Service) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	return get[models.Category](ctx, s.db, id, categoryKind)
}

// CreateCategory adds an active category.
func (s *Service) CreateCategory(ctx context.Context, in CreateInput, createdBy uint64) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.check(in); err != nil {
		return nil, err
	}

	c := &models.Category{Entry: newEntry(in.Name, in.State, createdBy)}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := nameTaken[models.Category](tx, in.Name, in.State, "", nil)
		if err != nil {
			return err
		}

		if taken {
			return ErrCategoryExists
		}

		return tx.Create(c).Error
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("category_id", c.ID).Str("name", c.Name).Str("state", c.State).Msg("category created")

	return c, nil
}

// UpdateCategory renames and/or (de)activates a category.
func (s *Service) UpdateCategory(ctx context.Context, id string, in UpdateInput) (*models.Category, error) {
	in, err := trimUpdate(in)
	if err != nil {
		return nil, err
	}

	if err = s.check(in); err != nil {
		return nil, err
	}

	return update[models.Category](ctx, s.db, id, in, categoryKind, nil)
}

// DeleteCategory removes a category and its models.
func (s *Service) DeleteCategory(ctx context.Context, id string) (*models.Category, error) {
	c, err := remove[models.Category](ctx, s.db, id, categoryKind, deleteModelsWhere("category_id"))
	if err != nil {
		return nil, err
	}

	log.Info().Str("category_id", c.ID).Str("name", c.Name).Msg("category deleted")

	return c, nil
}

// ListBrands returns one page of brands. With CategoryID set only brands having a model in that
// category are listed; the category itself must be active unless IncludeInactive is set.
func (s *Service) ListBrands(ctx context.Context, q ListQuery) (Page[models.Brand], error) {
	q, err := s.normalize(q)
	if err != nil {
		return Page[models.Brand]{}, err
	}

	var scope func(*gorm.DB) *gorm.DB

	if q.CategoryID != "" {
		sub := s.db.Model(&models.Model{}).Select("models.brand_id").
			Joins("JOIN categories ON categories.id = models.category_id").
			Where("models.category_id = ?", q.CategoryID)
		if !q.IncludeInactive {
			sub = sub.Where("categories.active = ?", true)
		}

		scope = func(tx *gorm.DB) *gorm.DB {
			return tx.Where("id IN (?)", sub)
		}
	}

	return list[models.Brand](ctx, s.db, q, scope)
}

// GetBrand returns one brand.
func (s *Service) GetBrand(ctx context.Context, id string) (*models.Brand, error) {
	return get[models.Brand](ctx, s.db, id, brandKind)
}

// CreateBrand adds an active brand.
func (s *Service) CreateBrand(ctx context.Context, in CreateInput, createdBy uint64) (*models.Brand, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.check(in); err != nil {
		return nil, err
	}

	b := &models.Brand{Entry: newEntry(in.Name, in.State, createdBy)}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := nameTaken[models.Brand](tx, in.Name, in.State, "", nil)
		if err != nil {
			return err
		}

		if taken {
			return ErrBrandExists
		}

		return tx.Create(b).Error
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("brand_id", b.ID).Str("name", b.Name).Str("state", b.State).Msg("brand created")

	return b, nil
}

// UpdateBrand renames and/or (de)activates a brand.
func (s *Service) UpdateBrand(ctx context.Context, id string, in UpdateInput) (*models.Brand, error) {
	in, err := trimUpdate(in)
	if err != nil {
		return nil, err
	}

	if err = s.check(in); err != nil {
		return nil, err
	}

	return update[models.Brand](ctx, s.db, id, in, brandKind, nil)
}

// DeleteBrand removes a brand and its models.
func (s *Service) DeleteBrand(ctx context.Context, id string) (*models.Brand, error) {
	b, err := remove[models.Brand](ctx, s.db, id, brandKind, deleteModelsWhere("brand_id"))
	if err != nil {
		return nil, err
	}

	log.Info().Str("brand_id", b.ID).Str("name", b.Name).Msg("brand deleted")

	return b, nil
}

// ListModels returns one page of models, optionally of one brand and/or category.
func (s *Service) ListModels(ctx context.Context, q ListQuery) (Page[models.Model], error) {
	q, err := s.normalize(q)
	if err != nil {
		return Page[models.Model]{}, err
	}

	scope := func(tx *gorm.DB) *gorm.DB {
		if q.BrandID != "" {
			tx = tx.Where("brand_id = ?", q.BrandID)
		}

		if q.CategoryID != "" {
			tx = tx.Where("category_id = ?", q.CategoryID)
		}

		return tx
	}

	return list[models.Model](ctx, s.db, q, scope)
}

// GetModel returns one model.
func (s *Service) GetModel(ctx context.Context, id string) (*models.Model, error) {
	return get[models.Model](ctx, s.db, id, modelKind)
}

func deleteModelsWhere(column string) func(tx *gorm.DB, id string) error {
	return func(tx *gorm.DB, id string) error {
		return tx.Where(column+" = ?", id).Delete(&models.Model{}).Error
	}
}

func sameBrand(brandID string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("brand_id = ?", brandID)
	}
}

// CreateModel adds an active model. Brand and category must exist in the same state.
func (s *Service) CreateModel(ctx context.Context, in CreateModelInput, createdBy uint64) (*models.Model, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.check(in); err != nil {
		return nil, err
	}

	m := &models.Model{
		Entry:      newEntry(in.Name, in.State, createdBy),
		BrandID:    in.BrandID,
		CategoryID: in.CategoryID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		brand, err := get[models.Brand](ctx, tx, in.BrandID, brandKind)
		if err != nil {
			return err
		}

		category, err := get[models.Category](ctx, tx, in.CategoryID, categoryKind)
		if err != nil {
			return err
		}

		if brand.State != in.State || category.State != in.State {
			return fmt.Errorf("%w: brand and category must belong to state %q", ErrInvalidInput, in.State)
		}

		taken, err := nameTaken[models.Model](tx, in.Name, in.State, "", sameBrand(in.BrandID))
		if err != nil {
			return err
		}

		if taken {
			return ErrModelExists
		}

		return tx.Omit("Brand", "Category").Create(m).Error
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("model_id", m.ID).Str("name", m.Name).Str("brand_id", m.BrandID).Msg("model created")

	return m, nil
}

// UpdateModel renames and/or (de)activates a model.
func (s *Service) UpdateModel(ctx context.Context, id string, in UpdateInput) (*models.Model, error) {
	in, err := trimUpdate(in)
	if err != nil {
		return nil, err
	}

	if err = s.check(in); err != nil {
		return nil, err
	}

	return update[models.Model](ctx, s.db, id, in, modelKind, func(m *models.Model) func(*gorm.DB) *gorm.DB {
		return sameBrand(m.BrandID)
	})
}

// DeleteModel removes a model.
func (s *Service) DeleteModel(ctx context.Context, id string) (*models.Model, error) {
	m, err := remove[models.Model](ctx, s.db, id, modelKind, nil)
	if err != nil {
		return nil, err
	}

	log.Info().Str("model_id", m.ID).Str("name", m.Name).Msg("model deleted")

	return m, nil
}
