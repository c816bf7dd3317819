package taxonomy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/GoBazaar/GoBazaar/internal/db/like"
	"github.com/GoBazaar/GoBazaar/internal/db/models"
)

// Sort fields accepted by ListQuery.SortBy.
const (
	SortByName      = "name"
	SortByCreatedAt = "createdAt"
	SortByUpdatedAt = "updatedAt"
	SortByActive    = "active"
)

var sortColumns = map[string]string{
	SortByName:      "name",
	SortByCreatedAt: "created_at",
	SortByUpdatedAt: "updated_at",
	SortByActive:    "active",
}

// ListQuery selects one page of categories, brands or models.
type ListQuery struct {
	State     string `validate:"required,state"`
	Search    string
	Limit     int    `validate:"gte=0"`
	Cursor    string `validate:"omitempty,max=36"`
	SortBy    string `validate:"omitempty,oneof=name createdAt updatedAt active"`
	SortOrder string `validate:"omitempty,oneof=asc desc"`
	// IncludeInactive lists inactive entries too. Handlers set it for callers holding readAccess.
	IncludeInactive bool
	// CategoryID restricts brands to those with a model in the category, and models to the category.
	CategoryID string
	// BrandID restricts models to the brand.
	BrandID string
}

// Page is one slice of a listing. NextCursor is empty on the last page.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
}

type record[T any] interface {
	*T
	Base() *models.Entry
}

// kind carries the per table errors used by the generic helpers.
type kind struct {
	notFound error
	exists   error
}

func (s *Service) normalize(q ListQuery) (ListQuery, error) {
	q.Search = strings.TrimSpace(q.Search)

	if err := s.validator.Struct(q); err != nil {
		return q, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if q.Limit > s.maxLimit {
		return q, fmt.Errorf("%w: limit above %d", ErrInvalidInput, s.maxLimit)
	}

	if q.Limit == 0 {
		q.Limit = s.defaultLimit
	}

	if q.SortBy == "" {
		q.SortBy = SortByName
	}

	if q.SortOrder == "" {
		q.SortOrder = "asc"
	}

	return q, nil
}

func cursorValue(e *models.Entry, sortBy string) any {
	switch sortBy {
	case SortByCreatedAt:
		return e.CreatedAt
	case SortByUpdatedAt:
		return e.UpdatedAt
	case SortByActive:
		return e.Active
	default:
		return e.Name
	}
}

// list runs a keyset paginated query. The cursor is the id of the last row of the previous page;
// rows are ordered by the sort column with id as tie breaker.
func list[T any, P record[T]](
	ctx context.Context,
	db *gorm.DB,
	q ListQuery,
	scope func(*gorm.DB) *gorm.DB,
) (Page[T], error) {
	tx := db.WithContext(ctx).Model(new(T)).Where("state = ?", q.State)

	if !q.IncludeInactive {
		tx = tx.Where("active = ?", true)
	}

	if q.Search != "" {
		tx = tx.Where(like.Contains(q.Search, "name"))
	}

	if scope != nil {
		tx = scope(tx)
	}

	col := sortColumns[q.SortBy]

	cmp := ">"
	if q.SortOrder == "desc" {
		cmp = "<"
	}

	if q.Cursor != "" {
		var last T
		if err := db.WithContext(ctx).Where("id = ?", q.Cursor).Take(&last).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return Page[T]{}, ErrInvalidCursor
			}

			return Page[T]{}, fmt.Errorf("load cursor: %w", err)
		}

		v := cursorValue(P(&last).Base(), q.SortBy)
		tx = tx.Where(fmt.Sprintf("(%[1]s %[2]s ?) OR (%[1]s = ? AND id %[2]s ?)", col, cmp), v, v, q.Cursor)
	}

	var items []T
	if err := tx.Order(col + " " + q.SortOrder).Order("id " + q.SortOrder).Limit(q.Limit).Find(&items).Error; err != nil {
		return Page[T]{}, fmt.Errorf("list: %w", err)
	}

	page := Page[T]{Items: items}
	if len(items) == q.Limit {
		page.NextCursor = P(&items[len(items)-1]).Base().ID
	}

	return page, nil
}

func get[T any](ctx context.Context, db *gorm.DB, id string, k kind) (*T, error) {
	var out T
	if err := db.WithContext(ctx).Take(&out, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, k.notFound
		}

		return nil, err
	}

	return &out, nil
}

// nameTaken checks uniqueness of name within state; scope narrows further (models: per brand).
func nameTaken[T any](tx *gorm.DB, name, state, exceptID string, scope func(*gorm.DB) *gorm.DB) (bool, error) {
	q := tx.Model(new(T)).Where("name = ? AND state = ?", name, state)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}

	if scope != nil {
		q = scope(q)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("check name: %w", err)
	}

	return n > 0, nil
}

// UpdateInput changes name and/or the active flag. At least one must be set.
type UpdateInput struct {
	Name   *string `validate:"omitempty,min=1,max=255"`
	Active *bool
}

func update[T any, P record[T]](
	ctx context.Context,
	db *gorm.DB,
	id string,
	in UpdateInput,
	k kind,
	scope func(loaded *T) func(*gorm.DB) *gorm.DB,
) (*T, error) {
	var out T

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Take(&out, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return k.notFound
			}

			return err
		}

		row := P(&out).Base()
		updates := map[string]any{}

		if in.Name != nil && *in.Name != row.Name {
			var sc func(*gorm.DB) *gorm.DB
			if scope != nil {
				sc = scope(&out)
			}

			taken, err := nameTaken[T](tx, *in.Name, row.State, row.ID, sc)
			if err != nil {
				return err
			}

			if taken {
				return k.exists
			}

			updates["name"] = *in.Name
			updates["slug"] = Slugify(*in.Name)
		}

		if in.Active != nil && *in.Active != row.Active {
			updates["active"] = *in.Active
		}

		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&out).Updates(updates).Error; err != nil {
			return err
		}

		return tx.Take(&out, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// remove deletes the row in one transaction, running dependents first when given.
func remove[T any](
	ctx context.Context,
	db *gorm.DB,
	id string,
	k kind,
	dependents func(tx *gorm.DB, id string) error,
) (*T, error) {
	var out T

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Take(&out, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return k.notFound
			}

			return err
		}

		if dependents != nil {
			if err := dependents(tx, id); err != nil {
				return err
			}
		}

		return tx.Delete(new(T), "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}
