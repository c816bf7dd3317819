package taxonomy

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/GoBazaar/GoBazaar/internal/db/like"
	"github.com/GoBazaar/GoBazaar/internal/db/models"
)

// Suggestion is one search hit.
type Suggestion struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Suggestions groups hits by table.
type Suggestions struct {
	Categories []Suggestion `json:"categories"`
	Brands     []Suggestion `json:"brands"`
	Models     []Suggestion `json:"models"`
}

// SuggestQuery is a case-insensitive substring search over all three tables.
type SuggestQuery struct {
	Term            string
	Limit           int
	IncludeInactive bool
}

// Suggest returns up to Limit hits per table ordered by name. A blank term yields empty lists.
func (s *Service) Suggest(ctx context.Context, q SuggestQuery) (Suggestions, error) {
	out := Suggestions{Categories: []Suggestion{}, Brands: []Suggestion{}, Models: []Suggestion{}}

	term := strings.TrimSpace(q.Term)
	if term == "" {
		return out, nil
	}

	limit := q.Limit
	if limit <= 0 || limit > s.maxLimit {
		limit = s.defaultLimit
	}

	targets := []struct {
		model any
		dest  *[]Suggestion
	}{
		{&models.Category{}, &out.Categories},
		{&models.Brand{}, &out.Brands},
		{&models.Model{}, &out.Models},
	}

	for _, target := range targets {
		if err := s.suggestFrom(ctx, target.model, term, limit, q.IncludeInactive, target.dest); err != nil {
			return Suggestions{}, err
		}
	}

	return out, nil
}

func (s *Service) suggestFrom(ctx context.Context, model any, term string, limit int, inactive bool, dest *[]Suggestion) error {
	tx := s.db.WithContext(ctx).Model(model).
		Select("id", "name").
		Where(like.Contains(term, "name"))

	if !inactive {
		tx = tx.Where("active = ?", true)
	}

	if err := tx.Order("name").Limit(limit).Scan(dest).Error; err != nil {
		return fmt.Errorf("suggest %s: %w", tableName(s.db, model), err)
	}

	return nil
}

func tableName(db *gorm.DB, model any) string {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return "?"
	}

	return stmt.Schema.Table
}
