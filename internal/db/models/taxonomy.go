package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entry holds the columns shared by categories, brands and models.
type Entry struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`
	// Name is unique per State for categories and brands.
	Name string `gorm:"size:255;not null;index" json:"name"`
	Slug string `gorm:"size:255;not null" json:"slug"`
	// State is the marketplace partition the entry was created in.
	State string `gorm:"size:50;not null;index" json:"state"`
	// Active entries are visible to everyone, inactive ones only on admin listings.
	Active      bool      `gorm:"not null" json:"active"`
	CreatedByID *uint64   `gorm:"column:created_by_id" json:"createdById,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeCreate assigns the uuid.
func (e *Entry) BeforeCreate(_ *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	return nil
}

// Category groups models, e.g. "Phones".
type Category struct {
	Entry
}

// TableName specifies the database table name for the Category model.
func (Category) TableName() string {
	return "categories"
}

// Brand is a manufacturer, e.g. "Apple".
type Brand struct {
	Entry
}

// TableName specifies the database table name for the Brand model.
func (Brand) TableName() string {
	return "brands"
}

// Model is a concrete product model of a brand in a category.
type Model struct {
	Entry
	BrandID    string    `gorm:"size:36;not null;index" json:"brandId"`
	Brand      *Brand    `gorm:"foreignKey:BrandID;constraint:OnDelete:CASCADE" json:"brand,omitempty"`
	CategoryID string    `gorm:"size:36;not null;index" json:"categoryId"`
	Category   *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"category,omitempty"`
}

// TableName specifies the database table name for the Model model.
func (Model) TableName() string {
	return "models"
}

// Base gives generic code access to the shared columns.
func (e *Entry) Base() *Entry {
	return e
}
