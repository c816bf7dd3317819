package taxonomy

import "errors"

var (
	// ErrCategoryNotFound is returned when no category has the requested id.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCategoryExists is returned when the category name is taken in the state.
	ErrCategoryExists = errors.New("category already exists")
	// ErrBrandNotFound is returned when no brand has the requested id.
	ErrBrandNotFound = errors.New("brand not found")
	// ErrBrandExists is returned when the brand name is taken in the state.
	ErrBrandExists = errors.New("brand already exists")
	// ErrModelNotFound is returned when no model has the requested id.
	ErrModelNotFound = errors.New("model not found")
	// ErrModelExists is returned when the brand already has a model with the name in the state.
	ErrModelExists = errors.New("model already exists")

	// ErrInvalidInput wraps every validation failure.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCursor is returned when the cursor does not name a listed row.
	ErrInvalidCursor = errors.New("invalid cursor")
)
