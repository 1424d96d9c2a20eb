// package models defines the data model for the ytblog service
package models

import "time"

// Model is implemented by every stored record.
//
// Validate is called before a record is written and reports the first missing or malformed field.
type Model interface {
	ID() string
	CreatedAt() time.Time
	UpdatedAt() time.Time
	Validate() error
}

// Repository is the storage contract shared by sqlite-backed stores.
//
// Get returns a not-found sentinel for missing or soft-deleted records, and Delete is a soft delete.
// List criteria keys are store-specific; unknown keys are ignored.
type Repository[T Model] interface {
	Create(model T) error
	Get(id string) (T, error)
	Update(model T) error
	Delete(id string) error
	List(criteria map[string]any) ([]T, error)
}
