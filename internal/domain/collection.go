package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Collection
var (
	ErrEmptyCollectionID   = errors.New("collection ID cannot be empty")
	ErrEmptyCollectionName = errors.New("collection name cannot be empty")
)

// Collection represents a named grouping of companies. Membership itself is
// owned by the store as a set of (company_id, collection_id) pairs with a
// uniqueness constraint on the pair.
type Collection struct {
	ID             uuid.UUID `json:"id"`
	CollectionName string    `json:"collection_name"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewCollection creates a new Collection with the given name.
// It generates a new UUID for the collection ID and sets the creation timestamp.
// Returns an error if validation fails.
func NewCollection(name string) (*Collection, error) {
	collection := &Collection{
		ID:             uuid.New(),
		CollectionName: name,
		CreatedAt:      time.Now().UTC(),
	}

	if err := collection.Validate(); err != nil {
		return nil, err
	}

	return collection, nil
}

// Validate checks if the Collection has valid data.
// Returns an error if any field fails validation.
func (c *Collection) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCollectionID
	}

	if c.CollectionName == "" {
		return ErrEmptyCollectionName
	}

	return nil
}
