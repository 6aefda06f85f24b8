package domain

import (
	"errors"
	"time"
)

// Common validation errors for Company
var (
	ErrInvalidCompanyID = errors.New("company ID must be positive")
	ErrEmptyCompanyName = errors.New("company name cannot be empty")
)

// Company represents a single company in the catalog. Companies are the
// member entities of collections.
type Company struct {
	ID          int64     `json:"id"`
	CompanyName string    `json:"company_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks if the Company has valid data.
// Returns an error if any field fails validation.
func (c *Company) Validate() error {
	if c.ID <= 0 {
		return ErrInvalidCompanyID
	}

	if c.CompanyName == "" {
		return ErrEmptyCompanyName
	}

	return nil
}
