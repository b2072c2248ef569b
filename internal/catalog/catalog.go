// Package catalog holds the service listings of the storefront and the query
// operations used to present them.
package catalog

import (
	"errors"
	"time"
)

const (
	// AllCategories is the category filter that matches every record.
	AllCategories = "All"
	// Uncategorized groups records without a category.
	Uncategorized = "Uncategorized"
)

var ErrNotFound = errors.New("service not found")

// ServiceRecord is one bookable offering.
type ServiceRecord struct {
	ID         string      `json:"id"`
	ExternalID string      `json:"external_id,omitempty"`
	Title      string      `json:"title"`
	Category   string      `json:"category"`
	Price      float64     `json:"price"`
	Discount   float64     `json:"discount"`
	Unit       string      `json:"unit,omitempty"`
	Features   FeatureList `json:"features"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// CategoryGroup is one section of a grouped listing.
type CategoryGroup struct {
	Category string
	Records  []ServiceRecord
}
