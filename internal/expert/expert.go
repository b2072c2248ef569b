// Package expert lists the professionals featured on the storefront home page.
package expert

import (
	"strings"
	"time"
)

// DefaultCategory labels experts with no category.
const DefaultCategory = "General"

type Expert struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func categoryOf(category string) string {
	if c := strings.TrimSpace(category); c != "" {
		return c
	}
	return DefaultCategory
}
