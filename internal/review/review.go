// Package review stores customer testimonials shown on the storefront.
package review

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MinRating = 1
	MaxRating = 5

	DefaultLimit = 20
	MaxLimit     = 100
)

type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	Rating    int       `json:"rating"`
	Feedback  string    `json:"feedback"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary aggregates all reviews.
type Summary struct {
	Average      float64     `json:"average"`
	Count        int         `json:"count"`
	Distribution map[int]int `json:"distribution"`
}

// Summarize builds a Summary from per-star counts. Counts outside 1..5 are ignored and
// the average is rounded to one decimal.
func Summarize(counts map[int]int) Summary {
	s := Summary{Distribution: make(map[int]int, MaxRating)}
	sum := decimal.Zero
	for star := MinRating; star <= MaxRating; star++ {
		n := counts[star]
		if n < 0 {
			n = 0
		}
		s.Distribution[star] = n
		s.Count += n
		sum = sum.Add(decimal.NewFromInt(int64(star * n)))
	}
	if s.Count > 0 {
		s.Average = sum.Div(decimal.NewFromInt(int64(s.Count))).Round(1).InexactFloat64()
	}
	return s
}

// ClampLimit maps a requested page size into 1..MaxLimit.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}
