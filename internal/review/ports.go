package review

import (
	"context"

	"homeservices/internal/user"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=review

type Repository interface {
	Create(ctx context.Context, r *Review) error
	// ListRecent returns reviews newest first, strictly after the cursor when one is given.
	ListRecent(ctx context.Context, after *Cursor, limit int) ([]Review, error)
	CountByRating(ctx context.Context) (map[int]int, error)
}

// AuthorLookup resolves the profile a review is posted under.
type AuthorLookup interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}
