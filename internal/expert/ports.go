package expert

import "context"

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=expert

type Repository interface {
	// ListAll returns every expert ordered by name.
	ListAll(ctx context.Context) ([]Expert, error)
	UpsertBySlug(ctx context.Context, e *Expert) (created bool, err error)
}
