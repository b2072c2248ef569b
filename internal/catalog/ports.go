package catalog

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=catalog

// Repository is the catalog store.
type Repository interface {
	// ListAll returns the whole catalog in insertion order.
	ListAll(ctx context.Context) ([]ServiceRecord, error)
	GetByID(ctx context.Context, id string) (ServiceRecord, error)
	Create(ctx context.Context, rec *ServiceRecord) error
	Update(ctx context.Context, rec *ServiceRecord) error
	Delete(ctx context.Context, id string) error
	// UpsertByExternalID inserts or refreshes a record mirrored from the upstream catalog.
	UpsertByExternalID(ctx context.Context, rec *ServiceRecord) (created bool, err error)
}
