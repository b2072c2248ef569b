package expert

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) ListAll(ctx context.Context) ([]Expert, error) {
	const query = `
	SELECT id, slug, name, category, photo_url, created_at, updated_at
	FROM experts
	ORDER BY name, id
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	experts := []Expert{}
	for rows.Next() {
		var e Expert
		if err := rows.Scan(&e.ID, &e.Slug, &e.Name, &e.Category, &e.PhotoURL, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		experts = append(experts, e)
	}
	return experts, rows.Err()
}

func (r *PostgresRepo) UpsertBySlug(ctx context.Context, e *Expert) (bool, error) {
	const query = `
	INSERT INTO experts (id, slug, name, category, photo_url)
	VALUES (gen_random_uuid(), $1, $2, $3, $4)
	ON CONFLICT (slug) DO UPDATE SET
		name = EXCLUDED.name,
		category = EXCLUDED.category,
		photo_url = EXCLUDED.photo_url,
		updated_at = now()
	RETURNING id, created_at, updated_at, (xmax = 0) AS inserted
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var inserted bool
	err := r.db.QueryRow(timeoutCtx, query, e.Slug, e.Name, e.Category, e.PhotoURL).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt, &inserted)
	if err != nil {
		return false, fmt.Errorf("upsert expert %s: %w", e.Slug, err)
	}
	return inserted, nil
}
