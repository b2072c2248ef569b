package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// invalid_text_representation, raised for malformed uuids
const invalidTextRepresentation = "22P02"

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

const selectService = `
	SELECT id, COALESCE(external_id, ''), title, category, price::float8, discount::float8,
		unit, features, created_at, updated_at
	FROM services
`

func scanService(row pgx.Row) (ServiceRecord, error) {
	var s ServiceRecord
	err := row.Scan(&s.ID, &s.ExternalID, &s.Title, &s.Category, &s.Price, &s.Discount,
		&s.Unit, (*[]string)(&s.Features), &s.CreatedAt, &s.UpdatedAt)
	if s.Features == nil {
		s.Features = FeatureList{}
	}
	return s, err
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation {
		return ErrNotFound
	}
	return err
}

func (r *PostgresRepo) ListAll(ctx context.Context) ([]ServiceRecord, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, selectService+` ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	records := []ServiceRecord{}
	for rows.Next() {
		rec, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (ServiceRecord, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rec, err := scanService(r.db.QueryRow(timeoutCtx, selectService+` WHERE id = $1`, id))
	if err != nil {
		return ServiceRecord{}, notFound(err)
	}
	return rec, nil
}

func (r *PostgresRepo) Create(ctx context.Context, rec *ServiceRecord) error {
	const query = `
	INSERT INTO services (id, external_id, title, category, price, discount, unit, features)
	VALUES (gen_random_uuid(), NULLIF($1, ''), $2, $3, $4, $5, $6, $7)
	RETURNING id, created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.QueryRow(timeoutCtx, query, rec.ExternalID, rec.Title, rec.Category,
		rec.Price, rec.Discount, rec.Unit, []string(rec.Features)).
		Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
}

func (r *PostgresRepo) Update(ctx context.Context, rec *ServiceRecord) error {
	const query = `
	UPDATE services
	SET title = $2, category = $3, price = $4, discount = $5, unit = $6, features = $7, updated_at = now()
	WHERE id = $1
	RETURNING updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.QueryRow(timeoutCtx, query, rec.ID, rec.Title, rec.Category,
		rec.Price, rec.Discount, rec.Unit, []string(rec.Features)).Scan(&rec.UpdatedAt)
	return notFound(err)
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return notFound(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) UpsertByExternalID(ctx context.Context, rec *ServiceRecord) (bool, error) {
	const query = `
	INSERT INTO services (id, external_id, title, category, price, discount, unit, features)
	VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (external_id) DO UPDATE SET
		title = EXCLUDED.title,
		category = EXCLUDED.category,
		price = EXCLUDED.price,
		discount = EXCLUDED.discount,
		unit = EXCLUDED.unit,
		features = EXCLUDED.features,
		updated_at = now()
	RETURNING id, created_at, updated_at, (xmax = 0) AS inserted
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var inserted bool
	err := r.db.QueryRow(timeoutCtx, query, rec.ExternalID, rec.Title, rec.Category,
		rec.Price, rec.Discount, rec.Unit, []string(rec.Features)).
		Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt, &inserted)
	if err != nil {
		return false, fmt.Errorf("upsert service %s: %w", rec.ExternalID, err)
	}
	return inserted, nil
}
