package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
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

func (r *PostgresRepo) CreateRun(ctx context.Context, run *Run) error {
	const sql = `
		INSERT INTO sync_runs (status, source, started_at)
		VALUES ($1, $2, $3)
		RETURNING id`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, sql, run.Status, run.Source, run.StartedAt).Scan(&run.ID)
}

func (r *PostgresRepo) UpdateRun(ctx context.Context, run *Run) error {
	const sql = `
		UPDATE sync_runs SET
			finished_at = $1,
			status = $2,
			fetched = $3,
			created = $4,
			updated = $5,
			skipped = $6,
			error = $7
		WHERE id = $8`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, sql, run.FinishedAt, run.Status, run.Fetched, run.Created,
		run.Updated, run.Skipped, run.Error, run.ID)
	return err
}

func (r *PostgresRepo) LatestRun(ctx context.Context) (Run, error) {
	const sql = `
		SELECT id, status, source, started_at, finished_at, fetched, created, updated, skipped, error
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT 1`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var run Run
	err := r.db.QueryRow(timeoutCtx, sql).Scan(&run.ID, &run.Status, &run.Source, &run.StartedAt,
		&run.FinishedAt, &run.Fetched, &run.Created, &run.Updated, &run.Skipped, &run.Error)
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, ErrNoRuns
	}
	return run, err
}
