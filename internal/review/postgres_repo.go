package review

import (
	"context"
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

func (repo *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, repo.timeout)
}

func (repo *PostgresRepo) Create(ctx context.Context, r *Review) error {
	const query = `
		INSERT INTO reviews (id, user_id, name, photo_url, rating, feedback)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	timeoutCtx, cancel := repo.withTimeout(ctx)
	defer cancel()
	return repo.db.QueryRow(timeoutCtx, query, r.UserID, r.Name, r.PhotoURL, r.Rating, r.Feedback).
		Scan(&r.ID, &r.CreatedAt)
}

func (repo *PostgresRepo) ListRecent(ctx context.Context, after *Cursor, limit int) ([]Review, error) {
	const query = `
		SELECT id, user_id, name, photo_url, rating, feedback, created_at
		FROM reviews
		WHERE $2::timestamptz IS NULL OR (created_at, id) < ($2, $3::uuid)
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`
	var (
		afterAt *time.Time
		afterID *string
	)
	if after != nil {
		afterAt, afterID = &after.CreatedAt, &after.ID
	}

	timeoutCtx, cancel := repo.withTimeout(ctx)
	defer cancel()

	rows, err := repo.db.Query(timeoutCtx, query, limit, afterAt, afterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []Review{}
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.UserID, &r.Name, &r.PhotoURL, &r.Rating, &r.Feedback, &r.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

func (repo *PostgresRepo) CountByRating(ctx context.Context) (map[int]int, error) {
	const query = `SELECT rating, count(*) FROM reviews GROUP BY rating`
	timeoutCtx, cancel := repo.withTimeout(ctx)
	defer cancel()

	rows, err := repo.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var star, n int
		if err := rows.Scan(&star, &n); err != nil {
			return nil, err
		}
		counts[star] = n
	}
	return counts, rows.Err()
}
