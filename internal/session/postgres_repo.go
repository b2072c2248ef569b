package session

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

func sessionFields(s *Session) []any {
	return []any{&s.ID, &s.UserID, &s.RefreshTokenHash, &s.UserAgent, &s.IPAddress, &s.RememberMe, &s.ExpiresAt, &s.CreatedAt, &s.LastUsedAt}
}

func (r *PostgresRepo) Create(ctx context.Context, s *Session) error {
	const query = `
	INSERT INTO sessions (id, user_id, refresh_token_hash, user_agent, ip_address, remember_me, expires_at)
	VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6)
	RETURNING id, created_at, last_used_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query,
		s.UserID,
		s.RefreshTokenHash,
		s.UserAgent,
		s.IPAddress,
		s.RememberMe,
		s.ExpiresAt,
	).Scan(&s.ID, &s.CreatedAt, &s.LastUsedAt)
}

func (r *PostgresRepo) GetByTokenHash(ctx context.Context, tokenHash string) (Session, error) {
	const query = `
	SELECT id, user_id, refresh_token_hash, user_agent, ip_address, remember_me, expires_at, created_at, last_used_at
	FROM sessions
	WHERE refresh_token_hash = $1 AND expires_at > now()
	LIMIT 1
	`
	var s Session
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, tokenHash).Scan(sessionFields(&s)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	return s, nil
}

func (r *PostgresRepo) ListByUserID(ctx context.Context, userID string) ([]Session, error) {
	const query = `
	SELECT id, user_id, refresh_token_hash, user_agent, ip_address, remember_me, expires_at, created_at, last_used_at
	FROM sessions
	WHERE user_id = $1 AND expires_at > now()
	ORDER BY created_at DESC
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(sessionFields(&s)...); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *PostgresRepo) DeleteForUser(ctx context.Context, userID, sessionID string) error {
	const query = `DELETE FROM sessions WHERE id = $1 AND user_id = $2`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, sessionID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Rotate deletes the session holding oldHash and inserts next in one
// transaction. A second rotation of the same hash finds no row and fails.
func (r *PostgresRepo) Rotate(ctx context.Context, oldHash string, next *Session) error {
	const deleteQuery = `DELETE FROM sessions WHERE refresh_token_hash = $1`
	const insertQuery = `
	INSERT INTO sessions (id, user_id, refresh_token_hash, user_agent, ip_address, remember_me, expires_at)
	VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6)
	RETURNING id, created_at, last_used_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(timeoutCtx)

	tag, err := tx.Exec(timeoutCtx, deleteQuery, oldHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	err = tx.QueryRow(timeoutCtx, insertQuery,
		next.UserID,
		next.RefreshTokenHash,
		next.UserAgent,
		next.IPAddress,
		next.RememberMe,
		next.ExpiresAt,
	).Scan(&next.ID, &next.CreatedAt, &next.LastUsedAt)
	if err != nil {
		return err
	}
	return tx.Commit(timeoutCtx)
}

func (r *PostgresRepo) CleanupExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM sessions WHERE expires_at < now()`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type BlacklistPostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewBlacklistPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *BlacklistPostgresRepo {
	return &BlacklistPostgresRepo{db: db, timeout: timeout}
}

func (r *BlacklistPostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *BlacklistPostgresRepo) AddToken(ctx context.Context, jti, userID string, expiresAt time.Time) error {
	const query = `
	INSERT INTO token_blacklist (jti, user_id, expires_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (jti) DO NOTHING
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, query, jti, userID, expiresAt)
	return err
}

func (r *BlacklistPostgresRepo) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	const query = `
	SELECT EXISTS(
		SELECT 1 FROM token_blacklist
		WHERE jti = $1 AND expires_at > now()
	)
	`
	var exists bool
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, jti).Scan(&exists)
	return exists, err
}

func (r *BlacklistPostgresRepo) CleanupExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM token_blacklist WHERE expires_at < now()`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
