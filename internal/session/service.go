package session

import (
	"context"
	"fmt"
	"time"
)

type Service struct {
	repo          Repository
	blacklistRepo BlacklistRepository
	now           func() time.Time
}

func NewService(repo Repository, blacklistRepo BlacklistRepository) *Service {
	return &Service{
		repo:          repo,
		blacklistRepo: blacklistRepo,
		now:           time.Now,
	}
}

func (s *Service) Create(ctx context.Context, sess *Session) error {
	return s.repo.Create(ctx, sess)
}

// GetActive returns the session for a refresh token hash, ErrNotFound when it is
// unknown or expired.
func (s *Service) GetActive(ctx context.Context, hash string) (Session, error) {
	sess, err := s.repo.GetByTokenHash(ctx, hash)
	if err != nil {
		return Session{}, err
	}
	if sess.Expired(s.now()) {
		return Session{}, ErrNotFound
	}
	return sess, nil
}

// Rotate replaces the session identified by oldHash with next. It returns
// ErrNotFound when oldHash was already consumed.
func (s *Service) Rotate(ctx context.Context, oldHash string, next *Session) error {
	next.ID = ""
	if err := s.repo.Rotate(ctx, oldHash, next); err != nil {
		return fmt.Errorf("rotate session: %w", err)
	}
	return nil
}

func (s *Service) ListByUserID(ctx context.Context, userID string) ([]Session, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *Service) DeleteForUser(ctx context.Context, userID, sessionID string) error {
	return s.repo.DeleteForUser(ctx, userID, sessionID)
}

// Revoke blacklists an access token until it would have expired anyway.
func (s *Service) Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error {
	if expiresAt.IsZero() {
		expiresAt = s.now().Add(24 * time.Hour)
	}
	return s.blacklistRepo.AddToken(ctx, jti, userID, expiresAt)
}

func (s *Service) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	return s.blacklistRepo.IsBlacklisted(ctx, jti)
}

// Cleanup drops expired sessions and blacklist entries.
func (s *Service) Cleanup(ctx context.Context) (sessions, tokens int64, err error) {
	if sessions, err = s.repo.CleanupExpired(ctx); err != nil {
		return 0, 0, err
	}
	if tokens, err = s.blacklistRepo.CleanupExpired(ctx); err != nil {
		return sessions, 0, err
	}
	return sessions, tokens, nil
}
