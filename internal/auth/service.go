package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"homeservices/internal/platform/crypto"
	"homeservices/internal/session"
	"homeservices/internal/user"
)

var ErrUnauthorized = errors.New("unauthorized")

const (
	AccessTokenTTL       = 15 * time.Minute
	refreshTokenTTL      = 30 * 24 * time.Hour
	rememberMeRefreshTTL = 90 * 24 * time.Hour
)

// Tokens is the credential pair handed to a client.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// ClientInfo describes where a login came from.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

type Service struct {
	secret   string
	users    *user.Service
	sessions *session.Service
	now      func() time.Time
}

func NewService(secret string, users *user.Service, sessions *session.Service) *Service {
	return &Service{
		secret:   secret,
		users:    users,
		sessions: sessions,
		now:      time.Now,
	}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func refreshTTL(rememberMe bool) time.Duration {
	if rememberMe {
		return rememberMeRefreshTTL
	}
	return refreshTokenTTL
}

func (s *Service) issue(u user.User) (string, error) {
	token, _, err := crypto.GenerateToken(s.secret, u.ID, string(u.Role), AccessTokenTTL)
	return token, err
}

func (s *Service) Login(ctx context.Context, email, password string, rememberMe bool, client ClientInfo) (Tokens, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Tokens{}, ErrUnauthorized
		}
		return Tokens{}, err
	}
	if !crypto.VerifyPassword(u.Password, password) {
		return Tokens{}, ErrUnauthorized
	}

	access, err := s.issue(u)
	if err != nil {
		return Tokens{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := crypto.RandomToken(32)
	if err != nil {
		return Tokens{}, err
	}

	sess := &session.Session{
		UserID:           u.ID,
		RefreshTokenHash: hashToken(refresh),
		UserAgent:        client.UserAgent,
		IPAddress:        client.IPAddress,
		RememberMe:       rememberMe,
		ExpiresAt:        s.now().Add(refreshTTL(rememberMe)),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return Tokens{}, fmt.Errorf("create session: %w", err)
	}
	// last login is informational
	_ = s.users.TouchLastLogin(ctx, u.ID)

	return newTokens(access, refresh), nil
}

// Refresh exchanges a refresh token for a new pair. The old refresh token stops working.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	oldHash := hashToken(refreshToken)
	sess, err := s.sessions.GetActive(ctx, oldHash)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return Tokens{}, ErrUnauthorized
		}
		return Tokens{}, err
	}

	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return Tokens{}, ErrUnauthorized
	}

	access, err := s.issue(u)
	if err != nil {
		return Tokens{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := crypto.RandomToken(32)
	if err != nil {
		return Tokens{}, err
	}

	next := sess
	next.RefreshTokenHash = hashToken(refresh)
	next.ExpiresAt = s.now().Add(refreshTTL(sess.RememberMe))
	if err := s.sessions.Rotate(ctx, oldHash, &next); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return Tokens{}, ErrUnauthorized
		}
		return Tokens{}, err
	}

	return newTokens(access, refresh), nil
}

// Logout revokes the presented access token and, when given, its refresh token.
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	claims, err := crypto.ParseToken(s.secret, accessToken)
	if err != nil {
		return ErrUnauthorized
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.sessions.Revoke(ctx, claims.ID, claims.Sub, expiresAt); err != nil {
		return err
	}

	if refreshToken == "" {
		return nil
	}
	sess, err := s.sessions.GetActive(ctx, hashToken(refreshToken))
	if err != nil || sess.UserID != claims.Sub {
		return nil
	}
	return s.sessions.DeleteForUser(ctx, claims.Sub, sess.ID)
}

func newTokens(access, refresh string) Tokens {
	return Tokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(AccessTokenTTL.Seconds()),
		TokenType:    "Bearer",
	}
}
