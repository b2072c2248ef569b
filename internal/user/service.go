package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"homeservices/internal/platform/crypto"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a USER account. The plain password is hashed here.
func (s *Service) Register(ctx context.Context, email, username, password string, profile Profile) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	_, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return User{}, ErrAlreadyExists
	case !errors.Is(err, ErrNotFound):
		return User{}, fmt.Errorf("lookup email: %w", err)
	}

	if err := crypto.ValidatePasswordStrength(password); err != nil {
		return User{}, err
	}
	hashed, err := crypto.HashPassword(password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Email:    email,
		Username: strings.TrimSpace(username),
		Name:     strings.TrimSpace(profile.Name),
		PhotoURL: strings.TrimSpace(profile.PhotoURL),
		Password: hashed,
		Role:     RoleUser,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return *u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *Service) TouchLastLogin(ctx context.Context, id string) error {
	return s.repo.TouchLastLogin(ctx, id)
}
