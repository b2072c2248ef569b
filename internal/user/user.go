package user

import (
	"errors"
	"time"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("email already registered")
)

type User struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Username    string     `json:"username"`
	Name        string     `json:"name"`
	PhotoURL    string     `json:"photo_url,omitempty"`
	Password    string     `json:"-"`
	Role        Role       `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Profile is the public display identity chosen at sign-up.
type Profile struct {
	Name     string
	PhotoURL string
}

// DisplayName falls back to the username when no name was given.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
