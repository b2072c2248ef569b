// Package testutil holds fixtures shared by cross-package HTTP tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"homeservices/internal/catalog"
	"homeservices/internal/platform/crypto"
	"homeservices/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const TestSecret = "test-secret-key"

// TestUser is a regular storefront customer.
var TestUser = user.User{
	ID:        "7b0f4c1e-2a43-4f0e-9a55-3c1d8a6e0a01",
	Username:  "rahim",
	Name:      "Rahim Hossain",
	PhotoURL:  "https://img.example/rahim.jpg",
	Email:     "rahim@example.com",
	Password:  "hashedpassword",
	Role:      user.RoleUser,
	CreatedAt: time.Now(),
	UpdatedAt: time.Now(),
}

// TestAdminUser may edit the catalog.
var TestAdminUser = user.User{
	ID:        "c2a9d7f4-55b8-4c3e-8d7a-9e1f0b2c3d04",
	Username:  "ops",
	Email:     "ops@example.com",
	Password:  "hashedpassword",
	Role:      user.RoleAdmin,
	CreatedAt: time.Now(),
	UpdatedAt: time.Now(),
}

// NewServiceRecord returns a listing with a fresh id. Zero price means 1000.
func NewServiceRecord(title, category string, price, discount float64) catalog.ServiceRecord {
	if price == 0 {
		price = 1000
	}
	now := time.Now()
	return catalog.ServiceRecord{
		ID:        uuid.NewString(),
		Title:     title,
		Category:  category,
		Price:     price,
		Discount:  discount,
		Features:  catalog.FeatureList{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GenerateTestToken signs a one hour access token for u.
func GenerateTestToken(secret string, u user.User) string {
	token, _, _ := crypto.GenerateToken(secret, u.ID, string(u.Role), time.Hour)
	return token
}

// GenerateExpiredToken signs an access token that expired an hour ago.
func GenerateExpiredToken(secret string, u user.User) string {
	c := crypto.Claims{
		Sub:  u.ID,
		Role: string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    "homeservices",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	return token
}

// NewRequest builds a request with body encoded as JSON.
func NewRequest(method, path string, body any) *http.Request {
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}
	b, _ := json.Marshal(body)
	r := httptest.NewRequest(method, path, bytes.NewReader(b))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// NewRequestWithAuth is NewRequest with a bearer token.
func NewRequestWithAuth(method, path string, body any, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// Envelope is the decoded response body.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta map[string]any `json:"meta"`
}

// DecodeEnvelope reads the recorded response body.
func DecodeEnvelope(w *httptest.ResponseRecorder) (Envelope, error) {
	res := w.Result()
	defer res.Body.Close()

	var env Envelope
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return env, err
	}
	err = json.Unmarshal(b, &env)
	return env, err
}
