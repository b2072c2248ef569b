package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"homeservices/internal/platform/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBlacklist struct {
	revoked map[string]bool
	err     error
}

func (s stubBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return s.revoked[jti], s.err
}

const testSecret = "test-secret"

func TestAuthMiddleware(t *testing.T) {
	token, jti, err := crypto.GenerateToken(testSecret, "user-1", "USER", time.Hour)
	require.NoError(t, err)

	var gotUser, gotRole, gotJTI string
	protected := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotRole, gotJTI = UserIDFrom(r), RoleFrom(r), TokenIDFrom(r)
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		header     string
		blacklist  BlacklistRepository
		wantStatus int
	}{
		{"valid token", "Bearer " + token, nil, http.StatusOK},
		{"missing header", "", nil, http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, nil, http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", nil, http.StatusUnauthorized},
		{"revoked token", "Bearer " + token, stubBlacklist{revoked: map[string]bool{jti: true}}, http.StatusUnauthorized},
		{"blacklist failure", "Bearer " + token, stubBlacklist{err: errors.New("db down")}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser, gotRole, gotJTI = "", "", ""
			req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			AuthMiddleware(testSecret, tt.blacklist)(protected).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "user-1", gotUser)
				assert.Equal(t, "USER", gotRole)
				assert.Equal(t, jti, gotJTI)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(RoleAdmin)(okHandler())

	serve := func(userID, role string) int {
		req := httptest.NewRequest(http.MethodPost, "/v1/services", nil)
		if userID != "" {
			req = req.WithContext(ContextWithUser(req.Context(), userID, role))
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, serve("admin-1", RoleAdmin))
	assert.Equal(t, http.StatusForbidden, serve("user-1", "USER"))
	assert.Equal(t, http.StatusUnauthorized, serve("", ""))
}
