package user

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"homeservices/internal/httpx"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestHTTPHandler_RegisterUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepository(ctrl)
	h := NewHTTPHandler(NewService(repo))

	t.Run("created", func(t *testing.T) {
		repo.EXPECT().GetByEmail(gomock.Any(), "nadia@example.com").Return(User{}, ErrNotFound)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *User) error {
			u.ID = "user-9"
			return nil
		})

		body := `{"email":"nadia@example.com","username":"nadia","password":"Clean123!"}`
		w := httptest.NewRecorder()
		h.RegisterUser(w, httptest.NewRequest(http.MethodPost, "/v1/users/register", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"user-9"`)
		assert.Contains(t, w.Body.String(), `"name":"nadia"`)
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("created with profile", func(t *testing.T) {
		repo.EXPECT().GetByEmail(gomock.Any(), "tania@example.com").Return(User{}, ErrNotFound)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *User) error {
			assert.Equal(t, "Tania Akter", u.Name)
			assert.Equal(t, "https://img.example/tania.jpg", u.PhotoURL)
			u.ID = "user-10"
			return nil
		})

		body := `{"email":"tania@example.com","username":"tania","password":"Clean123!","name":"Tania Akter","photo_url":"https://img.example/tania.jpg"}`
		w := httptest.NewRecorder()
		h.RegisterUser(w, httptest.NewRequest(http.MethodPost, "/v1/users/register", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"Tania Akter"`)
		assert.Contains(t, w.Body.String(), `"photo_url":"https://img.example/tania.jpg"`)
	})

	t.Run("bad photo url", func(t *testing.T) {
		body := `{"email":"p@example.com","username":"pphoto","password":"Clean123!","photo_url":"nope"}`
		w := httptest.NewRecorder()
		h.RegisterUser(w, httptest.NewRequest(http.MethodPost, "/v1/users/register", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"photo_url"`)
	})

	t.Run("validation error", func(t *testing.T) {
		body := `{"email":"not-an-email","username":"n","password":"weak"}`
		w := httptest.NewRecorder()
		h.RegisterUser(w, httptest.NewRequest(http.MethodPost, "/v1/users/register", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("conflict", func(t *testing.T) {
		repo.EXPECT().GetByEmail(gomock.Any(), "dup@example.com").Return(User{ID: "user-1"}, nil)

		body := `{"email":"dup@example.com","username":"dupe","password":"Clean123!"}`
		w := httptest.NewRecorder()
		h.RegisterUser(w, httptest.NewRequest(http.MethodPost, "/v1/users/register", strings.NewReader(body)))

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestHTTPHandler_GetCurrentUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepository(ctrl)
	h := NewHTTPHandler(NewService(repo))

	t.Run("unauthenticated", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.GetCurrentUser(w, httptest.NewRequest(http.MethodGet, "/v1/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("returns profile", func(t *testing.T) {
		repo.EXPECT().GetByID(gomock.Any(), "user-1").Return(User{
			ID: "user-1", Email: "a@example.com", Username: "admin", Role: RoleAdmin,
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
		req = req.WithContext(httpx.ContextWithUser(req.Context(), "user-1", "ADMIN"))
		w := httptest.NewRecorder()
		h.GetCurrentUser(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"role":"ADMIN"`)
	})
}
