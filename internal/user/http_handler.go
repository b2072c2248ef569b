package user

import (
	"errors"
	"net/http"

	"homeservices/internal/httpx"
	"homeservices/internal/platform/crypto"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type registerReq struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,password_strength"`
	Name     string `json:"name" validate:"omitempty,max=100"`
	PhotoURL string `json:"photo_url" validate:"omitempty,url,max=500"`
}

type userResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url,omitempty"`
	Role     Role   `json:"role"`
}

func toResponse(u User) userResponse {
	return userResponse{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		Name:     u.DisplayName(),
		PhotoURL: u.PhotoURL,
		Role:     u.Role,
	}
}

// RegisterUser handles POST /v1/users/register
// @Summary Register a new customer
// @Tags users
// @Accept json
// @Produce json
// @Param request body registerReq true "Registration request"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /v1/users/register [post]
func (h *HTTPHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	u, err := h.service.Register(r.Context(), req.Email, req.Username, req.Password,
		Profile{Name: req.Name, PhotoURL: req.PhotoURL})
	switch {
	case err == nil:
	case errors.Is(err, ErrAlreadyExists):
		httpx.JSONError(w, r, http.StatusConflict, "ALREADY_EXISTS", "Email already exists", nil)
		return
	case errors.Is(err, crypto.ErrPasswordTooShort), errors.Is(err, crypto.ErrPasswordNoUpper),
		errors.Is(err, crypto.ErrPasswordNoLower), errors.Is(err, crypto.ErrPasswordNoNumber),
		errors.Is(err, crypto.ErrPasswordNoSpecialChar):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input",
			[]httpx.ErrorDetail{{Field: "password", Message: err.Error()}})
		return
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccessCreated(w, r, toResponse(u))
}

// GetCurrentUser handles GET /v1/me
// @Summary Get current user
// @Tags users
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /v1/me [get]
func (h *HTTPHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	u, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	httpx.JSONSuccess(w, r, toResponse(u), nil)
}
