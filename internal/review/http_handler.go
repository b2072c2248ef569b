package review

import (
	"errors"
	"net/http"
	"strconv"

	"homeservices/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// List handles GET /v1/reviews
// @Summary Latest client reviews
// @Tags reviews
// @Produce json
// @Param limit query int false "Max reviews" default(20)
// @Param cursor query string false "next_cursor of the previous page"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /v1/reviews [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	limit = ClampLimit(limit)

	page, err := h.service.List(r.Context(), query.Get("cursor"), limit)
	if err != nil {
		if errors.Is(err, ErrInvalidCursor) {
			httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_CURSOR", err.Error(), nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	meta := map[string]any{"limit": limit, "count": len(page.Reviews)}
	if page.NextCursor != "" {
		meta["next_cursor"] = page.NextCursor
	}
	httpx.JSONSuccess(w, r, page.Reviews, meta)
}

// Summary handles GET /v1/reviews/summary
// @Summary Average rating and star distribution
// @Tags reviews
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/reviews/summary [get]
func (h *HTTPHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, summary, nil)
}

// Create handles POST /v1/reviews
// @Summary Post a review
// @Description name and photo_url default to the author's profile
// @Tags reviews
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body Input true "Review"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /v1/reviews [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	var in Input
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(in); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	rev, err := h.service.Create(r.Context(), userID, in)
	if err != nil {
		if errors.Is(err, ErrUnknownAuthor) {
			httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccessCreated(w, r, rev)
}
