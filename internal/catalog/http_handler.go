package catalog

import (
	"errors"
	"net/http"

	"homeservices/internal/httpx"
	"homeservices/internal/pricing"

	"github.com/google/uuid"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// List handles GET /v1/services
// @Summary Browse the service catalog
// @Description Filtered, grouped and priced listing for the storefront
// @Tags services
// @Produce json
// @Param q query string false "Case-insensitive title search"
// @Param category query string false "Category filter, All for every category"
// @Param period query string false "monthly or yearly" default(monthly)
// @Param sort query string false "Price sort, asc or desc"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /v1/services [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := BrowseQuery{
		Search:   query.Get("q"),
		Category: query.Get("category"),
		Period:   pricing.ParsePeriod(query.Get("period")),
		Sort:     ParseSortOrder(query.Get("sort")),
	}

	view, err := h.svc.Browse(r.Context(), q)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadGateway, "CATALOG_UNAVAILABLE", "Catalog is unavailable", nil)
		return
	}

	httpx.JSONSuccess(w, r, view, map[string]any{
		"total":  view.Total,
		"period": view.Period,
	})
}

// Categories handles GET /v1/services/categories
// @Summary List category tabs
// @Tags services
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/services/categories [get]
func (h *HTTPHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadGateway, "CATALOG_UNAVAILABLE", "Catalog is unavailable", nil)
		return
	}
	httpx.JSONSuccess(w, r, categories, nil)
}

func serviceID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Service not found", nil)
		return "", false
	}
	return id, true
}

func (h *HTTPHandler) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNotFound) {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Service not found", nil)
		return
	}
	httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
}

// GetByID handles GET /v1/services/{id}
// @Summary Get one priced service
// @Tags services
// @Produce json
// @Param id path string true "Service ID"
// @Param period query string false "monthly or yearly"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/services/{id} [get]
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := serviceID(w, r)
	if !ok {
		return
	}

	rec, err := h.svc.Get(r.Context(), id, pricing.ParsePeriod(r.URL.Query().Get("period")))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, rec, nil)
}

func decodeInput(w http.ResponseWriter, r *http.Request) (Input, bool) {
	var in Input
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return Input{}, false
	}
	if details := httpx.ValidateStruct(in); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return Input{}, false
	}
	return in, true
}

// Create handles POST /v1/services
// @Summary Add a service listing
// @Tags services
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body Input true "Service"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Router /v1/services [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	rec, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, rec)
}

// Update handles PUT /v1/services/{id}
// @Summary Replace a service listing
// @Tags services
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Service ID"
// @Param request body Input true "Service"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/services/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := serviceID(w, r)
	if !ok {
		return
	}
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	rec, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, rec, nil)
}

// Delete handles DELETE /v1/services/{id}
// @Summary Remove a service listing
// @Tags services
// @Security Bearer
// @Param id path string true "Service ID"
// @Success 204 "No Content"
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/services/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := serviceID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.writeErr(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}
