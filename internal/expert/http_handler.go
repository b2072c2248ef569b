package expert

import (
	"net/http"

	"homeservices/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// List handles GET /v1/experts
// @Summary Featured experts
// @Tags experts
// @Produce json
// @Param category query string false "Only experts in this category"
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/experts [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	experts, err := h.service.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, experts, map[string]any{"count": len(experts)})
}
