package ingest

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"homeservices/internal/httpx"
)

type HTTPHandler struct {
	svc    *Service
	secret string
}

func NewHTTPHandler(svc *Service, secret string) *HTTPHandler {
	return &HTTPHandler{svc: svc, secret: secret}
}

func (h *HTTPHandler) authorized(r *http.Request) bool {
	if h.secret == "" {
		return false
	}
	got := r.Header.Get("X-Internal-Secret")
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) == 1
}

// Sync handles POST /internal/jobs/sync
// @Summary Mirror the upstream service catalog
// @Tags internal
// @Produce json
// @Param X-Internal-Secret header string true "Internal secret"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /internal/jobs/sync [post]
func (h *HTTPHandler) Sync(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid internal secret", nil)
		return
	}

	run, err := h.svc.Run(r.Context())
	if err != nil {
		if errors.Is(err, ErrAlreadyRunning) {
			httpx.JSONError(w, r, http.StatusConflict, "SYNC_RUNNING", err.Error(), nil)
			return
		}
		httpx.JSONError(w, r, http.StatusBadGateway, "SYNC_FAILED", err.Error(), nil)
		return
	}

	httpx.JSONSuccess(w, r, run, nil)
}

// Latest handles GET /internal/jobs/sync/latest
// @Summary Most recent sync run
// @Tags internal
// @Produce json
// @Param X-Internal-Secret header string true "Internal secret"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /internal/jobs/sync/latest [get]
func (h *HTTPHandler) Latest(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid internal secret", nil)
		return
	}

	run, err := h.svc.LatestRun(r.Context())
	if err != nil {
		if errors.Is(err, ErrNoRuns) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, run, nil)
}
