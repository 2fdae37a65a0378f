package ingest

import (
	"net/http"
	"time"

	"ygodeck/internal/httpx"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// SyncCards handles POST /internal/jobs/sync-cards
// @Summary Trigger catalog sync
// @Description Pull the card database from YGOPRODeck and upsert it into the catalog
// @Tags internal
// @Produce json
// @Param X-Internal-Secret header string true "Internal secret for authentication"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /internal/jobs/sync-cards [post]
func (h *HTTPHandler) SyncCards(w http.ResponseWriter, r *http.Request) {
	// A full sync outlives the server write timeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	run, err := h.svc.Run(r.Context())
	if err != nil {
		if run.ID == "" {
			httpx.InternalError(w, r, err)
			return
		}
		httpx.JSONError(w, r, http.StatusBadGateway, "SYNC_FAILED", err.Error(), nil)
		return
	}

	httpx.JSONSuccess(w, r, run, nil)
}
