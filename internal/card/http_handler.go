package card

import (
	"errors"
	"net/http"
	"strconv"

	"ygodeck/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// List handles GET /v1/cards
// @Summary List cards
// @Description Search the card catalog with optional filters
// @Tags cards
// @Produce json
// @Param q query string false "Name or text search"
// @Param type query string false "Card type (snake_case)"
// @Param frame_type query string false "Frame type"
// @Param archetype query string false "Archetype"
// @Param ban query string false "TCG ban status"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /v1/cards [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := Query{
		Q:         query.Get("q"),
		Type:      CardType(query.Get("type")),
		FrameType: FrameType(query.Get("frame_type")),
		Archetype: query.Get("archetype"),
		Ban:       BanStatus(query.Get("ban")),
	}

	var details []httpx.ErrorDetail
	if params.Type != "" && !params.Type.Valid() {
		details = append(details, httpx.ErrorDetail{Field: "type", Message: "type is not a known card type"})
	}
	if params.FrameType != "" && !params.FrameType.Valid() {
		details = append(details, httpx.ErrorDetail{Field: "frame_type", Message: "frame_type is not a known frame type"})
	}
	switch params.Ban {
	case StatusUnrestricted, StatusBanned, StatusLimited, StatusSemiLimited:
	default:
		details = append(details, httpx.ErrorDetail{Field: "ban", Message: "ban must be Banned, Limited or Semi-Limited"})
	}
	if len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query", details)
		return
	}

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	params.Limit = pageSize
	params.Offset = (page - 1) * pageSize

	cards, total, err := h.service.List(r.Context(), params)
	if err != nil {
		httpx.InternalError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, cards, map[string]any{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": (total + pageSize - 1) / pageSize,
	})
}

// Get handles GET /v1/cards/{id}
// @Summary Get card
// @Description Get a card by its passcode
// @Tags cards
// @Produce json
// @Param id path string true "Card passcode"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/cards/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Card ID is required", nil)
		return
	}

	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
			return
		}
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, c, nil)
}
