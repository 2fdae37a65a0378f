package library

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"ygodeck/internal/card"
	"ygodeck/internal/httpx"
)

func init() {
	httpx.RegisterStringValidation("language", "%s must be one of en, de, fr, it, es, pt, jp, kr",
		func(s string) bool { return card.Language(s).Valid() })
	httpx.RegisterStringValidation("rarity", "%s is not a known rarity code",
		func(s string) bool { return card.RarityCode(s).Valid() })
}

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrIssueNotFound), errors.Is(err, card.ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, ErrVersionConflict):
		httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "Library entry was modified, please retry", nil)
	default:
		httpx.InternalError(w, r, err)
	}
}

// decode reads a JSON body into v and validates it. It writes the error response itself.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return false
	}
	if details := httpx.ValidateStruct(v); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return false
	}
	return true
}

// List handles GET /v1/library
// @Summary List library entries
// @Tags library
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/library [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), httpx.UserIDFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, items, map[string]any{"total": len(items)})
}

// Recent handles GET /v1/library/recent
// @Summary Recently updated library entries
// @Tags library
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/library/recent [get]
func (h *HTTPHandler) Recent(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Recent(r.Context(), httpx.UserIDFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, items, nil)
}

// Get handles GET /v1/library/{id}
// @Summary Get library entry
// @Tags library
// @Produce json
// @Security Bearer
// @Param id path string true "Entry ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/library/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.Get(r.Context(), httpx.UserIDFrom(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, item, nil)
}

type addReq struct {
	CardID string     `json:"cardId" validate:"required"`
	Issue  IssueInput `json:"issue"`
}

// AddCard handles POST /v1/library
// @Summary Add a printing to the library
// @Description Merges into an existing issue with the same language, rarity and set code
// @Tags library
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body addReq true "Card and issue"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /v1/library [post]
func (h *HTTPHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		writeError(w, r, ErrUnauthorized)
		return
	}
	var req addReq
	if !decode(w, r, &req) {
		return
	}
	added, err := h.service.AddCard(r.Context(), userID, req.CardID, req.Issue)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, added)
}

type idsReq struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

// RemoveEntries handles DELETE /v1/library
// @Summary Remove library entries
// @Tags library
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/library [delete]
func (h *HTTPHandler) RemoveEntries(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		writeError(w, r, ErrUnauthorized)
		return
	}
	var req idsReq
	if !decode(w, r, &req) {
		return
	}
	n, err := h.service.RemoveEntries(r.Context(), userID, req.IDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, map[string]int64{"removed": n}, nil)
}

type tradeableReq struct {
	IDs       []string `json:"ids" validate:"required,min=1,dive,uuid"`
	Tradeable bool     `json:"tradeable"`
}

// SetTradeable handles PATCH /v1/library/tradeable
// @Summary Mark entries as tradeable
// @Tags library
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/library/tradeable [patch]
func (h *HTTPHandler) SetTradeable(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		writeError(w, r, ErrUnauthorized)
		return
	}
	var req tradeableReq
	if !decode(w, r, &req) {
		return
	}
	n, err := h.service.SetTradeable(r.Context(), userID, req.IDs, req.Tradeable)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, map[string]int64{"updated": n}, nil)
}

// Check handles GET /v1/library/check?cardId=&quantity=
// @Summary Check owned copies of a card
// @Tags library
// @Produce json
// @Security Bearer
// @Param cardId query string true "Card passcode"
// @Param quantity query int false "Wanted copies" default(1)
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/library/check [get]
func (h *HTTPHandler) Check(w http.ResponseWriter, r *http.Request) {
	cardID := r.URL.Query().Get("cardId")
	if cardID == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", []httpx.ErrorDetail{
			{Field: "cardId", Message: "cardId is required"},
		})
		return
	}
	target := 1
	if q := r.URL.Query().Get("quantity"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", []httpx.ErrorDetail{
				{Field: "quantity", Message: "quantity must be a non-negative integer"},
			})
			return
		}
		target = n
	}
	res, err := h.service.CheckCard(r.Context(), httpx.UserIDFrom(r), cardID, target)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, res, nil)
}

type issueIDsReq struct {
	IssueIDs []string `json:"issueIds" validate:"required,min=1,dive,required"`
}

// RemoveIssues handles DELETE /v1/library/{id}/issues
// @Summary Remove issues from an entry
// @Description Deletes the entry when its last issue is removed
// @Tags library
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Entry ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/library/{id}/issues [delete]
func (h *HTTPHandler) RemoveIssues(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		writeError(w, r, ErrUnauthorized)
		return
	}
	var req issueIDsReq
	if !decode(w, r, &req) {
		return
	}
	res, err := h.service.RemoveIssues(r.Context(), userID, r.PathValue("id"), req.IssueIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, res, nil)
}

type issuesStatusReq struct {
	IssueIDs  []string `json:"issueIds" validate:"required,min=1,dive,required"`
	Tradeable bool     `json:"tradeable"`
}

// UpdateIssuesStatus handles PATCH /v1/library/{id}/issues
// @Summary Set the tradeable flag on issues
// @Tags library
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Entry ID"
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/library/{id}/issues [patch]
func (h *HTTPHandler) UpdateIssuesStatus(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		writeError(w, r, ErrUnauthorized)
		return
	}
	var req issuesStatusReq
	if !decode(w, r, &req) {
		return
	}
	e, err := h.service.UpdateIssuesStatus(r.Context(), userID, r.PathValue("id"), req.IssueIDs, req.Tradeable)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, e, nil)
}

type quantityReq struct {
	Quantity int `json:"quantity" validate:"min=1"`
}

// UpdateIssueQuantity handles PATCH /v1/library/{id}/issues/{issueId}
// @Summary Set an issue's quantity
// @Tags library
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Entry ID"
// @Param issueId path string true "Issue ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/library/{id}/issues/{issueId} [patch]
func (h *HTTPHandler) UpdateIssueQuantity(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		writeError(w, r, ErrUnauthorized)
		return
	}
	var req quantityReq
	if !decode(w, r, &req) {
		return
	}
	e, err := h.service.UpdateIssueQuantity(r.Context(), userID, r.PathValue("id"), r.PathValue("issueId"), req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, e, nil)
}
