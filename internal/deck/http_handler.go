package deck

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"ygodeck/internal/card"
	"ygodeck/internal/httpx"
)

const maxImportBytes = 64 << 10

func init() {
	httpx.RegisterStringValidation("deck_type", "%s must be one of midrange, control, combo, aggro, ramp, burn, mill",
		func(s string) bool { return DeckType(s).Valid() })
	httpx.RegisterStringValidation("zone", "%s must be one of main, extra, side",
		func(s string) bool { return Zone(s).Valid() })
}

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type savedResponse struct {
	Deck    Deck   `json:"deck"`
	Report  Report `json:"report"`
	Warning string `json:"warning,omitempty"`
}

func saved(d Deck, rep Report) savedResponse {
	return savedResponse{Deck: d, Report: rep, Warning: rep.Warning()}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
	case errors.Is(err, ErrDeckIDRequired):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Deck ID is required", nil)
	case errors.Is(err, ErrNotFound), errors.Is(err, card.ErrNotFound), errors.Is(err, ErrNotInZone):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, ErrBanned), errors.Is(err, ErrCopyLimitReached),
		errors.Is(err, ErrWrongZone), errors.Is(err, ErrZoneFull):
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "DECK_RULE", err.Error(), nil)
	default:
		httpx.InternalError(w, r, err)
	}
}

func decodeInput(w http.ResponseWriter, r *http.Request) (Input, bool) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return Input{}, false
	}
	in.Title = strings.TrimSpace(in.Title)
	if details := httpx.ValidateStruct(in); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return Input{}, false
	}
	return in, true
}

// List handles GET /v1/decks
// @Summary List decks
// @Tags decks
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /v1/decks [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	decks, err := h.service.List(r.Context(), httpx.UserIDFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, decks, map[string]any{"total": len(decks)})
}

// Get handles GET /v1/decks/{id}
// @Summary Get deck
// @Tags decks
// @Produce json
// @Security Bearer
// @Param id path string true "Deck ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/decks/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Get(r.Context(), httpx.UserIDFrom(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, d, nil)
}

// Create handles POST /v1/decks
// @Summary Create deck
// @Description Validity is computed by the server; a client-supplied valid flag is ignored
// @Tags decks
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body Input true "Deck"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /v1/decks [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		writeError(w, r, ErrUnauthorized)
		return
	}
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	d, rep, err := h.service.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, saved(d, rep))
}

// Update handles PUT /v1/decks/{id}
// @Summary Update deck
// @Tags decks
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Deck ID"
// @Param request body Input true "Deck"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/decks/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		writeError(w, r, ErrUnauthorized)
		return
	}
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	d, rep, err := h.service.Update(r.Context(), userID, r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, saved(d, rep), nil)
}

// Delete handles DELETE /v1/decks/{id}
// @Summary Delete deck
// @Tags decks
// @Security Bearer
// @Param id path string true "Deck ID"
// @Success 204 "No Content"
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/decks/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), httpx.UserIDFrom(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

type cardReq struct {
	CardID string `json:"cardId" validate:"required"`
	Zone   Zone   `json:"zone" validate:"required,zone"`
}

// AddCard handles POST /v1/decks/{id}/cards
// @Summary Add one copy of a card
// @Tags decks
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Deck ID"
// @Param request body cardReq true "Card and zone"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Router /v1/decks/{id}/cards [post]
func (h *HTTPHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		writeError(w, r, ErrUnauthorized)
		return
	}
	var req cardReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}
	d, rep, err := h.service.AddCard(r.Context(), userID, r.PathValue("id"), req.CardID, req.Zone)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, saved(d, rep), nil)
}

// RemoveCard handles DELETE /v1/decks/{id}/cards/{cardId}?zone=main
// @Summary Remove one copy of a card
// @Tags decks
// @Produce json
// @Security Bearer
// @Param id path string true "Deck ID"
// @Param cardId path string true "Card passcode"
// @Param zone query string true "main, extra or side"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/decks/{id}/cards/{cardId} [delete]
func (h *HTTPHandler) RemoveCard(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		writeError(w, r, ErrUnauthorized)
		return
	}
	zone := Zone(r.URL.Query().Get("zone"))
	if !zone.Valid() {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", []httpx.ErrorDetail{
			{Field: "zone", Message: "zone must be one of main, extra, side"},
		})
		return
	}
	d, rep, err := h.service.RemoveCard(r.Context(), userID, r.PathValue("id"), r.PathValue("cardId"), zone)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, saved(d, rep), nil)
}

type checkReq struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        DeckType `json:"type"`
	Lists
}

// Check handles POST /v1/decks/check
// @Summary Check unsaved lists
// @Description Returns the validation report, zone prices and library ownership per card
// @Tags decks
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /v1/decks/check [post]
func (h *HTTPHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		writeError(w, r, ErrUnauthorized)
		return
	}
	var req checkReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req.Lists); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}
	meta := Meta{Title: req.Title, Slug: Slugify(req.Title), Description: req.Description, Type: req.Type}
	res, err := h.service.Check(r.Context(), userID, meta, req.Lists)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, res, nil)
}

// Export handles GET /v1/decks/{id}/export
// @Summary Export deck as .ydk
// @Tags decks
// @Produce plain
// @Security Bearer
// @Param id path string true "Deck ID"
// @Success 200 {string} string
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/decks/{id}/export [get]
func (h *HTTPHandler) Export(w http.ResponseWriter, r *http.Request) {
	d, body, err := h.service.Export(r.Context(), httpx.UserIDFrom(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	name := d.Slug
	if name == "" {
		name = "deck"
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`.ydk"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// Import handles POST /v1/decks/import
// @Summary Parse a .ydk file
// @Description Parses the body into deck lists without saving; unknown passcodes are reported as warnings
// @Tags decks
// @Accept plain
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /v1/decks/import [post]
func (h *HTTPHandler) Import(w http.ResponseWriter, r *http.Request) {
	if httpx.UserIDFrom(r) == "" {
		writeError(w, r, ErrUnauthorized)
		return
	}
	res, err := h.service.Import(r.Context(), http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "TOO_LARGE", "Deck file too large", nil)
			return
		}
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, res, nil)
}
