package deck

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ygodeck/internal/card"
	"ygodeck/internal/httpx"
)

func authed(r *http.Request) *http.Request {
	return r.WithContext(httpx.ContextWithUser(r.Context(), testUserID, "user"))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httpx.ErrorResponse {
	t.Helper()
	var body httpx.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestHTTPHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		d := newServiceDeps(t)
		handler := NewHTTPHandler(d.svc)
		main, cat := fillMain(40)
		d.cards.EXPECT().GetMany(gomock.Any(), gomock.Any()).Return(cat, nil)
		d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		payload, _ := json.Marshal(Input{Title: "  Forty  ", Type: TypeRamp, Main: main})
		w := httptest.NewRecorder()
		r := authed(httptest.NewRequest(http.MethodPost, "/v1/decks", bytes.NewReader(payload)))

		handler.Create(w, r)

		require.Equal(t, http.StatusCreated, w.Code)
		var body struct {
			Data savedResponse `json:"data"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "forty", body.Data.Deck.Slug)
		assert.True(t, body.Data.Report.Valid)
		assert.Empty(t, body.Data.Warning)
	})

	t.Run("validation error", func(t *testing.T) {
		d := newServiceDeps(t)
		handler := NewHTTPHandler(d.svc)

		w := httptest.NewRecorder()
		r := authed(httptest.NewRequest(http.MethodPost, "/v1/decks", strings.NewReader(`{"title":"x","type":"tempo"}`)))

		handler.Create(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
		require.NotEmpty(t, body.Error.Details)
		assert.Equal(t, "type", body.Error.Details[0].Field)
	})

	t.Run("unauthorized", func(t *testing.T) {
		d := newServiceDeps(t)
		handler := NewHTTPHandler(d.svc)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/decks", strings.NewReader(`{}`))

		handler.Create(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHTTPHandler_Get(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		d := newServiceDeps(t)
		handler := NewHTTPHandler(d.svc)
		d.repo.EXPECT().GetByID(gomock.Any(), testDeckID).Return(Deck{}, ErrNotFound)

		w := httptest.NewRecorder()
		r := authed(httptest.NewRequest(http.MethodGet, "/v1/decks/"+testDeckID, nil))
		r.SetPathValue("id", testDeckID)

		handler.Get(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "NOT_FOUND", decodeError(t, w).Error.Code)
	})

	t.Run("internal error", func(t *testing.T) {
		d := newServiceDeps(t)
		handler := NewHTTPHandler(d.svc)
		d.repo.EXPECT().GetByID(gomock.Any(), testDeckID).Return(Deck{}, context.DeadlineExceeded)

		w := httptest.NewRecorder()
		r := authed(httptest.NewRequest(http.MethodGet, "/v1/decks/"+testDeckID, nil))
		r.SetPathValue("id", testDeckID)

		handler.Get(w, r)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHTTPHandler_AddCard(t *testing.T) {
	pot := card.Card{ID: "55144522", Name: "Pot of Greed", Type: card.TypeSpellCard,
		Banlist: &card.BanlistInfo{TCG: card.StatusBanned}}

	t.Run("banned card", func(t *testing.T) {
		d := newServiceDeps(t)
		handler := NewHTTPHandler(d.svc)
		d.repo.EXPECT().GetByID(gomock.Any(), testDeckID).Return(storedDeck(nil), nil)
		d.cards.EXPECT().Get(gomock.Any(), pot.ID).Return(pot, nil)

		w := httptest.NewRecorder()
		r := authed(httptest.NewRequest(http.MethodPost, "/v1/decks/"+testDeckID+"/cards",
			strings.NewReader(`{"cardId":"55144522","zone":"main"}`)))
		r.SetPathValue("id", testDeckID)

		handler.AddCard(w, r)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "DECK_RULE", decodeError(t, w).Error.Code)
	})

	t.Run("bad zone", func(t *testing.T) {
		d := newServiceDeps(t)
		handler := NewHTTPHandler(d.svc)

		w := httptest.NewRecorder()
		r := authed(httptest.NewRequest(http.MethodPost, "/v1/decks/"+testDeckID+"/cards",
			strings.NewReader(`{"cardId":"55144522","zone":"hand"}`)))
		r.SetPathValue("id", testDeckID)

		handler.AddCard(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("zone is read from the zone key", func(t *testing.T) {
		d := newServiceDeps(t)
		handler := NewHTTPHandler(d.svc)

		w := httptest.NewRecorder()
		r := authed(httptest.NewRequest(http.MethodPost, "/v1/decks/"+testDeckID+"/cards",
			strings.NewReader(`{"cardId":"55144522","cardType":"main"}`)))
		r.SetPathValue("id", testDeckID)

		handler.AddCard(w, r)

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "zone", resp.Error.Details[0].Field)
	})
}

func TestHTTPHandler_RemoveCard(t *testing.T) {
	d := newServiceDeps(t)
	handler := NewHTTPHandler(d.svc)
	d.repo.EXPECT().GetByID(gomock.Any(), testDeckID).Return(storedDeck(nil), nil)

	w := httptest.NewRecorder()
	r := authed(httptest.NewRequest(http.MethodDelete, "/v1/decks/"+testDeckID+"/cards/1?zone=side", nil))
	r.SetPathValue("id", testDeckID)
	r.SetPathValue("cardId", "1")

	handler.RemoveCard(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHTTPHandler_Delete(t *testing.T) {
	d := newServiceDeps(t)
	handler := NewHTTPHandler(d.svc)
	d.repo.EXPECT().GetByID(gomock.Any(), testDeckID).Return(storedDeck(nil), nil)
	d.repo.EXPECT().Delete(gomock.Any(), testUserID, testDeckID).Return(nil)

	w := httptest.NewRecorder()
	r := authed(httptest.NewRequest(http.MethodDelete, "/v1/decks/"+testDeckID, nil))
	r.SetPathValue("id", testDeckID)

	handler.Delete(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHTTPHandler_Export(t *testing.T) {
	d := newServiceDeps(t)
	handler := NewHTTPHandler(d.svc)
	d.repo.EXPECT().GetByID(gomock.Any(), testDeckID).Return(storedDeck([]CardRef{{ID: "1", Quantity: 1}}), nil)

	w := httptest.NewRecorder()
	r := authed(httptest.NewRequest(http.MethodGet, "/v1/decks/"+testDeckID+"/export", nil))
	r.SetPathValue("id", testDeckID)

	handler.Export(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="blue-eyes.ydk"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "#main\n1\n")
}

func TestHTTPHandler_Import(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		d := newServiceDeps(t)
		handler := NewHTTPHandler(d.svc)
		d.cards.EXPECT().GetMany(gomock.Any(), []string{"1"}).Return(map[string]card.Card{"1": {ID: "1"}}, nil)

		w := httptest.NewRecorder()
		r := authed(httptest.NewRequest(http.MethodPost, "/v1/decks/import", strings.NewReader("#main\n1\n1\n")))

		handler.Import(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Data ImportResult `json:"data"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, []CardRef{{ID: "1", Quantity: 2}}, body.Data.Lists.Main)
	})

	t.Run("too large", func(t *testing.T) {
		d := newServiceDeps(t)
		handler := NewHTTPHandler(d.svc)

		w := httptest.NewRecorder()
		big := strings.Repeat("89631139\n", maxImportBytes/9+10)
		r := authed(httptest.NewRequest(http.MethodPost, "/v1/decks/import", strings.NewReader(big)))

		handler.Import(w, r)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}
