package ygoprodeck

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cardInfoBody = `{"data":[{"id":89631139,"name":"Blue-Eyes White Dragon","type":"Normal Monster",
"frameType":"normal","desc":"This legendary dragon...","atk":3000,"def":2500,"level":8,
"race":"Dragon","attribute":"LIGHT","card_sets":[{"set_name":"Legend of Blue Eyes White Dragon",
"set_code":"LOB-001","set_rarity":"Ultra Rare","set_rarity_code":"(UR)","set_price":"120.5"}],
"card_images":[{"id":89631139,"image_url":"https://images.ygoprodeck.com/images/cards/89631139.jpg"}],
"card_prices":[{"cardmarket_price":"0.12","tcgplayer_price":"0.20"}]}]}`

func newTestClient(url string) *Client {
	return NewClient(url, "ygodeck-test", 1000, 2, WithBackoff(time.Millisecond))
}

func TestClient_CardInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cardinfo.php", r.URL.Path)
		assert.Equal(t, "ygodeck-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(cardInfoBody))
	}))
	defer srv.Close()

	cards, err := newTestClient(srv.URL + "/").CardInfo(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 1)
	c := cards[0]
	assert.Equal(t, 89631139, c.ID)
	assert.Equal(t, "Normal Monster", c.Type)
	require.NotNil(t, c.Atk)
	assert.Equal(t, 3000, *c.Atk)
	assert.Nil(t, c.LinkVal)
	assert.Equal(t, "LOB-001", c.CardSets[0].SetCode)
	assert.Equal(t, "0.12", c.CardPrices[0].CardmarketPrice)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	cards, err := newTestClient(srv.URL).CardInfo(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cards)
	assert.EqualValues(t, 3, calls.Load())
}

func TestClient_GivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CardInfo(context.Background())
	assert.True(t, errors.Is(err, ErrUnexpectedStatus))
	assert.ErrorContains(t, err, "after 2 retries")
	assert.EqualValues(t, 3, calls.Load())
}

func TestClient_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CardInfo(context.Background())
	assert.ErrorContains(t, err, "unexpected status code: 400")
	assert.EqualValues(t, 1, calls.Load())
}

func TestClient_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(srv.URL, "t", 1000, 5, WithBackoff(time.Hour)).CardInfo(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
