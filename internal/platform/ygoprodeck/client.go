// Package ygoprodeck fetches the public card database from db.ygoprodeck.com.
package ygoprodeck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://db.ygoprodeck.com/api/v7"

var ErrUnexpectedStatus = errors.New("unexpected status code")

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.httpClient = hc } }

// WithBackoff sets the first retry delay; later retries double it.
func WithBackoff(d time.Duration) Option { return func(c *Client) { c.backoff = d } }

func NewClient(baseURL, userAgent string, rps float64, maxRetries int, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		userAgent:  userAgent,
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		maxRetries: maxRetries,
		backoff:    time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CardSet matches card_sets entries of cardinfo.php.
type CardSet struct {
	SetName       string `json:"set_name"`
	SetCode       string `json:"set_code"`
	SetRarity     string `json:"set_rarity"`
	SetRarityCode string `json:"set_rarity_code"`
	SetPrice      string `json:"set_price"`
}

type CardImage struct {
	ID              int    `json:"id"`
	ImageURL        string `json:"image_url"`
	ImageURLSmall   string `json:"image_url_small"`
	ImageURLCropped string `json:"image_url_cropped"`
}

type CardPrice struct {
	CardmarketPrice   string `json:"cardmarket_price"`
	TCGPlayerPrice    string `json:"tcgplayer_price"`
	EbayPrice         string `json:"ebay_price"`
	AmazonPrice       string `json:"amazon_price"`
	CoolStuffIncPrice string `json:"coolstuffinc_price"`
}

type BanlistInfo struct {
	BanTCG  string `json:"ban_tcg"`
	BanOCG  string `json:"ban_ocg"`
	BanGoat string `json:"ban_goat"`
}

// CardData is one element of the cardinfo.php data array.
type CardData struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Type        string       `json:"type"`
	FrameType   string       `json:"frameType"`
	Desc        string       `json:"desc"`
	Atk         *int         `json:"atk"`
	Def         *int         `json:"def"`
	Level       *int         `json:"level"`
	Scale       *int         `json:"scale"`
	LinkVal     *int         `json:"linkval"`
	LinkMarkers []string     `json:"linkmarkers"`
	Race        string       `json:"race"`
	Attribute   string       `json:"attribute"`
	Archetype   string       `json:"archetype"`
	CardSets    []CardSet    `json:"card_sets"`
	CardImages  []CardImage  `json:"card_images"`
	CardPrices  []CardPrice  `json:"card_prices"`
	BanlistInfo *BanlistInfo `json:"banlist_info"`
}

type cardInfoResponse struct {
	Data []CardData `json:"data"`
}

// CardInfo downloads the full card list.
func (c *Client) CardInfo(ctx context.Context) ([]CardData, error) {
	var res cardInfoResponse
	if err := c.get(ctx, c.baseURL+"/cardinfo.php", &res); err != nil {
		return nil, fmt.Errorf("fetch cardinfo: %w", err)
	}
	return res.Data, nil
}

// get retries transport errors, 429 and 5xx with exponential backoff.
func (c *Client) get(ctx context.Context, url string, target any) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			backoff := c.backoff * time.Duration(1<<uint(i-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		retry, err := c.do(ctx, url, target)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) do(ctx context.Context, url string, target any) (retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
		return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500, err
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return false, nil
}
