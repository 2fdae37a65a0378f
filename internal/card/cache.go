package card

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Cache keeps the whole catalog in memory. It is safe for concurrent use.
// A zero ttl disables expiry; the catalog then only reloads on Refresh.
type Cache struct {
	repo   Repository
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	group singleflight.Group

	mu       sync.RWMutex
	byID     map[string]Card
	all      []Card
	loadedAt time.Time
}

func NewCache(repo Repository, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{repo: repo, ttl: ttl, logger: logger, now: time.Now}
}

type snapshot struct {
	byID map[string]Card
	all  []Card
}

func (c *Cache) fresh() (snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.byID == nil {
		return snapshot{}, false
	}
	if c.ttl > 0 && c.now().Sub(c.loadedAt) >= c.ttl {
		return snapshot{}, false
	}
	return snapshot{byID: c.byID, all: c.all}, true
}

func (c *Cache) load(ctx context.Context) (snapshot, error) {
	if s, ok := c.fresh(); ok {
		return s, nil
	}
	v, err, shared := c.group.Do("catalog", func() (any, error) {
		if s, ok := c.fresh(); ok {
			return s, nil
		}
		cards, err := c.repo.All(ctx)
		if err != nil {
			return snapshot{}, err
		}
		byID := make(map[string]Card, len(cards))
		for _, card := range cards {
			byID[card.ID] = card
		}
		c.mu.Lock()
		c.byID = byID
		c.all = cards
		c.loadedAt = c.now()
		c.mu.Unlock()
		c.logger.Info("card catalog loaded", zap.Int("cards", len(cards)))
		return snapshot{byID: byID, all: cards}, nil
	})
	if err != nil {
		return snapshot{}, fmt.Errorf("load card catalog: %w", err)
	}
	if shared {
		c.logger.Debug("card catalog load shared")
	}
	return v.(snapshot), nil
}

// Get returns a single card; the error wraps ErrNotFound when the id is unknown.
func (c *Cache) Get(ctx context.Context, id string) (Card, error) {
	s, err := c.load(ctx)
	if err != nil {
		return Card{}, err
	}
	card, ok := s.byID[id]
	if !ok {
		return Card{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return card, nil
}

// GetMany resolves ids that exist in the catalog. Unknown ids are absent from the result.
func (c *Cache) GetMany(ctx context.Context, ids []string) (map[string]Card, error) {
	s, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Card, len(ids))
	for _, id := range ids {
		if card, ok := s.byID[id]; ok {
			out[id] = card
		}
	}
	return out, nil
}

func (c *Cache) All(ctx context.Context) ([]Card, error) {
	s, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return s.all, nil
}

// Refresh drops the current snapshot and loads it again.
func (c *Cache) Refresh(ctx context.Context) error {
	c.Invalidate()
	_, err := c.load(ctx)
	return err
}

func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.byID = nil
	c.all = nil
	c.loadedAt = time.Time{}
	c.mu.Unlock()
}
