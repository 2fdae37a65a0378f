package card

import (
	"context"
)

// Service provides catalog lookups. Single-card reads go through the cache,
// filtered listings go to the repository.
type Service struct {
	repo  Repository
	cache *Cache
}

func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// List returns a page of cards matching the query and the total match count.
func (s *Service) List(ctx context.Context, q Query) ([]Card, int, error) {
	return s.repo.List(ctx, q)
}

// Get returns a card by its passcode.
func (s *Service) Get(ctx context.Context, id string) (Card, error) {
	return s.cache.Get(ctx, id)
}
