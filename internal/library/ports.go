package library

import (
	"context"
	"time"

	"ygodeck/internal/card"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=library

// Repository defines the contract for library storage. UpdateIssues and Delete
// only apply when the entry still has the given version.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]Entry, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]Entry, error)
	GetByID(ctx context.Context, id string) (Entry, error)
	GetByUserAndCard(ctx context.Context, userID, cardID string) (Entry, error)
	Create(ctx context.Context, e *Entry) error
	UpdateIssues(ctx context.Context, e *Entry) error
	SetTradeable(ctx context.Context, userID string, ids []string, tradeable bool, now time.Time) (int64, error)
	Delete(ctx context.Context, id string, version int) error
	DeleteMany(ctx context.Context, userID string, ids []string) (int64, error)
}

// CardSource resolves catalog cards. Satisfied by *card.Cache.
type CardSource interface {
	Get(ctx context.Context, id string) (card.Card, error)
	GetMany(ctx context.Context, ids []string) (map[string]card.Card, error)
}
