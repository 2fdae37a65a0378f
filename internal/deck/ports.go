package deck

import (
	"context"

	"ygodeck/internal/card"
	"ygodeck/internal/library"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=deck

// Repository defines the contract for deck storage.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]Deck, error)
	GetByID(ctx context.Context, id string) (Deck, error)
	Create(ctx context.Context, d *Deck) error
	Update(ctx context.Context, d *Deck) error
	Delete(ctx context.Context, userID, id string) error
}

// CardSource resolves catalog cards. Satisfied by *card.Cache.
type CardSource interface {
	Get(ctx context.Context, id string) (card.Card, error)
	GetMany(ctx context.Context, ids []string) (map[string]card.Card, error)
}

// LibraryChecker reports how many copies of each card a user owns.
type LibraryChecker interface {
	CheckMany(ctx context.Context, userID string, targets map[string]int) (map[string]library.Check, error)
}
