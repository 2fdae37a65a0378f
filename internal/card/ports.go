package card

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=card

// Repository defines the contract for catalog storage.
type Repository interface {
	All(ctx context.Context) ([]Card, error)
	GetByID(ctx context.Context, id string) (Card, error)
	List(ctx context.Context, q Query) ([]Card, int, error)
	UpsertMany(ctx context.Context, cards []Card) (int, error)
	Count(ctx context.Context) (int, error)
}
