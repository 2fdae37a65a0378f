package ingest

import (
	"context"

	"ygodeck/internal/card"
	"ygodeck/internal/platform/ygoprodeck"
)

type Repository interface {
	CreateRun(ctx context.Context, run *Run) (string, error)
	UpdateRun(ctx context.Context, run *Run) error
}

type CardSource interface {
	CardInfo(ctx context.Context) ([]ygoprodeck.CardData, error)
}

type CardWriter interface {
	UpsertMany(ctx context.Context, cards []card.Card) (int, error)
}

// CacheRefresher is satisfied by *card.Cache.
type CacheRefresher interface {
	Refresh(ctx context.Context) error
}
