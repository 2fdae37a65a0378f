package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"ygodeck/internal/card"
)

type catalogWriter interface {
	UpsertMany(ctx context.Context, cards []card.Card) (int, error)
}

// readCatalog decodes a JSON array of cards as written by writeCatalog.
func readCatalog(r io.Reader) ([]card.Card, error) {
	var cards []card.Card
	if err := json.NewDecoder(r).Decode(&cards); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for i, c := range cards {
		switch {
		case c.ID == "" || c.Name == "":
			return nil, fmt.Errorf("card #%d: id and name are required", i)
		case !c.Type.Valid():
			return nil, fmt.Errorf("card %s: unknown type %q", c.ID, c.Type)
		case !c.FrameType.Valid():
			return nil, fmt.Errorf("card %s: unknown frame type %q", c.ID, c.FrameType)
		}
	}
	return cards, nil
}

func writeCatalog(w io.Writer, cards []card.Card) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cards)
}

// importCatalog upserts cards in batches and returns how many were written.
func importCatalog(ctx context.Context, dst catalogWriter, cards []card.Card, batchSize int, log *zap.Logger) (int, error) {
	if batchSize <= 0 {
		batchSize = len(cards)
	}
	total := 0
	for start := 0; start < len(cards); start += batchSize {
		end := min(start+batchSize, len(cards))
		n, err := dst.UpsertMany(ctx, cards[start:end])
		total += n
		if err != nil {
			return total, fmt.Errorf("upsert cards %d-%d: %w", start, end, err)
		}
		log.Debug("catalog batch written", zap.Int("from", start), zap.Int("to", end))
	}
	return total, nil
}
