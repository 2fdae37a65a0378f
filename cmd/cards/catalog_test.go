package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ygodeck/internal/card"
)

func testCards(n int) []card.Card {
	out := make([]card.Card, n)
	for i := range out {
		out[i] = card.Card{ID: string(rune('a' + i)), Name: "Card", Type: card.TypeNormalMonster, FrameType: card.FrameNormal}
	}
	return out
}

func TestReadCatalog(t *testing.T) {
	t.Run("roundtrip with writeCatalog", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeCatalog(&buf, testCards(2)))

		got, err := readCatalog(&buf)
		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, "b", got[1].ID)
	})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"not json", `{`, "decode catalog"},
		{"missing name", `[{"id":"1","type":"normal_monster","frameType":"normal"}]`, "id and name are required"},
		{"bad type", `[{"id":"1","name":"X","type":"boss","frameType":"normal"}]`, `unknown type "boss"`},
		{"bad frame", `[{"id":"1","name":"X","type":"normal_monster","frameType":"gold"}]`, `unknown frame type "gold"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readCatalog(strings.NewReader(tt.in))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestImportCatalog_Batches(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := card.NewMockRepository(ctrl)
	ctx := context.Background()
	cards := testCards(5)

	gomock.InOrder(
		repo.EXPECT().UpsertMany(ctx, cards[0:2]).Return(2, nil),
		repo.EXPECT().UpsertMany(ctx, cards[2:4]).Return(2, nil),
		repo.EXPECT().UpsertMany(ctx, cards[4:5]).Return(1, nil),
	)

	n, err := importCatalog(ctx, repo, cards, 2, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestImportCatalog_StopsOnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := card.NewMockRepository(ctrl)
	ctx := context.Background()
	cards := testCards(4)

	gomock.InOrder(
		repo.EXPECT().UpsertMany(ctx, cards[0:2]).Return(2, nil),
		repo.EXPECT().UpsertMany(ctx, cards[2:4]).Return(0, errors.New("deadlock")),
	)

	n, err := importCatalog(ctx, repo, cards, 2, zap.NewNop())
	assert.EqualError(t, err, "upsert cards 2-4: deadlock")
	assert.Equal(t, 2, n)
}
