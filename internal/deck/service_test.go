package deck

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ygodeck/internal/card"
	"ygodeck/internal/library"
)

const (
	testUserID = "user-1"
	testDeckID = "6f1c2a52-2c3f-4a7e-9d7a-0d1f6b1c9e01"
)

type serviceDeps struct {
	repo    *MockRepository
	cards   *MockCardSource
	library *MockLibraryChecker
	svc     *Service
}

func newServiceDeps(t *testing.T) serviceDeps {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	d := serviceDeps{
		repo:    NewMockRepository(ctrl),
		cards:   NewMockCardSource(ctrl),
		library: NewMockLibraryChecker(ctrl),
	}
	d.svc = NewService(d.repo, d.cards, d.library, nil)
	return d
}

func storedDeck(main []CardRef) Deck {
	return Deck{ID: testDeckID, UserID: testUserID, Title: "Blue-Eyes", Slug: "blue-eyes", Type: TypeAggro, Main: main}
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("unauthorized", func(t *testing.T) {
		d := newServiceDeps(t)
		_, err := d.svc.Get(ctx, "", testDeckID)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("missing id", func(t *testing.T) {
		d := newServiceDeps(t)
		_, err := d.svc.Get(ctx, testUserID, "")
		assert.ErrorIs(t, err, ErrDeckIDRequired)
	})

	t.Run("malformed id", func(t *testing.T) {
		d := newServiceDeps(t)
		_, err := d.svc.Get(ctx, testUserID, "not-a-uuid")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("other owner", func(t *testing.T) {
		d := newServiceDeps(t)
		other := storedDeck(nil)
		other.UserID = "user-2"
		d.repo.EXPECT().GetByID(ctx, testDeckID).Return(other, nil)

		_, err := d.svc.Get(ctx, testUserID, testDeckID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("success", func(t *testing.T) {
		d := newServiceDeps(t)
		d.repo.EXPECT().GetByID(ctx, testDeckID).Return(storedDeck(nil), nil)

		got, err := d.svc.Get(ctx, testUserID, testDeckID)
		require.NoError(t, err)
		assert.Equal(t, "Blue-Eyes", got.Title)
	})
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("client validity is overridden", func(t *testing.T) {
		d := newServiceDeps(t)
		main, cat := fillMain(40)
		claimed := false
		in := Input{Title: "Forty Cards", Type: TypeControl, Valid: &claimed, Main: main}

		d.cards.EXPECT().GetMany(ctx, gomock.Any()).Return(cat, nil)
		d.repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, dk *Deck) error {
			assert.True(t, dk.Valid)
			assert.Equal(t, "forty-cards", dk.Slug)
			assert.Equal(t, testUserID, dk.UserID)
			dk.ID = testDeckID
			return nil
		})

		got, rep, err := d.svc.Create(ctx, testUserID, in)
		require.NoError(t, err)
		assert.Equal(t, testDeckID, got.ID)
		assert.True(t, got.Valid)
		assert.True(t, rep.Valid)
	})

	t.Run("invalid deck is still saved", func(t *testing.T) {
		d := newServiceDeps(t)
		main, cat := fillMain(39)
		claimed := true
		in := Input{Title: "Short", Type: TypeControl, Valid: &claimed, Main: main}

		d.cards.EXPECT().GetMany(ctx, gomock.Any()).Return(cat, nil)
		d.repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, dk *Deck) error {
			assert.False(t, dk.Valid)
			return nil
		})

		_, rep, err := d.svc.Create(ctx, testUserID, in)
		require.NoError(t, err)
		assert.False(t, rep.Valid)
		assert.Equal(t, "deck is not valid", rep.Warning())
	})

	t.Run("catalog error", func(t *testing.T) {
		d := newServiceDeps(t)
		d.cards.EXPECT().GetMany(ctx, gomock.Any()).Return(nil, errors.New("db down"))

		_, _, err := d.svc.Create(ctx, testUserID, Input{Title: "x", Type: TypeBurn})
		assert.Error(t, err)
	})

	t.Run("unauthorized", func(t *testing.T) {
		d := newServiceDeps(t)
		_, _, err := d.svc.Create(ctx, "", Input{})
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestService_AddCard(t *testing.T) {
	ctx := context.Background()
	blue := card.Card{ID: "89631139", Name: "Blue-Eyes White Dragon", Type: card.TypeNormalMonster}

	t.Run("fourth copy is rejected", func(t *testing.T) {
		d := newServiceDeps(t)
		d.repo.EXPECT().GetByID(ctx, testDeckID).Return(storedDeck([]CardRef{{ID: blue.ID, Quantity: 3}}), nil)
		d.cards.EXPECT().Get(ctx, blue.ID).Return(blue, nil)

		_, _, err := d.svc.AddCard(ctx, testUserID, testDeckID, blue.ID, ZoneMain)
		assert.ErrorIs(t, err, ErrCopyLimitReached)
	})

	t.Run("adds and revalidates", func(t *testing.T) {
		d := newServiceDeps(t)
		main, cat := fillMain(39)
		cat[blue.ID] = blue
		d.repo.EXPECT().GetByID(ctx, testDeckID).Return(storedDeck(main), nil)
		d.cards.EXPECT().Get(ctx, blue.ID).Return(blue, nil)
		d.cards.EXPECT().GetMany(ctx, gomock.Any()).Return(cat, nil)
		d.repo.EXPECT().Update(ctx, gomock.Any()).Return(nil)

		got, rep, err := d.svc.AddCard(ctx, testUserID, testDeckID, blue.ID, ZoneMain)
		require.NoError(t, err)
		assert.True(t, rep.Valid)
		assert.True(t, got.Valid)
		assert.Equal(t, 40, ComputeCardQuantity(got.Main))
	})

	t.Run("unknown card", func(t *testing.T) {
		d := newServiceDeps(t)
		d.repo.EXPECT().GetByID(ctx, testDeckID).Return(storedDeck(nil), nil)
		d.cards.EXPECT().Get(ctx, "1").Return(card.Card{}, card.ErrNotFound)

		_, _, err := d.svc.AddCard(ctx, testUserID, testDeckID, "1", ZoneMain)
		assert.ErrorIs(t, err, card.ErrNotFound)
	})
}

func TestService_RemoveCard(t *testing.T) {
	ctx := context.Background()
	d := newServiceDeps(t)
	d.repo.EXPECT().GetByID(ctx, testDeckID).Return(storedDeck([]CardRef{{ID: "a", Quantity: 1}}), nil)
	d.cards.EXPECT().GetMany(ctx, gomock.Any()).Return(map[string]card.Card{}, nil)
	d.repo.EXPECT().Update(ctx, gomock.Any()).Return(nil)

	got, rep, err := d.svc.RemoveCard(ctx, testUserID, testDeckID, "a", ZoneMain)
	require.NoError(t, err)
	assert.Empty(t, got.Main)
	assert.False(t, rep.Valid)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	d := newServiceDeps(t)
	gomock.InOrder(
		d.repo.EXPECT().GetByID(ctx, testDeckID).Return(storedDeck(nil), nil),
		d.repo.EXPECT().Delete(ctx, testUserID, testDeckID).Return(nil),
	)
	assert.NoError(t, d.svc.Delete(ctx, testUserID, testDeckID))
}

func TestService_Check(t *testing.T) {
	ctx := context.Background()
	d := newServiceDeps(t)

	cat := map[string]card.Card{
		"a": {ID: "a", Type: card.TypeSpellCard, Prices: []card.Price{{Cardmarket: "1.50"}}},
		"b": {ID: "b", Type: card.TypeFusionMonster, Prices: []card.Price{{Cardmarket: "0.10"}}},
	}
	l := Lists{
		Main:  []CardRef{{ID: "a", Quantity: 2}},
		Extra: []CardRef{{ID: "b", Quantity: 1}},
		Side:  []CardRef{{ID: "a", Quantity: 1}},
	}
	d.cards.EXPECT().GetMany(ctx, []string{"a", "b"}).Return(cat, nil)
	d.library.EXPECT().CheckMany(ctx, testUserID, map[string]int{"a": 3, "b": 1}).
		Return(map[string]library.Check{"a": {Exists: true, HasEnough: false, Quantity: 2}}, nil)

	res, err := d.svc.Check(ctx, testUserID, Meta{Title: "t", Type: TypeCombo}, l)
	require.NoError(t, err)

	assert.False(t, res.Report.Valid)
	assert.Equal(t, "deck is not valid", res.Warning)
	assert.Equal(t, Price{Main: 3, Extra: 0.1, Side: 1.5, Total: 4.6}, res.Price)
	assert.Equal(t, LibraryStatus{Exists: true, Quantity: 2, Required: 3}, res.Library["a"])
	assert.Equal(t, LibraryStatus{Required: 1}, res.Library["b"])
}

func TestService_ExportImport(t *testing.T) {
	ctx := context.Background()
	d := newServiceDeps(t)
	d.repo.EXPECT().GetByID(ctx, testDeckID).Return(storedDeck([]CardRef{{ID: "89631139", Quantity: 2}}), nil)

	_, body, err := d.svc.Export(ctx, testUserID, testDeckID)
	require.NoError(t, err)
	assert.Contains(t, string(body), "#main\n89631139\n89631139\n#extra\n")

	d.cards.EXPECT().GetMany(ctx, []string{"89631139", "123"}).
		Return(map[string]card.Card{"89631139": {ID: "89631139"}}, nil)

	res, err := d.svc.Import(ctx, strings.NewReader(string(body)+"123\n"))
	require.NoError(t, err)
	assert.Equal(t, []CardRef{{ID: "123", Quantity: 1}}, res.Lists.Side)
	assert.Equal(t, []string{"card not found: 123"}, res.Warnings)
}
