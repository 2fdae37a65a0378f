package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ygodeck/internal/card"
)

func priced(id string, t card.CardType, price string, status card.BanStatus) card.Card {
	c := card.Card{ID: id, Name: "card " + id, Type: t, Prices: []card.Price{{Cardmarket: price}}}
	if status != card.StatusUnrestricted {
		c.Banlist = &card.BanlistInfo{TCG: status}
	}
	return c
}

func catalogOf(cards ...card.Card) map[string]card.Card {
	out := make(map[string]card.Card, len(cards))
	for _, c := range cards {
		out[c.ID] = c
	}
	return out
}

// fillMain returns n distinct normal monsters, one copy each, plus their catalog.
func fillMain(n int) ([]CardRef, map[string]card.Card) {
	refs := make([]CardRef, 0, n)
	cat := map[string]card.Card{}
	for i := 0; i < n; i++ {
		id := "m" + string(rune('A'+i/26)) + string(rune('a'+i%26))
		refs = append(refs, CardRef{ID: id, Quantity: 1})
		cat[id] = card.Card{ID: id, Name: id, Type: card.TypeNormalMonster}
	}
	return refs, cat
}

func TestComputeCardQuantity(t *testing.T) {
	assert.Equal(t, 0, ComputeCardQuantity(nil))
	assert.Equal(t, 6, ComputeCardQuantity([]CardRef{{ID: "a", Quantity: 3}, {ID: "b", Quantity: 2}, {ID: "c", Quantity: 1}}))
}

func TestIsSizeLimitExceeded(t *testing.T) {
	list := []CardRef{{ID: "a", Quantity: 15}}
	assert.False(t, IsSizeLimitExceeded(list, 15))
	list = append(list, CardRef{ID: "b", Quantity: 1})
	assert.True(t, IsSizeLimitExceeded(list, 15))
}

func TestCheckMainCardQuantity(t *testing.T) {
	tests := []struct {
		total int
		want  bool
	}{
		{0, false}, {39, false}, {40, true}, {55, true}, {60, true}, {61, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CheckMainCardQuantity([]CardRef{{ID: "x", Quantity: tt.total}}), "total %d", tt.total)
	}
}

func TestComputeDeckPrice(t *testing.T) {
	t.Run("below half rounds down", func(t *testing.T) {
		cat := catalogOf(priced("X", card.TypeNormalMonster, "1.005", ""))
		assert.Equal(t, 3.01, ComputeDeckPrice([]CardRef{{ID: "X", Quantity: 3}}, cat))
	})

	t.Run("exact half rounds away from zero", func(t *testing.T) {
		cat := catalogOf(priced("Y", card.TypeNormalMonster, "0.125", ""))
		assert.Equal(t, 0.13, ComputeDeckPrice([]CardRef{{ID: "Y", Quantity: 1}}, cat))
	})

	t.Run("unknown and unpriced cards count as zero", func(t *testing.T) {
		cat := catalogOf(
			priced("A", card.TypeSpellCard, "2.50", ""),
			card.Card{ID: "B", Type: card.TypeTrapCard},
			priced("C", card.TypeTrapCard, "oops", ""),
		)
		list := []CardRef{{ID: "A", Quantity: 2}, {ID: "B", Quantity: 3}, {ID: "C", Quantity: 1}, {ID: "missing", Quantity: 3}}
		assert.Equal(t, 5.0, ComputeDeckPrice(list, cat))
	})

	t.Run("non-finite price does not poison the total", func(t *testing.T) {
		cat := catalogOf(
			priced("A", card.TypeSpellCard, "2.50", ""),
			priced("B", card.TypeTrapCard, "NaN", ""),
			priced("C", card.TypeTrapCard, "Inf", ""),
		)
		list := []CardRef{{ID: "A", Quantity: 2}, {ID: "B", Quantity: 1}, {ID: "C", Quantity: 1}}
		assert.Equal(t, 5.0, ComputeDeckPrice(list, cat))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, 0.0, ComputeDeckPrice(nil, nil))
	})
}

func TestIsMaxCardQuantityReached(t *testing.T) {
	tests := []struct {
		status    card.BanStatus
		threshold int
	}{
		{card.StatusUnrestricted, 3},
		{card.StatusSemiLimited, 2},
		{card.StatusLimited, 1},
		{card.StatusBanned, 0},
		{card.BanStatus("Forbidden"), 3},
	}
	for _, tt := range tests {
		c := priced("P", card.TypeEffectMonster, "", tt.status)
		for total := 0; total <= 4; total++ {
			// split the copies across zones to exercise the deck-wide count
			main := []CardRef{{ID: "P", Quantity: total / 2}, {ID: "other", Quantity: 3}}
			side := []CardRef{{ID: "P", Quantity: total - total/2}}
			got := IsMaxCardQuantityReached(main, nil, side, c)
			assert.Equal(t, total >= tt.threshold, got, "status %q total %d", tt.status, total)
		}
	}
}

func TestValidateLists(t *testing.T) {
	main, _ := fillMain(40)
	assert.True(t, ValidateLists(Lists{Main: main}))
	assert.False(t, ValidateLists(Lists{Main: main[:39]}))
	assert.False(t, ValidateLists(Lists{Main: main, Extra: []CardRef{{ID: "e", Quantity: 16}}}))
	assert.False(t, ValidateLists(Lists{Main: main, Side: []CardRef{{ID: "s", Quantity: 16}}}))
	assert.True(t, ValidateLists(Lists{Main: main, Extra: []CardRef{{ID: "e", Quantity: 15}}, Side: []CardRef{{ID: "s", Quantity: 15}}}))

	assert.False(t, IsValid(false, Lists{Main: main}))
	assert.True(t, IsValid(true, Lists{Main: main}))
}

func TestValidate(t *testing.T) {
	meta := Meta{Title: "Dragons", Type: TypeAggro}

	t.Run("valid", func(t *testing.T) {
		main, cat := fillMain(40)
		rep := Validate(meta, Lists{Main: main}, cat)
		assert.True(t, rep.Valid)
		assert.Empty(t, rep.Violations)
		assert.Equal(t, 40, rep.MainCount)
		assert.Empty(t, rep.Warning())
	})

	t.Run("meta", func(t *testing.T) {
		main, cat := fillMain(40)
		rep := Validate(Meta{Title: "  ", Type: "tempo"}, Lists{Main: main}, cat)
		assert.False(t, rep.Valid)
		assert.Equal(t, CodeMeta, rep.Violations[0].Code)
		assert.Equal(t, "deck is not valid", rep.Warning())
	})

	t.Run("rule violations", func(t *testing.T) {
		main, cat := fillMain(39)
		cat["syn"] = card.Card{ID: "syn", Name: "Stardust Dragon", Type: card.TypeSynchroMonster}
		cat["pot"] = priced("pot", card.TypeSpellCard, "", card.StatusBanned)
		cat["ash"] = priced("ash", card.TypeTunerMonster, "", card.StatusLimited)
		cat["bew"] = card.Card{ID: "bew", Name: "Blue-Eyes White Dragon", Type: card.TypeNormalMonster}

		main = append(main,
			CardRef{ID: "syn", Quantity: 1},
			CardRef{ID: "pot", Quantity: 1},
			CardRef{ID: "ash", Quantity: 1},
			CardRef{ID: "bew", Quantity: 3},
			CardRef{ID: "ghost", Quantity: 1},
		)
		extra := []CardRef{{ID: "bew", Quantity: 1}}
		side := []CardRef{{ID: "ash", Quantity: 1}}

		rep := Validate(meta, Lists{Main: main, Extra: extra, Side: side}, cat)
		assert.False(t, rep.Valid)

		codes := map[string][]string{}
		for _, v := range rep.Violations {
			codes[v.Code] = append(codes[v.Code], v.CardID)
		}
		assert.ElementsMatch(t, []string{"syn", "bew"}, codes[CodeWrongZone])
		assert.ElementsMatch(t, []string{"pot", "ash", "bew"}, codes[CodeCopyLimit])
		assert.Equal(t, []string{"ghost"}, codes[CodeUnknownCard])
		assert.Empty(t, codes[CodeMainSize])
	})

	t.Run("sizes", func(t *testing.T) {
		main, cat := fillMain(61)
		rep := Validate(meta, Lists{
			Main:  main,
			Extra: []CardRef{{ID: "mAa", Quantity: 0}},
		}, cat)
		codes := []string{}
		for _, v := range rep.Violations {
			codes = append(codes, v.Code)
		}
		assert.Contains(t, codes, CodeMainSize)
		assert.Contains(t, codes, CodeQuantity)
	})
}

// A 39 card main deck is invalid; one more unrestricted card makes it valid.
func TestValidate_FortiethCard(t *testing.T) {
	meta := Meta{Title: "Starter", Type: TypeMidrange}
	main, cat := fillMain(40)
	extraCard := main[39]
	main = main[:39]

	assert.False(t, Validate(meta, Lists{Main: main}, cat).Valid)

	b := NewBuilder(Lists{Main: main})
	assert.NoError(t, b.Add(cat[extraCard.ID], ZoneMain))
	assert.True(t, Validate(meta, b.Lists(), cat).Valid)
}
