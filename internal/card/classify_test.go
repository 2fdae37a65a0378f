package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassification_Partition(t *testing.T) {
	types := AllCardTypes()
	assert.Len(t, types, 28)

	for _, ct := range types {
		c := Card{Type: ct}

		kinds := 0
		for _, is := range []bool{IsMonster(c), IsSpell(c), IsTrap(c)} {
			if is {
				kinds++
			}
		}
		assert.Equal(t, 1, kinds, "%s must be exactly one of monster, spell, trap", ct)
		assert.NotEqual(t, IsMainDeckCard(c), IsExtraDeckCard(c), "%s must be exactly one of main, extra", ct)
	}
}

func TestIsExtraDeckCard(t *testing.T) {
	extra := map[CardType]bool{
		TypeFusionMonster:            true,
		TypeSynchroMonster:           true,
		TypeXyzMonster:               true,
		TypeLinkMonster:              true,
		TypeXyzPendulumEffectMonster: true,
	}
	for _, ct := range AllCardTypes() {
		assert.Equal(t, extra[ct], IsExtraDeckCard(Card{Type: ct}), ct)
	}
}

func TestIsMonster(t *testing.T) {
	assert.True(t, IsMonster(Card{Type: TypeToken}))
	assert.True(t, IsMonster(Card{Type: TypeLinkMonster}))
	assert.False(t, IsMonster(Card{Type: TypeSpellCard}))
	assert.False(t, IsMonster(Card{Type: TypeTrapCard}))
	assert.True(t, IsSpell(Card{Type: TypeSpellCard}))
	assert.True(t, IsTrap(Card{Type: TypeTrapCard}))
}
