package card

func IsSpell(c Card) bool { return c.Type == TypeSpellCard }

func IsTrap(c Card) bool { return c.Type == TypeTrapCard }

// IsMonster is true for every type that is neither spell nor trap, tokens included.
func IsMonster(c Card) bool {
	return !IsSpell(c) && !IsTrap(c)
}

// IsExtraDeckCard reports whether the card may only be played from the extra deck.
func IsExtraDeckCard(c Card) bool {
	switch c.Type {
	case TypeFusionMonster, TypeSynchroMonster, TypeXyzMonster, TypeLinkMonster, TypeXyzPendulumEffectMonster:
		return true
	}
	return false
}

func IsMainDeckCard(c Card) bool {
	return !IsExtraDeckCard(c)
}
