package card

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned when a card is not in the catalog.
var ErrNotFound = errors.New("card not found")

// CardType is the snake_case card kind as published by the catalog feed.
type CardType string

const (
	TypeEffectMonster                CardType = "effect_monster"
	TypeFusionMonster                CardType = "fusion_monster"
	TypeFlipEffectMonster            CardType = "flip_effect_monster"
	TypeFlipTunerEffectMonster       CardType = "flip_tuner_effect_monster"
	TypeGeminiMonster                CardType = "gemini_monster"
	TypeLinkMonster                  CardType = "link_monster"
	TypeNormalMonster                CardType = "normal_monster"
	TypeNormalTunerMonster           CardType = "normal_tuner_monster"
	TypePendulumEffectMonster        CardType = "pendulum_effect_monster"
	TypePendulumEffectFusionMonster  CardType = "pendulum_effect_fusion_monster"
	TypePendulumEffectRitualMonster  CardType = "pendulum_effect_ritual_monster"
	TypePendulumFlipEffectMonster    CardType = "pendulum_flip_effect_monster"
	TypePendulumNormalMonster        CardType = "pendulum_normal_monster"
	TypePendulumTunerEffectMonster   CardType = "pendulum_tuner_effect_monster"
	TypeRitualEffectMonster          CardType = "ritual_effect_monster"
	TypeRitualMonster                CardType = "ritual_monster"
	TypeSpellCard                    CardType = "spell_card"
	TypeSpiritMonster                CardType = "spirit_monster"
	TypeSynchroMonster               CardType = "synchro_monster"
	TypeSynchroPendulumEffectMonster CardType = "synchro_pendulum_effect_monster"
	TypeSynchroTunerMonster          CardType = "synchro_tuner_monster"
	TypeToonMonster                  CardType = "toon_monster"
	TypeToken                        CardType = "token"
	TypeTrapCard                     CardType = "trap_card"
	TypeTunerMonster                 CardType = "tuner_monster"
	TypeUnionEffectMonster           CardType = "union_effect_monster"
	TypeXyzMonster                   CardType = "xyz_monster"
	TypeXyzPendulumEffectMonster     CardType = "xyz_pendulum_effect_monster"
)

var cardTypes = []CardType{
	TypeEffectMonster, TypeFusionMonster, TypeFlipEffectMonster, TypeFlipTunerEffectMonster,
	TypeGeminiMonster, TypeLinkMonster, TypeNormalMonster, TypeNormalTunerMonster,
	TypePendulumEffectMonster, TypePendulumEffectFusionMonster, TypePendulumEffectRitualMonster,
	TypePendulumFlipEffectMonster, TypePendulumNormalMonster, TypePendulumTunerEffectMonster,
	TypeRitualEffectMonster, TypeRitualMonster, TypeSpellCard, TypeSpiritMonster,
	TypeSynchroMonster, TypeSynchroPendulumEffectMonster, TypeSynchroTunerMonster,
	TypeToonMonster, TypeToken, TypeTrapCard, TypeTunerMonster, TypeUnionEffectMonster,
	TypeXyzMonster, TypeXyzPendulumEffectMonster,
}

// AllCardTypes returns every known card type.
func AllCardTypes() []CardType {
	out := make([]CardType, len(cardTypes))
	copy(out, cardTypes)
	return out
}

// Valid reports whether t is a known card type.
func (t CardType) Valid() bool {
	for _, known := range cardTypes {
		if t == known {
			return true
		}
	}
	return false
}

// FrameType drives display grouping of a card.
type FrameType string

const (
	FrameNormal          FrameType = "normal"
	FrameEffect          FrameType = "effect"
	FrameFusion          FrameType = "fusion"
	FrameRitual          FrameType = "ritual"
	FrameSynchro         FrameType = "synchro"
	FrameXyz             FrameType = "xyz"
	FrameNormalPendulum  FrameType = "normal_pendulum"
	FrameEffectPendulum  FrameType = "effect_pendulum"
	FrameFusionPendulum  FrameType = "fusion_pendulum"
	FrameRitualPendulum  FrameType = "ritual_pendulum"
	FrameSynchroPendulum FrameType = "synchro_pendulum"
	FrameXyzPendulum     FrameType = "xyz_pendulum"
	FrameLink            FrameType = "link"
	FrameSpell           FrameType = "spell"
	FrameTrap            FrameType = "trap"
	FrameToken           FrameType = "token"
)

var frameTypes = []FrameType{
	FrameNormal, FrameEffect, FrameFusion, FrameRitual, FrameSynchro, FrameXyz,
	FrameNormalPendulum, FrameEffectPendulum, FrameFusionPendulum, FrameRitualPendulum,
	FrameSynchroPendulum, FrameXyzPendulum, FrameLink, FrameSpell, FrameTrap, FrameToken,
}

func (f FrameType) Valid() bool {
	for _, known := range frameTypes {
		if f == known {
			return true
		}
	}
	return false
}

type LinkMarker string

const (
	MarkerTop         LinkMarker = "top"
	MarkerTopRight    LinkMarker = "top_right"
	MarkerRight       LinkMarker = "right"
	MarkerBottomRight LinkMarker = "bottom_right"
	MarkerBottom      LinkMarker = "bottom"
	MarkerBottomLeft  LinkMarker = "bottom_left"
	MarkerLeft        LinkMarker = "left"
	MarkerTopLeft     LinkMarker = "top_left"
)

func (m LinkMarker) Valid() bool {
	switch m {
	case MarkerTop, MarkerTopRight, MarkerRight, MarkerBottomRight,
		MarkerBottom, MarkerBottomLeft, MarkerLeft, MarkerTopLeft:
		return true
	}
	return false
}

type Attribute string

const (
	AttributeDark   Attribute = "dark"
	AttributeDivine Attribute = "divine"
	AttributeEarth  Attribute = "earth"
	AttributeFire   Attribute = "fire"
	AttributeLight  Attribute = "light"
	AttributeWater  Attribute = "water"
	AttributeWind   Attribute = "wind"
)

func (a Attribute) Valid() bool {
	switch a {
	case AttributeDark, AttributeDivine, AttributeEarth, AttributeFire,
		AttributeLight, AttributeWater, AttributeWind:
		return true
	}
	return false
}

// Race is the monster race, or the spell/trap subtype (equip, field, counter...).
type Race string

var races = map[Race]struct{}{
	"aqua": {}, "beast": {}, "beast_warrior": {}, "continuous": {}, "counter": {},
	"creator_god": {}, "cyberse": {}, "dinosaur": {}, "divine_beast": {}, "dragon": {},
	"equip": {}, "fairy": {}, "field": {}, "fiend": {}, "fish": {}, "illusion": {},
	"insect": {}, "machine": {}, "normal": {}, "plant": {}, "psychic": {}, "pyro": {},
	"quick_play": {}, "reptile": {}, "ritual": {}, "rock": {}, "sea_serpent": {},
	"spellcaster": {}, "thunder": {}, "warrior": {}, "winged_beast": {}, "wyrm": {},
	"zombie": {},
}

func (r Race) Valid() bool {
	_, ok := races[r]
	return ok
}

// BanStatus is a format-specific restriction. The empty value means unrestricted.
type BanStatus string

const (
	StatusUnrestricted BanStatus = ""
	StatusBanned       BanStatus = "Banned"
	StatusLimited      BanStatus = "Limited"
	StatusSemiLimited  BanStatus = "Semi-Limited"
)

type BanlistInfo struct {
	TCG  BanStatus `json:"ban_tcg,omitempty"`
	OCG  BanStatus `json:"ban_ocg,omitempty"`
	Goat BanStatus `json:"ban_goat,omitempty"`
}

// Set is one printing of a card.
type Set struct {
	Name       string `json:"set_name"`
	Code       string `json:"set_code"`
	Rarity     string `json:"set_rarity"`
	RarityCode string `json:"set_rarity_code"`
	Price      string `json:"set_price"`
}

// Price holds market prices as served upstream (decimal strings).
type Price struct {
	Cardmarket   string `json:"cardmarket_price"`
	TCGPlayer    string `json:"tcgplayer_price"`
	Ebay         string `json:"ebay_price"`
	Amazon       string `json:"amazon_price"`
	CoolStuffInc string `json:"coolstuffinc_price"`
}

// Card is an immutable catalog entry.
type Card struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Type        CardType     `json:"type"`
	FrameType   FrameType    `json:"frameType"`
	Desc        string       `json:"desc"`
	Atk         *int         `json:"atk,omitempty"`
	Def         *int         `json:"def,omitempty"`
	Level       *int         `json:"level,omitempty"`
	Scale       *int         `json:"scale,omitempty"`
	LinkVal     *int         `json:"linkval,omitempty"`
	LinkMarkers []LinkMarker `json:"linkmarkers,omitempty"`
	Race        *Race        `json:"race,omitempty"`
	Attribute   *Attribute   `json:"attribute,omitempty"`
	Archetype   string       `json:"archetype,omitempty"`
	ImageURL    string       `json:"imageUrl"`
	Sets        []Set        `json:"cardSets"`
	Prices      []Price      `json:"cardPrices"`
	Banlist     *BanlistInfo `json:"banlistInfo,omitempty"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// TCGStatus returns the card's TCG banlist status.
func (c Card) TCGStatus() BanStatus {
	if c.Banlist == nil {
		return StatusUnrestricted
	}
	return c.Banlist.TCG
}

// MarketPrice is the first listed Cardmarket price, or 0 when absent or unparseable.
func (c Card) MarketPrice() float64 {
	if len(c.Prices) == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(c.Prices[0].Cardmarket), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Query filters catalog listings.
type Query struct {
	Q         string
	Type      CardType
	FrameType FrameType
	Archetype string
	Ban       BanStatus
	Limit     int
	Offset    int
}
