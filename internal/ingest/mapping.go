package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"ygodeck/internal/card"
	"ygodeck/internal/platform/ygoprodeck"
)

const skillFrame = "skill"

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SnakeCase folds upstream labels ("Beast-Warrior", "Quick-Play") to catalog
// enum form: accents dropped, spaces and dashes become '_', other punctuation removed.
func SnakeCase(s string) string {
	folded, _, err := transform.String(stripMarks, strings.TrimSpace(s))
	if err != nil {
		folded = s
	}
	var b strings.Builder
	sep := false
	for _, r := range folded {
		switch {
		case r == ' ' || r == '-' || r == '\t':
			sep = true
		case r == '_' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))):
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			sep = false
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

type enumError struct {
	field, value string
}

func (e *enumError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.field, e.value)
}

// MapCard converts an upstream record into a catalog card. Any enum value the
// catalog does not know is an error so the card can be skipped.
func MapCard(d ygoprodeck.CardData) (card.Card, error) {
	c := card.Card{
		ID:        strconv.Itoa(d.ID),
		Name:      d.Name,
		Slug:      SnakeCase(d.Name),
		Type:      card.CardType(SnakeCase(d.Type)),
		FrameType: card.FrameType(SnakeCase(d.FrameType)),
		Desc:      d.Desc,
		Atk:       d.Atk,
		Def:       d.Def,
		Level:     d.Level,
		Scale:     d.Scale,
		LinkVal:   d.LinkVal,
		Archetype: d.Archetype,
	}
	if !c.Type.Valid() {
		return card.Card{}, &enumError{"type", d.Type}
	}
	if !c.FrameType.Valid() {
		return card.Card{}, &enumError{"frame type", d.FrameType}
	}
	for _, m := range d.LinkMarkers {
		marker := card.LinkMarker(SnakeCase(m))
		if !marker.Valid() {
			return card.Card{}, &enumError{"link marker", m}
		}
		c.LinkMarkers = append(c.LinkMarkers, marker)
	}
	if d.Race != "" {
		race := card.Race(SnakeCase(d.Race))
		if !race.Valid() {
			return card.Card{}, &enumError{"race", d.Race}
		}
		c.Race = &race
	}
	if d.Attribute != "" {
		attr := card.Attribute(SnakeCase(d.Attribute))
		if !attr.Valid() {
			return card.Card{}, &enumError{"attribute", d.Attribute}
		}
		c.Attribute = &attr
	}
	if len(d.CardImages) > 0 {
		c.ImageURL = d.CardImages[0].ImageURL
	}
	for _, s := range d.CardSets {
		c.Sets = append(c.Sets, card.Set{
			Name:       s.SetName,
			Code:       s.SetCode,
			Rarity:     s.SetRarity,
			RarityCode: s.SetRarityCode,
			Price:      s.SetPrice,
		})
	}
	for _, p := range d.CardPrices {
		c.Prices = append(c.Prices, card.Price{
			Cardmarket:   p.CardmarketPrice,
			TCGPlayer:    p.TCGPlayerPrice,
			Ebay:         p.EbayPrice,
			Amazon:       p.AmazonPrice,
			CoolStuffInc: p.CoolStuffIncPrice,
		})
	}
	if b := d.BanlistInfo; b != nil {
		c.Banlist = &card.BanlistInfo{
			TCG:  card.BanStatus(b.BanTCG),
			OCG:  card.BanStatus(b.BanOCG),
			Goat: card.BanStatus(b.BanGoat),
		}
	}
	return c, nil
}
