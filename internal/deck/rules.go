package deck

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"ygodeck/internal/card"
)

const (
	MainMin  = 40
	MainMax  = 60
	ExtraMax = 15
	SideMax  = 15

	unrestrictedCopies = 3
)

// ComputeCardQuantity sums the quantities of a list.
func ComputeCardQuantity(list []CardRef) int {
	total := 0
	for _, ref := range list {
		total += ref.Quantity
	}
	return total
}

func IsSizeLimitExceeded(list []CardRef, limit int) bool {
	return ComputeCardQuantity(list) > limit
}

// CheckMainCardQuantity is true when the main deck holds between 40 and 60 cards inclusive.
func CheckMainCardQuantity(list []CardRef) bool {
	total := ComputeCardQuantity(list)
	return total >= MainMin && total <= MainMax
}

// ComputeDeckPrice sums market price times quantity over cards found in the catalog,
// rounded to cents with halves going away from zero.
func ComputeDeckPrice(list []CardRef, catalog map[string]card.Card) float64 {
	sum := 0.0
	for _, ref := range list {
		c, ok := catalog[ref.ID]
		if !ok {
			continue
		}
		sum += c.MarketPrice() * float64(ref.Quantity)
	}
	return roundCents(sum)
}

// roundCents formats x with two decimals and parses it back. FormatFloat rounds
// exact binary halves to even, so those are pushed away from zero first.
func roundCents(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	if isExactHalfCent(x) {
		x = math.Round(x*100) / 100
	}
	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 2, 64), 64)
	if err != nil {
		return 0
	}
	return v
}

func isExactHalfCent(x float64) bool {
	f := new(big.Float).SetPrec(128).SetFloat64(x)
	f.Mul(f, big.NewFloat(200))
	if !f.IsInt() {
		return false
	}
	i, _ := f.Int(nil)
	return i.Bit(0) == 1
}

// CopyLimit is the deck-wide number of copies allowed for a TCG ban status.
func CopyLimit(status card.BanStatus) int {
	switch status {
	case card.StatusBanned:
		return 0
	case card.StatusLimited:
		return 1
	case card.StatusSemiLimited:
		return 2
	}
	return unrestrictedCopies
}

func countCopies(id string, lists ...[]CardRef) int {
	total := 0
	for _, list := range lists {
		for _, ref := range list {
			if ref.ID == id {
				total += ref.Quantity
			}
		}
	}
	return total
}

// IsMaxCardQuantityReached reports whether the deck already holds as many copies
// of c as its ban status allows, counting all three zones together.
func IsMaxCardQuantityReached(main, extra, side []CardRef, c card.Card) bool {
	return countCopies(c.ID, main, extra, side) >= CopyLimit(c.TCGStatus())
}

// ValidateLists checks the three size bounds.
func ValidateLists(l Lists) bool {
	return CheckMainCardQuantity(l.Main) &&
		!IsSizeLimitExceeded(l.Extra, ExtraMax) &&
		!IsSizeLimitExceeded(l.Side, SideMax)
}

func IsValid(metaValid bool, l Lists) bool {
	return metaValid && ValidateLists(l)
}

// MetaValid requires a non-blank title and a known deck type.
func MetaValid(m Meta) bool {
	return strings.TrimSpace(m.Title) != "" && m.Type.Valid()
}

const (
	CodeMeta        = "meta"
	CodeMainSize    = "main_size"
	CodeExtraSize   = "extra_size"
	CodeSideSize    = "side_size"
	CodeQuantity    = "quantity"
	CodeUnknownCard = "unknown_card"
	CodeWrongZone   = "wrong_zone"
	CodeCopyLimit   = "copy_limit"
)

type Violation struct {
	Code    string `json:"code"`
	Zone    Zone   `json:"zone,omitempty"`
	CardID  string `json:"cardId,omitempty"`
	Message string `json:"message"`
}

// Report is the outcome of a full server-side validation.
type Report struct {
	Valid      bool        `json:"valid"`
	MainCount  int         `json:"mainCount"`
	ExtraCount int         `json:"extraCount"`
	SideCount  int         `json:"sideCount"`
	Violations []Violation `json:"violations,omitempty"`
}

const invalidWarning = "deck is not valid"

// Warning is the single message shown for any invalid deck, empty when valid.
func (r Report) Warning() string {
	if r.Valid {
		return ""
	}
	return invalidWarning
}

// Validate checks metadata, sizes, catalog membership, zone eligibility and copy limits.
func Validate(meta Meta, l Lists, catalog map[string]card.Card) Report {
	rep := Report{
		MainCount:  ComputeCardQuantity(l.Main),
		ExtraCount: ComputeCardQuantity(l.Extra),
		SideCount:  ComputeCardQuantity(l.Side),
	}
	add := func(v Violation) { rep.Violations = append(rep.Violations, v) }

	if !MetaValid(meta) {
		add(Violation{Code: CodeMeta, Message: "title and deck type are required"})
	}
	if !CheckMainCardQuantity(l.Main) {
		add(Violation{Code: CodeMainSize, Zone: ZoneMain,
			Message: fmt.Sprintf("main deck must hold %d to %d cards, has %d", MainMin, MainMax, rep.MainCount)})
	}
	if IsSizeLimitExceeded(l.Extra, ExtraMax) {
		add(Violation{Code: CodeExtraSize, Zone: ZoneExtra,
			Message: fmt.Sprintf("extra deck holds at most %d cards, has %d", ExtraMax, rep.ExtraCount)})
	}
	if IsSizeLimitExceeded(l.Side, SideMax) {
		add(Violation{Code: CodeSideSize, Zone: ZoneSide,
			Message: fmt.Sprintf("side deck holds at most %d cards, has %d", SideMax, rep.SideCount)})
	}

	for _, z := range []Zone{ZoneMain, ZoneExtra, ZoneSide} {
		for _, ref := range l.Zone(z) {
			if ref.Quantity < 1 {
				add(Violation{Code: CodeQuantity, Zone: z, CardID: ref.ID, Message: "quantity must be at least 1"})
			}
			c, ok := catalog[ref.ID]
			if !ok {
				add(Violation{Code: CodeUnknownCard, Zone: z, CardID: ref.ID, Message: "card not found: " + ref.ID})
				continue
			}
			if !zoneAccepts(z, c) {
				add(Violation{Code: CodeWrongZone, Zone: z, CardID: ref.ID,
					Message: fmt.Sprintf("%s cannot be placed in the %s deck", c.Name, z)})
			}
		}
	}

	for _, id := range l.ids() {
		c, ok := catalog[id]
		if !ok {
			continue
		}
		total := countCopies(id, l.Main, l.Extra, l.Side)
		if limit := CopyLimit(c.TCGStatus()); total > limit {
			add(Violation{Code: CodeCopyLimit, CardID: id,
				Message: fmt.Sprintf("%s allows %d copies, deck has %d", c.Name, limit, total)})
		}
	}

	rep.Valid = len(rep.Violations) == 0
	return rep
}

func zoneAccepts(z Zone, c card.Card) bool {
	switch z {
	case ZoneMain:
		return card.IsMainDeckCard(c)
	case ZoneExtra:
		return card.IsExtraDeckCard(c)
	case ZoneSide:
		return true
	}
	return false
}

func zoneCap(z Zone) int {
	if z == ZoneMain {
		return MainMax
	}
	return ExtraMax
}
