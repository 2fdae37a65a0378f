package deck

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("deck not found")

	ErrBanned           = errors.New("card is banned")
	ErrCopyLimitReached = errors.New("card copy limit reached")
	ErrWrongZone        = errors.New("card cannot be placed in this zone")
	ErrZoneFull         = errors.New("zone is full")
	ErrNotInZone        = errors.New("card not in zone")
)

// DeckType is the play-style tag chosen on the deck form.
type DeckType string

const (
	TypeMidrange DeckType = "midrange"
	TypeControl  DeckType = "control"
	TypeCombo    DeckType = "combo"
	TypeAggro    DeckType = "aggro"
	TypeRamp     DeckType = "ramp"
	TypeBurn     DeckType = "burn"
	TypeMill     DeckType = "mill"
)

func (t DeckType) Valid() bool {
	switch t {
	case TypeMidrange, TypeControl, TypeCombo, TypeAggro, TypeRamp, TypeBurn, TypeMill:
		return true
	}
	return false
}

type Zone string

const (
	ZoneMain  Zone = "main"
	ZoneExtra Zone = "extra"
	ZoneSide  Zone = "side"
)

func (z Zone) Valid() bool {
	return z == ZoneMain || z == ZoneExtra || z == ZoneSide
}

// CardRef points into the catalog by passcode.
type CardRef struct {
	ID       string `json:"id" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=1"`
}

// Lists holds the three zones of a deck.
type Lists struct {
	Main  []CardRef `json:"main" validate:"dive"`
	Extra []CardRef `json:"extra" validate:"dive"`
	Side  []CardRef `json:"side" validate:"dive"`
}

func (l Lists) Zone(z Zone) []CardRef {
	switch z {
	case ZoneMain:
		return l.Main
	case ZoneExtra:
		return l.Extra
	case ZoneSide:
		return l.Side
	}
	return nil
}

func (l Lists) ids() []string {
	seen := map[string]bool{}
	var out []string
	for _, list := range [][]CardRef{l.Main, l.Extra, l.Side} {
		for _, ref := range list {
			if !seen[ref.ID] {
				seen[ref.ID] = true
				out = append(out, ref.ID)
			}
		}
	}
	return out
}

func (l Lists) clone() Lists {
	return Lists{
		Main:  append([]CardRef{}, l.Main...),
		Extra: append([]CardRef{}, l.Extra...),
		Side:  append([]CardRef{}, l.Side...),
	}
}

// Meta is the deck form metadata.
type Meta struct {
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Description string   `json:"description,omitempty"`
	Type        DeckType `json:"type"`
}

type Deck struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Type        DeckType  `json:"type"`
	Valid       bool      `json:"valid"`
	Main        []CardRef `json:"main"`
	Extra       []CardRef `json:"extra"`
	Side        []CardRef `json:"side"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (d Deck) Lists() Lists {
	return Lists{Main: d.Main, Extra: d.Extra, Side: d.Side}
}

func (d Deck) Meta() Meta {
	return Meta{Title: d.Title, Slug: d.Slug, Description: d.Description, Type: d.Type}
}

func (d *Deck) SetLists(l Lists) {
	d.Main, d.Extra, d.Side = l.Main, l.Extra, l.Side
}
