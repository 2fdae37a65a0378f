package deck

import (
	"fmt"

	"ygodeck/internal/card"
)

// Builder is an in-memory edit session over a deck's lists.
type Builder struct {
	lists Lists
}

func NewBuilder(l Lists) *Builder {
	return &Builder{lists: l.clone()}
}

// CanAdd reports why one more copy of c cannot go into zone, or nil if it can.
func (b *Builder) CanAdd(c card.Card, zone Zone) error {
	if !zone.Valid() {
		return fmt.Errorf("%w: unknown zone %q", ErrWrongZone, zone)
	}
	if c.TCGStatus() == card.StatusBanned {
		return fmt.Errorf("%w: %s", ErrBanned, c.Name)
	}
	if IsMaxCardQuantityReached(b.lists.Main, b.lists.Extra, b.lists.Side, c) {
		return fmt.Errorf("%w: %s allows %d copies", ErrCopyLimitReached, c.Name, CopyLimit(c.TCGStatus()))
	}
	if !zoneAccepts(zone, c) {
		return fmt.Errorf("%w: %s in %s", ErrWrongZone, c.Name, zone)
	}
	if ComputeCardQuantity(b.lists.Zone(zone)) >= zoneCap(zone) {
		return fmt.Errorf("%w: %s deck holds %d cards", ErrZoneFull, zone, zoneCap(zone))
	}
	return nil
}

func (b *Builder) Add(c card.Card, zone Zone) error {
	if err := b.CanAdd(c, zone); err != nil {
		return err
	}
	list := b.lists.Zone(zone)
	found := false
	for i := range list {
		if list[i].ID == c.ID {
			list[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		list = append(list, CardRef{ID: c.ID, Quantity: 1})
	}
	b.set(zone, list)
	return nil
}

// Remove takes one copy out of zone and drops the entry when it reaches zero.
func (b *Builder) Remove(cardID string, zone Zone) error {
	list := b.lists.Zone(zone)
	for i := range list {
		if list[i].ID != cardID {
			continue
		}
		list[i].Quantity--
		if list[i].Quantity <= 0 {
			list = append(list[:i], list[i+1:]...)
		}
		b.set(zone, list)
		return nil
	}
	return fmt.Errorf("%w: %s in %s", ErrNotInZone, cardID, zone)
}

func (b *Builder) set(zone Zone, list []CardRef) {
	switch zone {
	case ZoneMain:
		b.lists.Main = list
	case ZoneExtra:
		b.lists.Extra = list
	case ZoneSide:
		b.lists.Side = list
	}
}

// Lists returns a copy of the current lists.
func (b *Builder) Lists() Lists {
	return b.lists.clone()
}
