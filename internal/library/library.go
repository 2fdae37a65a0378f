package library

import (
	"errors"
	"time"

	"ygodeck/internal/card"
)

var (
	ErrNotFound        = errors.New("library entry not found")
	ErrIssueNotFound   = errors.New("issue not found")
	ErrVersionConflict = errors.New("library entry was modified concurrently")
	ErrUnauthorized    = errors.New("unauthorized")
)

// SetInfo is the printing's set, denormalized from the catalog.
type SetInfo struct {
	Name  string `json:"setName"`
	Code  string `json:"setCode" validate:"required"`
	Price string `json:"setPrice,omitempty"`
}

// Issue is one printing a user owns. Identity is (Language, Rarity, Set.Code).
type Issue struct {
	ID        string          `json:"id"`
	Language  card.Language   `json:"language"`
	Quantity  int             `json:"quantity"`
	Tradeable bool            `json:"tradeable"`
	Rarity    card.RarityCode `json:"rarity"`
	Set       SetInfo         `json:"set"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// IssueInput is an issue as submitted by a client.
type IssueInput struct {
	Language  card.Language   `json:"language" validate:"required,language"`
	Quantity  int             `json:"quantity" validate:"min=1"`
	Tradeable bool            `json:"tradeable"`
	Rarity    card.RarityCode `json:"rarity" validate:"required,rarity"`
	Set       SetInfo         `json:"set"`
}

func (i Issue) matches(in IssueInput) bool {
	return i.Language == in.Language && i.Rarity == in.Rarity && i.Set.Code == in.Set.Code
}

// Entry is a user's ownership record for one card.
type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CardID    string    `json:"cardId"`
	Issues    []Issue   `json:"issues"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Quantity is the number of copies across all issues.
func (e Entry) Quantity() int {
	total := 0
	for _, i := range e.Issues {
		total += i.Quantity
	}
	return total
}

// Tradeable reports whether any issue is marked tradeable.
func (e Entry) Tradeable() bool {
	for _, i := range e.Issues {
		if i.Tradeable {
			return true
		}
	}
	return false
}

// Item is an entry joined with its catalog card.
type Item struct {
	Entry
	Card     card.Card `json:"card"`
	Total    int       `json:"quantity"`
	ForTrade bool      `json:"tradeable"`
}

func newItem(e Entry, c card.Card) Item {
	return Item{Entry: e, Card: c, Total: e.Quantity(), ForTrade: e.Tradeable()}
}

// Check is the ownership hint shown next to a card in the deck builder.
type Check struct {
	Exists    bool `json:"exists"`
	HasEnough bool `json:"hasEnough"`
	Quantity  int  `json:"quantity"`
}

// CheckEntry compares an entry against a wanted number of copies. A nil entry owns nothing.
func CheckEntry(e *Entry, target int) Check {
	if e == nil {
		return Check{}
	}
	q := e.Quantity()
	return Check{Exists: true, HasEnough: q >= target, Quantity: q}
}
