package deck

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrDeckIDRequired = errors.New("deck id is required")
)

// Input is the create/update payload. Valid is the client's own assessment;
// it is only compared against the server-side result.
type Input struct {
	Title       string    `json:"title" validate:"required,max=120"`
	Description string    `json:"description" validate:"max=2000"`
	Type        DeckType  `json:"type" validate:"required,deck_type"`
	Valid       *bool     `json:"valid,omitempty"`
	Main        []CardRef `json:"main" validate:"max=60,dive"`
	Extra       []CardRef `json:"extra" validate:"max=15,dive"`
	Side        []CardRef `json:"side" validate:"max=15,dive"`
}

func (in Input) meta() Meta {
	return Meta{Title: in.Title, Slug: Slugify(in.Title), Description: in.Description, Type: in.Type}
}

func (in Input) lists() Lists {
	return Lists{Main: in.Main, Extra: in.Extra, Side: in.Side}
}

// Price is the market value of each zone and of the whole deck.
type Price struct {
	Main  float64 `json:"main"`
	Extra float64 `json:"extra"`
	Side  float64 `json:"side"`
	Total float64 `json:"total"`
}

// CheckResult is the builder sidebar: validity, price and ownership hints per card.
type CheckResult struct {
	Report  Report                   `json:"report"`
	Warning string                   `json:"warning,omitempty"`
	Price   Price                    `json:"price"`
	Library map[string]LibraryStatus `json:"library"`
}

type LibraryStatus struct {
	Exists    bool `json:"exists"`
	HasEnough bool `json:"hasEnough"`
	Quantity  int  `json:"quantity"`
	Required  int  `json:"required"`
}

type Service struct {
	repo    Repository
	cards   CardSource
	library LibraryChecker
	logger  *zap.Logger
}

func NewService(repo Repository, cards CardSource, library LibraryChecker, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, cards: cards, library: library, logger: logger}
}

func (s *Service) List(ctx context.Context, userID string) ([]Deck, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	return s.repo.ListByUser(ctx, userID)
}

// Get returns a deck owned by userID. Decks of other users are reported as not found.
func (s *Service) Get(ctx context.Context, userID, deckID string) (Deck, error) {
	if userID == "" {
		return Deck{}, ErrUnauthorized
	}
	if deckID == "" {
		return Deck{}, ErrDeckIDRequired
	}
	if _, err := uuid.Parse(deckID); err != nil {
		return Deck{}, fmt.Errorf("%w: %s", ErrNotFound, deckID)
	}
	d, err := s.repo.GetByID(ctx, deckID)
	if err != nil {
		return Deck{}, err
	}
	if d.UserID != userID {
		return Deck{}, fmt.Errorf("%w: %s", ErrNotFound, deckID)
	}
	return d, nil
}

func (s *Service) validate(ctx context.Context, meta Meta, l Lists) (Report, error) {
	catalog, err := s.cards.GetMany(ctx, l.ids())
	if err != nil {
		return Report{}, err
	}
	return Validate(meta, l, catalog), nil
}

func (s *Service) logClientValidity(in Input, rep Report) {
	if in.Valid != nil && *in.Valid != rep.Valid {
		s.logger.Debug("client deck validity overridden",
			zap.Bool("client", *in.Valid),
			zap.Bool("server", rep.Valid),
			zap.Int("violations", len(rep.Violations)))
	}
}

// Create stores a new deck with its slug and validity derived from the input.
func (s *Service) Create(ctx context.Context, userID string, in Input) (Deck, Report, error) {
	if userID == "" {
		return Deck{}, Report{}, ErrUnauthorized
	}
	meta, lists := in.meta(), in.lists()
	rep, err := s.validate(ctx, meta, lists)
	if err != nil {
		return Deck{}, Report{}, err
	}
	s.logClientValidity(in, rep)

	d := Deck{
		UserID:      userID,
		Title:       meta.Title,
		Slug:        meta.Slug,
		Description: meta.Description,
		Type:        meta.Type,
		Valid:       rep.Valid,
	}
	d.SetLists(lists)
	if err := s.repo.Create(ctx, &d); err != nil {
		return Deck{}, Report{}, err
	}
	return d, rep, nil
}

func (s *Service) Update(ctx context.Context, userID, deckID string, in Input) (Deck, Report, error) {
	d, err := s.Get(ctx, userID, deckID)
	if err != nil {
		return Deck{}, Report{}, err
	}
	meta, lists := in.meta(), in.lists()
	rep, err := s.validate(ctx, meta, lists)
	if err != nil {
		return Deck{}, Report{}, err
	}
	s.logClientValidity(in, rep)

	d.Title = meta.Title
	d.Slug = meta.Slug
	d.Description = meta.Description
	d.Type = meta.Type
	d.Valid = rep.Valid
	d.SetLists(lists)
	if err := s.repo.Update(ctx, &d); err != nil {
		return Deck{}, Report{}, err
	}
	return d, rep, nil
}

func (s *Service) Delete(ctx context.Context, userID, deckID string) error {
	if _, err := s.Get(ctx, userID, deckID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID, deckID)
}

// AddCard puts one copy of a card into zone, enforcing ban, copy and zone rules.
func (s *Service) AddCard(ctx context.Context, userID, deckID, cardID string, zone Zone) (Deck, Report, error) {
	return s.edit(ctx, userID, deckID, func(b *Builder) error {
		c, err := s.cards.Get(ctx, cardID)
		if err != nil {
			return err
		}
		return b.Add(c, zone)
	})
}

func (s *Service) RemoveCard(ctx context.Context, userID, deckID, cardID string, zone Zone) (Deck, Report, error) {
	return s.edit(ctx, userID, deckID, func(b *Builder) error {
		return b.Remove(cardID, zone)
	})
}

func (s *Service) edit(ctx context.Context, userID, deckID string, apply func(*Builder) error) (Deck, Report, error) {
	d, err := s.Get(ctx, userID, deckID)
	if err != nil {
		return Deck{}, Report{}, err
	}
	b := NewBuilder(d.Lists())
	if err := apply(b); err != nil {
		return Deck{}, Report{}, err
	}
	d.SetLists(b.Lists())
	rep, err := s.validate(ctx, d.Meta(), d.Lists())
	if err != nil {
		return Deck{}, Report{}, err
	}
	d.Valid = rep.Valid
	if err := s.repo.Update(ctx, &d); err != nil {
		return Deck{}, Report{}, err
	}
	return d, rep, nil
}

// Check evaluates unsaved lists: validity, price and how many copies the user owns.
func (s *Service) Check(ctx context.Context, userID string, meta Meta, l Lists) (CheckResult, error) {
	if userID == "" {
		return CheckResult{}, ErrUnauthorized
	}
	catalog, err := s.cards.GetMany(ctx, l.ids())
	if err != nil {
		return CheckResult{}, err
	}
	rep := Validate(meta, l, catalog)

	all := make([]CardRef, 0, len(l.Main)+len(l.Extra)+len(l.Side))
	all = append(all, l.Main...)
	all = append(all, l.Extra...)
	all = append(all, l.Side...)

	targets := map[string]int{}
	for _, ref := range all {
		targets[ref.ID] += ref.Quantity
	}
	owned, err := s.library.CheckMany(ctx, userID, targets)
	if err != nil {
		return CheckResult{}, err
	}
	hints := make(map[string]LibraryStatus, len(targets))
	for id, required := range targets {
		c := owned[id]
		hints[id] = LibraryStatus{Exists: c.Exists, HasEnough: c.HasEnough, Quantity: c.Quantity, Required: required}
	}

	return CheckResult{
		Report:  rep,
		Warning: rep.Warning(),
		Price: Price{
			Main:  ComputeDeckPrice(l.Main, catalog),
			Extra: ComputeDeckPrice(l.Extra, catalog),
			Side:  ComputeDeckPrice(l.Side, catalog),
			Total: ComputeDeckPrice(all, catalog),
		},
		Library: hints,
	}, nil
}

// Export renders a stored deck as .ydk text.
func (s *Service) Export(ctx context.Context, userID, deckID string) (Deck, []byte, error) {
	d, err := s.Get(ctx, userID, deckID)
	if err != nil {
		return Deck{}, nil, err
	}
	var buf bytes.Buffer
	if err := WriteYDK(&buf, d.Lists(), "ygodeck"); err != nil {
		return Deck{}, nil, err
	}
	return d, buf.Bytes(), nil
}

// Import parses .ydk text into lists and flags passcodes missing from the catalog.
func (s *Service) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	res, err := ParseYDK(r)
	if err != nil {
		return ImportResult{}, err
	}
	ids := res.Lists.ids()
	catalog, err := s.cards.GetMany(ctx, ids)
	if err != nil {
		return ImportResult{}, err
	}
	for _, id := range ids {
		if _, ok := catalog[id]; !ok {
			res.Warnings = append(res.Warnings, "card not found: "+id)
		}
	}
	return res, nil
}
