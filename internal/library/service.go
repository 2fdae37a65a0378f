package library

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	mergeAttempts = 3
	recentLimit   = 5
)

type Service struct {
	repo   Repository
	cards  CardSource
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func NewService(repo Repository, cards CardSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, cards: cards, logger: logger, now: time.Now, newID: uuid.NewString}
}

// Added describes the outcome of AddCard.
type Added struct {
	Entry    Entry  `json:"entry"`
	CardName string `json:"cardName"`
	Merged   bool   `json:"merged"`
}

// Removed describes the outcome of RemoveIssues. Entry is nil when the last
// issue was removed and the entry deleted with it.
type Removed struct {
	Entry        *Entry `json:"entry,omitempty"`
	EntryDeleted bool   `json:"entryDeleted"`
}

// AddCard records a printing in the user's library, merging it into an
// existing issue with the same language, rarity and set code. Concurrent
// writers are detected by version and the merge is recomputed.
func (s *Service) AddCard(ctx context.Context, userID, cardID string, in IssueInput) (Added, error) {
	if userID == "" {
		return Added{}, ErrUnauthorized
	}
	c, err := s.cards.Get(ctx, cardID)
	if err != nil {
		return Added{}, err
	}

	var lastErr error
	for attempt := 1; attempt <= mergeAttempts; attempt++ {
		added, err := s.addOnce(ctx, userID, cardID, in)
		if err == nil {
			added.CardName = c.Name
			return added, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return Added{}, err
		}
		lastErr = err
		s.logger.Debug("library merge conflict, retrying",
			zap.String("card_id", cardID),
			zap.Int("attempt", attempt))
	}
	return Added{}, lastErr
}

func (s *Service) addOnce(ctx context.Context, userID, cardID string, in IssueInput) (Added, error) {
	now := s.now().UTC()
	e, err := s.repo.GetByUserAndCard(ctx, userID, cardID)
	if errors.Is(err, ErrNotFound) {
		issues, _ := MergeIssue(nil, in, now, s.newID)
		e = Entry{UserID: userID, CardID: cardID, Issues: issues}
		if err := s.repo.Create(ctx, &e); err != nil {
			return Added{}, err
		}
		return Added{Entry: e}, nil
	}
	if err != nil {
		return Added{}, err
	}

	issues, merged := MergeIssue(e.Issues, in, now, s.newID)
	e.Issues = issues
	if err := s.repo.UpdateIssues(ctx, &e); err != nil {
		return Added{}, err
	}
	return Added{Entry: e, Merged: merged}, nil
}

// owned loads an entry and hides entries of other users behind ErrNotFound.
func (s *Service) owned(ctx context.Context, userID, entryID string) (Entry, error) {
	if userID == "" {
		return Entry{}, ErrUnauthorized
	}
	if _, err := uuid.Parse(entryID); err != nil {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, entryID)
	}
	e, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		return Entry{}, err
	}
	if e.UserID != userID {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, entryID)
	}
	return e, nil
}

// RemoveIssues drops issues by id and deletes the entry once none remain.
func (s *Service) RemoveIssues(ctx context.Context, userID, entryID string, issueIDs []string) (Removed, error) {
	e, err := s.owned(ctx, userID, entryID)
	if err != nil {
		return Removed{}, err
	}
	remaining := RemoveIssues(e.Issues, issueIDs)
	if len(remaining) == 0 {
		if err := s.repo.Delete(ctx, e.ID, e.Version); err != nil {
			return Removed{}, err
		}
		return Removed{EntryDeleted: true}, nil
	}
	e.Issues = remaining
	if err := s.repo.UpdateIssues(ctx, &e); err != nil {
		return Removed{}, err
	}
	return Removed{Entry: &e}, nil
}

func (s *Service) UpdateIssueQuantity(ctx context.Context, userID, entryID, issueID string, quantity int) (Entry, error) {
	e, err := s.owned(ctx, userID, entryID)
	if err != nil {
		return Entry{}, err
	}
	issues, err := SetIssueQuantity(e.Issues, issueID, quantity, s.now().UTC())
	if err != nil {
		return Entry{}, err
	}
	e.Issues = issues
	if err := s.repo.UpdateIssues(ctx, &e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *Service) UpdateIssuesStatus(ctx context.Context, userID, entryID string, issueIDs []string, tradeable bool) (Entry, error) {
	e, err := s.owned(ctx, userID, entryID)
	if err != nil {
		return Entry{}, err
	}
	e.Issues = SetIssuesTradeable(e.Issues, issueIDs, tradeable, s.now().UTC())
	if err := s.repo.UpdateIssues(ctx, &e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// SetTradeable flags every issue of the listed entries and returns how many entries changed.
func (s *Service) SetTradeable(ctx context.Context, userID string, entryIDs []string, tradeable bool) (int64, error) {
	if userID == "" {
		return 0, ErrUnauthorized
	}
	return s.repo.SetTradeable(ctx, userID, entryIDs, tradeable, s.now().UTC())
}

func (s *Service) RemoveEntries(ctx context.Context, userID string, entryIDs []string) (int64, error) {
	if userID == "" {
		return 0, ErrUnauthorized
	}
	n, err := s.repo.DeleteMany(ctx, userID, entryIDs)
	if err != nil {
		return 0, err
	}
	s.logger.Info("library entries removed", zap.String("user_id", userID), zap.Int64("count", n))
	return n, nil
}

// List returns the user's entries joined with the catalog, most recently updated first.
// Entries whose card left the catalog are skipped.
func (s *Service) List(ctx context.Context, userID string) ([]Item, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	entries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.join(ctx, entries)
}

// Recent is the dashboard summary of the last few updated entries.
func (s *Service) Recent(ctx context.Context, userID string) ([]Item, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	entries, err := s.repo.ListRecent(ctx, userID, recentLimit)
	if err != nil {
		return nil, err
	}
	return s.join(ctx, entries)
}

func (s *Service) join(ctx context.Context, entries []Entry) ([]Item, error) {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.CardID)
	}
	cards, err := s.cards.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		c, ok := cards[e.CardID]
		if !ok {
			s.logger.Warn("library entry references unknown card",
				zap.String("entry_id", e.ID), zap.String("card_id", e.CardID))
			continue
		}
		items = append(items, newItem(e, c))
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, userID, entryID string) (Item, error) {
	e, err := s.owned(ctx, userID, entryID)
	if err != nil {
		return Item{}, err
	}
	c, err := s.cards.Get(ctx, e.CardID)
	if err != nil {
		return Item{}, err
	}
	return newItem(e, c), nil
}

// CheckCard reports whether the user owns at least target copies of a card.
func (s *Service) CheckCard(ctx context.Context, userID, cardID string, target int) (Check, error) {
	if userID == "" {
		return Check{}, ErrUnauthorized
	}
	e, err := s.repo.GetByUserAndCard(ctx, userID, cardID)
	if errors.Is(err, ErrNotFound) {
		return CheckEntry(nil, target), nil
	}
	if err != nil {
		return Check{}, err
	}
	return CheckEntry(&e, target), nil
}

// CheckMany runs CheckCard for every card of a deck with one store read.
func (s *Service) CheckMany(ctx context.Context, userID string, targets map[string]int) (map[string]Check, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	entries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	byCard := make(map[string]*Entry, len(entries))
	for i := range entries {
		byCard[entries[i].CardID] = &entries[i]
	}
	out := make(map[string]Check, len(targets))
	for id, target := range targets {
		out[id] = CheckEntry(byCard[id], target)
	}
	return out, nil
}
