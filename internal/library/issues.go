package library

import (
	"fmt"
	"slices"
	"time"
)

// MergeIssue adds in to issues without mutating them. An issue with the same
// language, rarity and set code absorbs the quantity; otherwise a new issue is
// appended. merged reports which case applied.
func MergeIssue(issues []Issue, in IssueInput, now time.Time, newID func() string) (out []Issue, merged bool) {
	out = make([]Issue, len(issues), len(issues)+1)
	copy(out, issues)
	for i := range out {
		if out[i].matches(in) {
			out[i].Quantity += in.Quantity
			out[i].UpdatedAt = now
			return out, true
		}
	}
	return append(out, Issue{
		ID:        newID(),
		Language:  in.Language,
		Quantity:  in.Quantity,
		Tradeable: in.Tradeable,
		Rarity:    in.Rarity,
		Set:       in.Set,
		CreatedAt: now,
		UpdatedAt: now,
	}), false
}

// RemoveIssues returns issues minus those whose id is listed.
func RemoveIssues(issues []Issue, ids []string) []Issue {
	out := make([]Issue, 0, len(issues))
	for _, i := range issues {
		if !slices.Contains(ids, i.ID) {
			out = append(out, i)
		}
	}
	return out
}

// SetIssueQuantity replaces one issue's quantity. The result is ordered newest first.
func SetIssueQuantity(issues []Issue, issueID string, quantity int, now time.Time) ([]Issue, error) {
	out := slices.Clone(issues)
	idx := slices.IndexFunc(out, func(i Issue) bool { return i.ID == issueID })
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrIssueNotFound, issueID)
	}
	out[idx].Quantity = quantity
	out[idx].UpdatedAt = now
	sortNewestFirst(out)
	return out, nil
}

// SetIssuesTradeable flags the listed issues. Unknown ids are ignored.
func SetIssuesTradeable(issues []Issue, ids []string, tradeable bool, now time.Time) []Issue {
	out := slices.Clone(issues)
	for i := range out {
		if slices.Contains(ids, out[i].ID) {
			out[i].Tradeable = tradeable
			out[i].UpdatedAt = now
		}
	}
	sortNewestFirst(out)
	return out
}

func sortNewestFirst(issues []Issue) {
	slices.SortStableFunc(issues, func(a, b Issue) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
