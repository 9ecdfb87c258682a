package pricing

import (
	"bytes"
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"
)

// PrecedenceStrategy decides which applicable entries win. Applicability is part of the
// surface so a strategy can add eligibility dimensions together with its ordering.
type PrecedenceStrategy interface {
	// OrderByPrecedence returns the entries best-first. The input slice is not modified.
	OrderByPrecedence(entries []Entry, partnerID *uuid.UUID) []Entry
	IsEntryApplicable(entry Entry, evaluationDate time.Time, quantity int) bool
}

// DefaultStrategy ranks partner-assigned lists first when a partner is known, hides
// partner-restricted lists from anonymous callers, and breaks ties by priority
// (higher first), default flag, recency and finally entry ID.
type DefaultStrategy struct{}

func (DefaultStrategy) IsEntryApplicable(entry Entry, evaluationDate time.Time, quantity int) bool {
	return IsApplicable(entry, evaluationDate, quantity)
}

func (DefaultStrategy) OrderByPrecedence(entries []Entry, partnerID *uuid.UUID) []Entry {
	return orderWithin(entries, partnerID, compareListPrecedence)
}

// orderWithin applies partner visibility and grouping, then sorts each group with within.
// Entries without an owning list are dropped.
func orderWithin(entries []Entry, partnerID *uuid.UUID, within func(a, b Entry) int) []Entry {
	visible := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.PriceList == nil {
			continue
		}
		if partnerID == nil && entry.PriceList.IsPartnerRestricted() {
			continue
		}
		visible = append(visible, entry)
	}

	slices.SortStableFunc(visible, func(a, b Entry) int {
		if partnerID != nil {
			if c := cmp.Compare(partnerGroup(a, *partnerID), partnerGroup(b, *partnerID)); c != 0 {
				return c
			}
		}
		return within(a, b)
	})
	return visible
}

func partnerGroup(entry Entry, partnerID uuid.UUID) int {
	if entry.PriceList.AssignedTo(partnerID) {
		return 0
	}
	return 1
}

// compareListPrecedence is the composite priority/default/created_at/id comparator.
func compareListPrecedence(a, b Entry) int {
	la, lb := a.PriceList, b.PriceList
	if c := cmp.Compare(lb.Priority, la.Priority); c != 0 {
		return c
	}
	if la.IsDefault != lb.IsDefault {
		if la.IsDefault {
			return -1
		}
		return 1
	}
	if c := lb.CreatedAt.Compare(la.CreatedAt); c != 0 {
		return c
	}
	return compareIDs(a.ID, b.ID)
}

func compareIDs(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}

// LowestPriceStrategy keeps the partner rules of DefaultStrategy but, inside each partner
// group, prefers the cheapest entry. Remaining ties fall back to the default chain.
type LowestPriceStrategy struct{}

func (LowestPriceStrategy) IsEntryApplicable(entry Entry, evaluationDate time.Time, quantity int) bool {
	return IsApplicable(entry, evaluationDate, quantity)
}

func (LowestPriceStrategy) OrderByPrecedence(entries []Entry, partnerID *uuid.UUID) []Entry {
	return orderWithin(entries, partnerID, func(a, b Entry) int {
		if c := a.Price.Cmp(b.Price); c != 0 {
			return c
		}
		return compareListPrecedence(a, b)
	})
}
