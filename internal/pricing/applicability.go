package pricing

import (
	"time"

	"github.com/angelmondragon/pricing-engine/pkg/enums"
)

// IsApplicable reports whether entry can be quoted for quantity units at evaluationDate.
// Checks run in order: entry status, owning list status, validity window (both bounds
// inclusive, nil bounds open) and quantity bracket. Any failing check yields false.
func IsApplicable(entry Entry, evaluationDate time.Time, quantity int) bool {
	if entry.Status != enums.EntryStatusActive {
		return false
	}
	list := entry.PriceList
	if list == nil || list.Status != enums.PriceListStatusActive {
		return false
	}
	if !withinValidity(list, evaluationDate) {
		return false
	}
	return withinBracket(entry, quantity)
}

func withinValidity(list *PriceList, at time.Time) bool {
	if list.ValidFrom != nil && at.Before(*list.ValidFrom) {
		return false
	}
	if list.ValidTo != nil && at.After(*list.ValidTo) {
		return false
	}
	return true
}

func withinBracket(entry Entry, quantity int) bool {
	if quantity < entry.EffectiveMinQuantity() {
		return false
	}
	return entry.MaxQuantity == 0 || quantity <= entry.MaxQuantity
}
