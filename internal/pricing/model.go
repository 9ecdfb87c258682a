package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pricing-engine/pkg/enums"
)

// PriceList is the read-only snapshot of a price list as seen by the engine.
//
// Priority follows a "larger wins" convention: a list with Priority 50 outranks one with
// Priority 10. PartnerIDs holds the business partners the list is assigned to; an empty
// set marks the list as generic.
type PriceList struct {
	ID         uuid.UUID
	Name       string
	ValidFrom  *time.Time
	ValidTo    *time.Time
	Status     enums.PriceListStatus
	IsDefault  bool
	Priority   int
	CreatedAt  time.Time
	PartnerIDs []uuid.UUID
}

// IsPartnerRestricted reports whether at least one partner is assigned to the list.
func (p *PriceList) IsPartnerRestricted() bool {
	return p != nil && len(p.PartnerIDs) > 0
}

// AssignedTo reports whether the list carries an assignment for partnerID.
func (p *PriceList) AssignedTo(partnerID uuid.UUID) bool {
	if p == nil {
		return false
	}
	for _, id := range p.PartnerIDs {
		if id == partnerID {
			return true
		}
	}
	return false
}

// Entry is one product's price inside a PriceList.
type Entry struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	PriceList   *PriceList
	Price       decimal.Decimal
	Currency    string
	Status      enums.EntryStatus
	MinQuantity int
	// MaxQuantity of 0 leaves the bracket open-ended.
	MaxQuantity int
}

// EffectiveMinQuantity returns MinQuantity, treating unset values as 1.
func (e Entry) EffectiveMinQuantity() int {
	if e.MinQuantity < 1 {
		return 1
	}
	return e.MinQuantity
}
