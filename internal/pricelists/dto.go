package pricelists

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pricing-engine/pkg/db/models"
)

// PriceListDTO is the price list payload returned to admin clients.
type PriceListDTO struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	ValidFrom  *time.Time  `json:"valid_from,omitempty"`
	ValidTo    *time.Time  `json:"valid_to,omitempty"`
	Status     string      `json:"status"`
	IsDefault  bool        `json:"is_default"`
	Priority   int         `json:"priority"`
	PartnerIDs []uuid.UUID `json:"partner_ids"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// EntryDTO is the price list entry payload returned to admin clients.
type EntryDTO struct {
	ID          uuid.UUID       `json:"id"`
	PriceListID uuid.UUID       `json:"price_list_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Status      string          `json:"status"`
	MinQuantity int             `json:"min_quantity"`
	MaxQuantity int             `json:"max_quantity"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewPriceListDTO maps a persisted list to its API payload.
func NewPriceListDTO(list *models.PriceList) *PriceListDTO {
	if list == nil {
		return nil
	}
	partners := make([]uuid.UUID, 0, len(list.Partners))
	for _, p := range list.Partners {
		partners = append(partners, p.PartnerID)
	}
	return &PriceListDTO{
		ID:         list.ID,
		Name:       list.Name,
		ValidFrom:  list.ValidFrom,
		ValidTo:    list.ValidTo,
		Status:     list.Status.String(),
		IsDefault:  list.IsDefault,
		Priority:   list.Priority,
		PartnerIDs: partners,
		CreatedAt:  list.CreatedAt,
		UpdatedAt:  list.UpdatedAt,
	}
}

// NewEntryDTO maps a persisted entry to its API payload.
func NewEntryDTO(entry *models.PriceListEntry) *EntryDTO {
	if entry == nil {
		return nil
	}
	return &EntryDTO{
		ID:          entry.ID,
		PriceListID: entry.PriceListID,
		ProductID:   entry.ProductID,
		Price:       entry.Price,
		Currency:    entry.Currency,
		Status:      entry.Status.String(),
		MinQuantity: entry.MinQuantity,
		MaxQuantity: entry.MaxQuantity,
		CreatedAt:   entry.CreatedAt,
	}
}
