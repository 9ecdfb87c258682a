package pricelists

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/pricing-engine/internal/pricing"
	"github.com/angelmondragon/pricing-engine/pkg/db/models"
)

func toPricingEntry(row *models.PriceListEntry) pricing.Entry {
	return pricing.Entry{
		ID:          row.ID,
		ProductID:   row.ProductID,
		PriceList:   toPricingList(row.PriceList),
		Price:       row.Price,
		Currency:    row.Currency,
		Status:      row.Status,
		MinQuantity: row.MinQuantity,
		MaxQuantity: row.MaxQuantity,
	}
}

func toPricingList(row *models.PriceList) *pricing.PriceList {
	if row == nil {
		return nil
	}
	var partners []uuid.UUID
	if len(row.Partners) > 0 {
		partners = make([]uuid.UUID, 0, len(row.Partners))
		for _, p := range row.Partners {
			partners = append(partners, p.PartnerID)
		}
	}
	return &pricing.PriceList{
		ID:         row.ID,
		Name:       row.Name,
		ValidFrom:  row.ValidFrom,
		ValidTo:    row.ValidTo,
		Status:     row.Status,
		IsDefault:  row.IsDefault,
		Priority:   row.Priority,
		CreatedAt:  row.CreatedAt,
		PartnerIDs: partners,
	}
}
