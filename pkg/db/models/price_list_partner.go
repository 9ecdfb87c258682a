package models

import (
	"time"

	"github.com/google/uuid"
)

// PriceListPartner assigns a business partner to a price list.
type PriceListPartner struct {
	PriceListID uuid.UUID `gorm:"column:price_list_id;type:uuid;primaryKey"`
	PartnerID   uuid.UUID `gorm:"column:partner_id;type:uuid;primaryKey;index"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (PriceListPartner) TableName() string { return "price_list_partners" }
