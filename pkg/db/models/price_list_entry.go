package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/pricing-engine/pkg/enums"
)

// PriceListEntry prices one product inside a price list for a quantity bracket.
type PriceListEntry struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	PriceListID uuid.UUID         `gorm:"column:price_list_id;type:uuid;not null;index"`
	PriceList   *PriceList        `gorm:"foreignKey:PriceListID"`
	ProductID   uuid.UUID         `gorm:"column:product_id;type:uuid;not null;index"`
	Price       decimal.Decimal   `gorm:"column:price;type:numeric(14,4);not null"`
	Currency    string            `gorm:"column:currency;type:varchar(3);not null"`
	Status      enums.EntryStatus `gorm:"column:status;type:varchar(16);not null;default:active"`
	MinQuantity int               `gorm:"column:min_quantity;not null;default:1"`
	MaxQuantity int               `gorm:"column:max_quantity;not null;default:0"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt   gorm.DeletedAt    `gorm:"column:deleted_at;index"`
}

func (PriceListEntry) TableName() string { return "price_list_entries" }

func (e *PriceListEntry) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
