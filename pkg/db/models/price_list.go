package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/pricing-engine/pkg/enums"
)

// PriceList is a named, time-bounded set of product prices.
type PriceList struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Name      string                `gorm:"column:name;not null"`
	ValidFrom *time.Time            `gorm:"column:valid_from"`
	ValidTo   *time.Time            `gorm:"column:valid_to"`
	Status    enums.PriceListStatus `gorm:"column:status;type:varchar(16);not null;default:active"`
	IsDefault bool                  `gorm:"column:is_default;not null;default:false"`
	Priority  int                   `gorm:"column:priority;not null;default:0"`
	Entries   []PriceListEntry      `gorm:"foreignKey:PriceListID;constraint:OnDelete:CASCADE"`
	Partners  []PriceListPartner    `gorm:"foreignKey:PriceListID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt        `gorm:"column:deleted_at;index"`
}

func (PriceList) TableName() string { return "price_lists" }

// BeforeCreate assigns a client-side id so sqlite and postgres behave alike.
func (p *PriceList) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
