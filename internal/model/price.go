package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricePoint is one timestamped price record for an item, optionally tied
// to a supplier. The history is append-mostly: points are created by entry
// movements whose unit price differs from the effective one, or directly
// through the price management endpoint. The "current price" is the point
// with the latest effective date at or before now, ties broken by most
// recent creation.
type PricePoint struct {
	BaseModel
	SiteID uuid.UUID `gorm:"type:uuid;not null;index" json:"site_id"`
	ItemID uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id" validate:"uuid_required"`
	Item   *Item     `gorm:"foreignKey:ItemID" json:"item,omitempty" validate:"-"`

	SupplierID *uuid.UUID `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	Supplier   *Supplier  `gorm:"foreignKey:SupplierID" json:"supplier,omitempty" validate:"-"`

	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	EffectiveDate time.Time       `gorm:"not null;index" json:"effective_date"`
	Notes         string          `gorm:"type:text" json:"notes"`
}

func (PricePoint) TableName() string {
	return "item_prices"
}
