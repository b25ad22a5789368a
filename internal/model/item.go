package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a stocked article owned by a single Site. The running counters
// are the persisted ground truth for stock level: they are a materialized
// view of the movement ledger and are only ever touched inside the ledger
// service's transactions (RecordEntry / RecordExit / DeleteMovement).
type Item struct {
	BaseModel
	SiteID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_items_site_reference" json:"site_id" validate:"uuid_required"`
	Site   *Site     `gorm:"foreignKey:SiteID" json:"site,omitempty"`

	Reference string `gorm:"type:varchar(50);not null;uniqueIndex:idx_items_site_reference" json:"reference" validate:"required"`
	Name      string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Unit      string `gorm:"type:varchar(20)" json:"unit"`

	// Ledger counters (see Derived Stock Projection)
	EntryTotal int `gorm:"default:0" json:"entry_total"`
	ExitTotal  int `gorm:"default:0" json:"exit_total"`
	EntryCount int `gorm:"default:0" json:"entry_count"`
	ExitCount  int `gorm:"default:0" json:"exit_count"`

	// Stock alert thresholds
	WarningEnabled  bool `gorm:"default:false" json:"warning_enabled"`
	WarningQty      int  `gorm:"default:0" json:"warning_qty"`
	CriticalEnabled bool `gorm:"default:false" json:"critical_enabled"`
	CriticalQty     int  `gorm:"default:0" json:"critical_qty"`

	// Fallback price when no price history exists yet
	PurchasePrice decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"purchase_price"`
	Currency      string          `gorm:"type:varchar(3);default:'EUR'" json:"currency"`

	Movements   []Movement   `json:"movements,omitempty"`
	PricePoints []PricePoint `json:"price_points,omitempty"`
}

func (Item) TableName() string {
	return "items"
}

// CurrentStock derives the on-hand quantity from the counters.
func (i *Item) CurrentStock() int {
	return i.EntryTotal - i.ExitTotal
}

// StockLevel classifications against the alert thresholds.
const (
	StockOK       = "ok"
	StockWarning  = "warning"
	StockCritical = "critical"
)

// StockLevel reports how the current stock sits against the item's
// thresholds. Critical wins over warning when both are crossed.
func (i *Item) StockLevel() string {
	return i.StockLevelAt(i.CurrentStock())
}

// StockLevelAt classifies an arbitrary stock quantity against the
// thresholds (used to grade a projected stock before it is re-read).
func (i *Item) StockLevelAt(stock int) string {
	if i.CriticalEnabled && stock <= i.CriticalQty {
		return StockCritical
	}
	if i.WarningEnabled && stock <= i.WarningQty {
		return StockWarning
	}
	return StockOK
}
