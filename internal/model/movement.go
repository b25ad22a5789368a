package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MovementType string

const (
	MovementEntry MovementType = "entry"
	MovementExit  MovementType = "exit"
)

// RelatedKind tags what kind of entity an exit movement was consumed by.
type RelatedKind string

const (
	RelatedMaintenance RelatedKind = "maintenance"
)

// RelatedRef is a tagged reference from an exit movement to the entity
// that consumed the stock. Nil means the exit stands on its own.
type RelatedRef struct {
	Kind RelatedKind `json:"kind"`
	ID   uuid.UUID   `json:"id"`
}

// MaintenanceRef builds a RelatedRef pointing at a maintenance record.
func MaintenanceRef(id uuid.UUID) *RelatedRef {
	return &RelatedRef{Kind: RelatedMaintenance, ID: id}
}

// Movement is one row of the append-only stock ledger. It is immutable
// after creation: the only mutation path is deletion, which reverses the
// exact counters the movement applied to its Item.
type Movement struct {
	BaseModel
	SiteID uuid.UUID `gorm:"type:uuid;not null;index" json:"site_id"`
	ItemID uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id" validate:"uuid_required"`
	Item   *Item     `gorm:"foreignKey:ItemID" json:"item,omitempty" validate:"-"`

	Type     MovementType `gorm:"type:varchar(10);not null" json:"type" validate:"required,oneof=entry exit"`
	Quantity int          `gorm:"not null" json:"quantity" validate:"required,gt=0"`

	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_price"` // quantity * unit price snapshot

	// Business date of the movement, distinct from CreatedAt
	MovementDate time.Time `gorm:"not null;index" json:"movement_date"`

	// Entry-only fields
	SupplierID    *uuid.UUID `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	Supplier      *Supplier  `gorm:"foreignKey:SupplierID" json:"supplier,omitempty" validate:"-"`
	InvoiceNumber string     `gorm:"type:varchar(100)" json:"invoice_number,omitempty"`
	InvoiceDate   *time.Time `gorm:"type:date" json:"invoice_date,omitempty"`

	// Exit-only fields
	MaterialID  *uuid.UUID  `gorm:"type:uuid;index" json:"material_id,omitempty"`
	RelatedKind RelatedKind `gorm:"type:varchar(30)" json:"related_kind,omitempty"`
	RelatedID   *uuid.UUID  `gorm:"type:uuid;index" json:"related_id,omitempty"`

	Notes string `gorm:"type:text" json:"notes"`
}

func (Movement) TableName() string {
	return "item_movements"
}

// Related returns the tagged reference carried by an exit, nil when the
// movement is not tied to another entity.
func (m *Movement) Related() *RelatedRef {
	if m.RelatedKind == "" || m.RelatedID == nil {
		return nil
	}
	return &RelatedRef{Kind: m.RelatedKind, ID: *m.RelatedID}
}

// SetRelated stores a tagged reference on the movement.
func (m *Movement) SetRelated(ref *RelatedRef) {
	if ref == nil {
		m.RelatedKind = ""
		m.RelatedID = nil
		return
	}
	m.RelatedKind = ref.Kind
	id := ref.ID
	m.RelatedID = &id
}
