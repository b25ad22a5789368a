package model

import (
	"time"

	"github.com/google/uuid"
)

type MaintenanceStatus string

const (
	MaintenancePlanned    MaintenanceStatus = "planned"
	MaintenanceInProgress MaintenanceStatus = "in_progress"
	MaintenanceDone       MaintenanceStatus = "done"
)

// Maintenance is a site-scoped work record. Completing one may consume
// spare parts, which shows up in the ledger as exit movements carrying a
// RelatedRef back to this record.
type Maintenance struct {
	BaseModel
	SiteID uuid.UUID `gorm:"type:uuid;not null;index" json:"site_id" validate:"uuid_required"`
	Site   *Site     `gorm:"foreignKey:SiteID" json:"site,omitempty"`

	ZoneID *uuid.UUID `gorm:"type:uuid;index" json:"zone_id,omitempty"`
	Zone   *Zone      `gorm:"foreignKey:ZoneID" json:"zone,omitempty" validate:"-"`

	Title       string            `gorm:"type:varchar(255);not null" json:"title" validate:"required"`
	Description string            `gorm:"type:text" json:"description"`
	Status      MaintenanceStatus `gorm:"type:varchar(20);not null;default:'planned'" json:"status" validate:"omitempty,oneof=planned in_progress done"`

	ScheduledDate *time.Time `gorm:"type:date;index" json:"scheduled_date,omitempty"`
	CompletedDate *time.Time `gorm:"type:date" json:"completed_date,omitempty"`

	AssignedToID *uuid.UUID `gorm:"type:uuid;index" json:"assigned_to_id,omitempty"`
	AssignedTo   *User      `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty" validate:"-"`
}

func (Maintenance) TableName() string {
	return "maintenances"
}
