package model

import "github.com/google/uuid"

// Zone is an area inside a Site (floor, wing, room group). Maintenances
// are located against a zone. A site cannot be deleted while it still
// owns zones.
type Zone struct {
	BaseModel
	SiteID uuid.UUID `gorm:"type:uuid;not null;index" json:"site_id" validate:"uuid_required"`
	Site   *Site     `gorm:"foreignKey:SiteID" json:"site,omitempty"`
	Name   string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Floor  string    `gorm:"type:varchar(50)" json:"floor"`
}

func (Zone) TableName() string {
	return "zones"
}
