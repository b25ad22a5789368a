package model

import "github.com/google/uuid"

// Material is a consumable counterpart an exit movement can name (the
// cleaning product, the spare-part family). Its usage counter tracks how
// many times exits referenced it; the counter lives here rather than on
// Item because a material is not itself stocked.
type Material struct {
	BaseModel
	SiteID uuid.UUID `gorm:"type:uuid;not null;index" json:"site_id" validate:"uuid_required"`
	Site   *Site     `gorm:"foreignKey:SiteID" json:"site,omitempty"`
	Name   string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`

	UsageCount int `gorm:"default:0" json:"usage_count"`
}

func (Material) TableName() string {
	return "materials"
}
