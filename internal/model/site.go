package model

// Site is a tenant: one physical facility whose operational data is
// isolated from every other facility. At most one Site carries the
// headquarters flag; headquarters gets read-only visibility across all
// sites and may never own operational data of its own.
type Site struct {
	BaseModel
	Code           string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required"`
	Name           string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Address        string `gorm:"type:text" json:"address"`
	IsHeadquarters bool   `gorm:"default:false" json:"is_headquarters"`

	Zones []Zone `json:"zones,omitempty"`
}

func (Site) TableName() string {
	return "sites"
}
