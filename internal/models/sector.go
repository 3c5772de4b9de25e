package models

// Sector is a top-level service category (e.g. plumbing, catering).
type Sector struct {
	BaseModel

	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Thumbnail   string `gorm:"type:text" json:"thumbnail,omitempty"`

	Subcategories []Subcategory `gorm:"foreignKey:SectorID" json:"subcategories,omitempty"`
}

// Subcategory refines a sector; names are unique within their sector.
type Subcategory struct {
	BaseModel

	SectorID    string `gorm:"type:uuid;not null;uniqueIndex:idx_subcategory_sector_name" json:"sector_id"`
	Name        string `gorm:"not null;uniqueIndex:idx_subcategory_sector_name" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Thumbnail   string `gorm:"type:text" json:"thumbnail,omitempty"`
}
