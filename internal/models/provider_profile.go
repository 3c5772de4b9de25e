package models

// MembershipTier enumerates provider subscription levels.
type MembershipTier string

const (
	TierFree    MembershipTier = "free"
	TierPremium MembershipTier = "premium"
)

// ProviderProfile is the public directory entry for a service provider.
// Rating aggregates are never stored here; the discovery engine recomputes
// them from reviews on every query.
type ProviderProfile struct {
	BaseModel

	UserID string `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`

	BusinessName string `gorm:"type:varchar(255)" json:"business_name,omitempty"`
	Description  string `gorm:"type:text" json:"description,omitempty"`
	Website      string `gorm:"type:text" json:"website,omitempty"`
	Address      string `gorm:"type:varchar(255)" json:"address,omitempty"`

	County    string `gorm:"type:varchar(100);index" json:"county,omitempty"`
	Subcounty string `gorm:"type:varchar(100);index" json:"subcounty,omitempty"`
	Town      string `gorm:"type:varchar(100);index" json:"town,omitempty"`

	// Nullable coordinate; providers without one are invisible to geosearch.
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	SectorID      *string `gorm:"type:uuid;index" json:"sector_id,omitempty"`
	SubcategoryID *string `gorm:"type:uuid;index" json:"subcategory_id,omitempty"`

	// Comma-separated keywords used by free-text search.
	Tags string `gorm:"type:varchar(255)" json:"tags,omitempty"`

	IsVerified     bool           `gorm:"default:false" json:"is_verified"`
	IsFeatured     bool           `gorm:"default:false;index" json:"is_featured"`
	MembershipTier MembershipTier `gorm:"type:varchar(50);default:'free'" json:"membership_tier"`

	PortfolioMedia []PortfolioMedia `gorm:"foreignKey:ProviderID" json:"portfolio_media,omitempty"`
	Reviews        []Review         `gorm:"foreignKey:ProviderID" json:"-"`
}

// HasCoordinate reports whether the profile carries a usable geo point.
func (p *ProviderProfile) HasCoordinate() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// MediaType enumerates portfolio media kinds.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// PortfolioMedia is a provider-owned portfolio item. Upload validation and
// storage live outside this service; only the URL is recorded.
type PortfolioMedia struct {
	BaseModel

	ProviderID string    `gorm:"type:uuid;index;not null" json:"provider_id"`
	MediaType  MediaType `gorm:"type:varchar(10);not null" json:"media_type"`
	URL        string    `gorm:"type:text;not null" json:"url"`
	Caption    string    `gorm:"type:varchar(255)" json:"caption,omitempty"`
}
