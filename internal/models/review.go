package models

// Review is a client rating of a provider. The rating range invariant is
// enforced by the review service before persistence.
type Review struct {
	BaseModel

	ProviderID string `gorm:"type:uuid;index;not null" json:"provider_id"`
	ClientID   string `gorm:"type:uuid;index;not null" json:"client_id"`

	Rating  int    `gorm:"index;not null" json:"rating"`
	Comment string `gorm:"type:text" json:"comment,omitempty"`

	ProviderResponse string `gorm:"type:text" json:"provider_response,omitempty"`

	IsApproved bool `gorm:"default:false" json:"is_approved"`
	Upvotes    int  `gorm:"default:0" json:"upvotes"`
	Downvotes  int  `gorm:"default:0" json:"downvotes"`
}
