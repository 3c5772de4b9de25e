package models

import "time"

// BookingStatus enumerates the booking lifecycle.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Valid reports whether the status is one of the known values.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return true
	}
	return false
}

// Booking is a client's appointment with a provider.
type Booking struct {
	BaseModel

	ClientID   string `gorm:"type:uuid;index;not null" json:"client_id"`
	ProviderID string `gorm:"type:uuid;index;not null" json:"provider_id"`

	ServiceDate time.Time     `gorm:"not null" json:"service_date"`
	Status      BookingStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
}

// Favorite bookmarks a provider for a user; the pair is unique.
type Favorite struct {
	BaseModel

	UserID     string `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_provider" json:"user_id"`
	ProviderID string `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_provider" json:"provider_id"`
}

// Report flags a provider for admin review.
type Report struct {
	BaseModel

	ReporterID string `gorm:"type:uuid;index;not null" json:"reporter_id"`
	ProviderID string `gorm:"type:uuid;index;not null" json:"provider_id"`

	Description string `gorm:"type:text;not null" json:"description"`
	IsResolved  bool   `gorm:"default:false" json:"is_resolved"`
}
