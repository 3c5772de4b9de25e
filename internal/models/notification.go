package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is an in-app notification owned by a single recipient.
// Exactly one is derived per stored chat message.
type Notification struct {
	BaseModel

	UserID   string         `gorm:"type:uuid;index;not null" json:"user_id"`
	Body     string         `gorm:"type:varchar(255);not null" json:"body"`
	Metadata datatypes.JSON `json:"metadata,omitempty"`

	IsRead bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt *time.Time `json:"read_at,omitempty"`
}
