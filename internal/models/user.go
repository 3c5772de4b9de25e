package models

// Role enumerates the closed set of platform roles. Role checks go through
// the permissions package rather than string comparison at call sites.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleSectorAdmin Role = "sector_admin"
	RoleProvider    Role = "provider"
	RoleClient      Role = "client"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSectorAdmin, RoleProvider, RoleClient:
		return true
	}
	return false
}

// User describes a platform account. Clients book and review providers;
// providers own a ProviderProfile; admins manage the directory.
type User struct {
	BaseModel

	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	Role           Role   `gorm:"type:varchar(20);index;default:'client'" json:"role"`
	ProfilePicture string `gorm:"type:text" json:"profile_picture,omitempty"`
	IsActive       bool   `gorm:"default:true" json:"is_active"`
}

// ActivityLog records a user-visible action for audit trails.
type ActivityLog struct {
	BaseModel

	UserID string `gorm:"type:uuid;index;not null" json:"user_id"`
	Action string `gorm:"type:varchar(255);not null" json:"action"`
}
