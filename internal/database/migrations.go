package database

import (
	"gorm.io/gorm"

	"github.com/hudumahub/hudumahub/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.ActivityLog{},
		&models.Conversation{},
		&models.Message{},
		&models.Notification{},
		&models.Sector{},
		&models.Subcategory{},
		&models.ProviderProfile{},
		&models.PortfolioMedia{},
		&models.Review{},
		&models.Booking{},
		&models.Favorite{},
		&models.Report{},
	)
}
