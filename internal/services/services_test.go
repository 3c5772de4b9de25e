package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hudumahub/hudumahub/internal/database/testutil"
	"github.com/hudumahub/hudumahub/internal/models"
)

func createTestUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-hash",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTestProvider(t *testing.T, db *gorm.DB, username string) (*models.User, *models.ProviderProfile) {
	t.Helper()

	user := createTestUser(t, db, username, models.RoleProvider)
	profile := models.ProviderProfile{
		UserID:         user.ID,
		BusinessName:   username + " services",
		MembershipTier: models.TierFree,
	}
	require.NoError(t, db.Create(&profile).Error)
	return user, &profile
}

func newTestServices(t *testing.T) (*gorm.DB, *ConversationService, *MessageService, *NotificationService) {
	t.Helper()

	db := testutil.MustOpenTestDB(t)

	conversations, err := NewConversationService(db)
	require.NoError(t, err)
	notifications, err := NewNotificationService(db)
	require.NoError(t, err)
	messages, err := NewMessageService(db, conversations, notifications)
	require.NoError(t, err)

	return db, conversations, messages, notifications
}
