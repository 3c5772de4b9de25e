package database

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hudumahub/hudumahub/internal/models"
)

func TestOpenSQLiteInMemoryAndMigrate(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite", DSN: "file:dbtest?mode=memory&cache=shared&_foreign_keys=1"})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	require.NoError(t, AutoMigrate(db))

	for _, table := range []string{
		"users", "conversations", "messages", "notifications",
		"provider_profiles", "reviews", "bookings", "favorites", "reports",
	} {
		require.True(t, db.Migrator().HasTable(table), "expected table %s", table)
	}
}

func TestConversationPairUniqueIndex(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite", DSN: "file:dbtest_pair?mode=memory&cache=shared&_foreign_keys=1"})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	require.NoError(t, AutoMigrate(db))

	first := models.Conversation{ParticipantLowID: "aaa", ParticipantHighID: "bbb"}
	require.NoError(t, db.Create(&first).Error)

	duplicate := models.Conversation{ParticipantLowID: "aaa", ParticipantHighID: "bbb"}
	require.Error(t, db.Create(&duplicate).Error)
}
