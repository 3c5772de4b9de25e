package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hudumahub/hudumahub/internal/models"
	apperrors "github.com/hudumahub/hudumahub/pkg/errors"
)

func TestConversationGetOrCreateCanonicalPair(t *testing.T) {
	_, conversations, _, _ := newTestServices(t)
	db := conversations.db

	alice := createTestUser(t, db, "alice", models.RoleClient)
	bob := createTestUser(t, db, "bob", models.RoleProvider)

	first, err := conversations.GetOrCreate(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)

	// Reversed argument order resolves to the same row.
	second, err := conversations.GetOrCreate(context.Background(), bob.ID, alice.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	low, high := orderPair(alice.ID, bob.ID)
	require.Equal(t, low, first.ParticipantLowID)
	require.Equal(t, high, first.ParticipantHighID)

	var count int64
	require.NoError(t, db.Model(&models.Conversation{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestConversationGetOrCreateRejectsInvalidPairs(t *testing.T) {
	_, conversations, _, _ := newTestServices(t)

	_, err := conversations.GetOrCreate(context.Background(), "user-1", "user-1")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "VALIDATION_FAILURE", appErr.Code)

	_, err = conversations.GetOrCreate(context.Background(), "", "user-2")
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "VALIDATION_FAILURE", appErr.Code)
}

func TestConversationGetEnforcesMembership(t *testing.T) {
	_, conversations, _, _ := newTestServices(t)
	db := conversations.db

	alice := createTestUser(t, db, "alice", models.RoleClient)
	bob := createTestUser(t, db, "bob", models.RoleProvider)
	mallory := createTestUser(t, db, "mallory", models.RoleClient)

	conversation, err := conversations.GetOrCreate(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = conversations.Get(context.Background(), alice.ID, conversation.ID)
	require.NoError(t, err)

	_, err = conversations.Get(context.Background(), mallory.ID, conversation.ID)
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = conversations.Get(context.Background(), alice.ID, "no-such-conversation")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestConversationMessagesChronological(t *testing.T) {
	_, conversations, messages, _ := newTestServices(t)
	db := conversations.db

	alice := createTestUser(t, db, "alice", models.RoleClient)
	bob := createTestUser(t, db, "bob", models.RoleProvider)

	for _, content := range []string{"first", "second", "third"} {
		_, err := messages.Append(context.Background(), AppendInput{
			SenderID:   alice.ID,
			ReceiverID: bob.ID,
			Content:    content,
		})
		require.NoError(t, err)
	}

	conversation, err := conversations.GetOrCreate(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)

	history, err := conversations.Messages(context.Background(), bob.ID, conversation.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	require.Equal(t, "first", history[0].Content)
	require.Equal(t, "third", history[2].Content)
}

func TestConversationListForUser(t *testing.T) {
	_, conversations, _, _ := newTestServices(t)
	db := conversations.db

	alice := createTestUser(t, db, "alice", models.RoleClient)
	bob := createTestUser(t, db, "bob", models.RoleProvider)
	carol := createTestUser(t, db, "carol", models.RoleProvider)

	_, err := conversations.GetOrCreate(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = conversations.GetOrCreate(context.Background(), alice.ID, carol.ID)
	require.NoError(t, err)

	mine, err := conversations.ListForUser(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)

	theirs, err := conversations.ListForUser(context.Background(), bob.ID)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
}
