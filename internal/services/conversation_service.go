package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hudumahub/hudumahub/internal/models"
	apperrors "github.com/hudumahub/hudumahub/pkg/errors"
)

// ConversationService owns the directory of canonical two-party threads.
type ConversationService struct {
	db *gorm.DB
}

// NewConversationService constructs a ConversationService.
func NewConversationService(db *gorm.DB) (*ConversationService, error) {
	if db == nil {
		return nil, errors.New("conversation service: db is required")
	}
	return &ConversationService{db: db}, nil
}

// GetOrCreate resolves the unique conversation for an unordered user pair,
// creating it on first contact. Idempotent: GetOrCreate(A, B) and
// GetOrCreate(B, A) return the same row. Concurrent first-contact callers
// converge through the pair's unique index: the insert tolerates a conflict
// and the follow-up lookup returns whichever row won.
func (s *ConversationService) GetOrCreate(ctx context.Context, userA, userB string) (*models.Conversation, error) {
	ctx = ensureContext(ctx)

	userA = strings.TrimSpace(userA)
	userB = strings.TrimSpace(userB)
	if userA == "" || userB == "" {
		return nil, apperrors.NewValidation("participants", "both user ids are required")
	}
	if userA == userB {
		return nil, apperrors.NewValidation("participants", "must be two distinct users")
	}

	low, high := orderPair(userA, userB)

	var conversation models.Conversation
	err := s.pairQuery(ctx, low, high).First(&conversation).Error
	if err == nil {
		return &conversation, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("conversation service: lookup pair: %w", err)
	}

	created := models.Conversation{
		ParticipantLowID:  low,
		ParticipantHighID: high,
	}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&created).Error; err != nil {
		return nil, fmt.Errorf("conversation service: create pair: %w", err)
	}

	// Re-read regardless of who inserted; a concurrent caller may have won.
	if err := s.pairQuery(ctx, low, high).First(&conversation).Error; err != nil {
		return nil, fmt.Errorf("conversation service: load pair after create: %w", err)
	}

	return &conversation, nil
}

// Get loads a conversation by id, enforcing that the caller participates in it.
func (s *ConversationService) Get(ctx context.Context, userID, conversationID string) (*models.Conversation, error) {
	ctx = ensureContext(ctx)

	var conversation models.Conversation
	if err := s.db.WithContext(ctx).First(&conversation, "id = ?", conversationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("conversation service: load conversation: %w", err)
	}

	if !conversation.Includes(userID) {
		return nil, apperrors.ErrForbidden
	}

	return &conversation, nil
}

// ListForUser returns all conversations the user participates in, most
// recently created first.
func (s *ConversationService) ListForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	ctx = ensureContext(ctx)

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("conversation service: user id is required")
	}

	var conversations []models.Conversation
	if err := s.db.WithContext(ctx).
		Where("participant_low_id = ? OR participant_high_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&conversations).Error; err != nil {
		return nil, fmt.Errorf("conversation service: list for user: %w", err)
	}

	return conversations, nil
}

// Messages returns the conversation's messages in chronological order,
// with id as the tie-break for identical timestamps.
func (s *ConversationService) Messages(ctx context.Context, userID, conversationID string) ([]models.Message, error) {
	ctx = ensureContext(ctx)

	if _, err := s.Get(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	var messages []models.Message
	if err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("conversation service: list messages: %w", err)
	}

	return messages, nil
}

func (s *ConversationService) pairQuery(ctx context.Context, low, high string) *gorm.DB {
	return s.db.WithContext(ctx).
		Where("participant_low_id = ? AND participant_high_id = ?", low, high)
}
