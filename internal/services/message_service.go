package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/hudumahub/hudumahub/internal/models"
	apperrors "github.com/hudumahub/hudumahub/pkg/errors"
	"github.com/hudumahub/hudumahub/pkg/metrics"
)

// MessageService persists chat messages under their canonical conversation
// and fans each stored message out to the receiver's notifications.
type MessageService struct {
	db            *gorm.DB
	conversations *ConversationService
	notifications *NotificationService
}

// NewMessageService constructs a MessageService.
func NewMessageService(db *gorm.DB, conversations *ConversationService, notifications *NotificationService) (*MessageService, error) {
	if db == nil {
		return nil, errors.New("message service: db is required")
	}
	if conversations == nil {
		return nil, errors.New("message service: conversation service is required")
	}
	if notifications == nil {
		return nil, errors.New("message service: notification service is required")
	}
	return &MessageService{db: db, conversations: conversations, notifications: notifications}, nil
}

// AppendInput carries a message to persist. Path labels the ingress surface
// for metrics only ("api" or "realtime").
type AppendInput struct {
	SenderID   string
	ReceiverID string
	Content    string
	Path       string
}

// Append stores a message under the canonical conversation for the pair and
// creates the receiver's notification inside the same transaction. The
// conversation is created on first contact.
func (s *MessageService) Append(ctx context.Context, input AppendInput) (*models.Message, error) {
	ctx = ensureContext(ctx)

	senderID := strings.TrimSpace(input.SenderID)
	receiverID := strings.TrimSpace(input.ReceiverID)
	content := strings.TrimSpace(input.Content)

	if senderID == "" {
		return nil, apperrors.NewValidation("sender_id", "sender is required")
	}
	if receiverID == "" {
		return nil, apperrors.NewValidation("receiver_id", "receiver is required")
	}
	if senderID == receiverID {
		return nil, apperrors.NewValidation("receiver_id", "cannot message yourself")
	}
	if content == "" {
		return nil, apperrors.NewValidation("content", "content is required")
	}

	var sender models.User
	if err := s.db.WithContext(ctx).Select("id", "username").First(&sender, "id = ?", senderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("message service: load sender: %w", err)
	}
	var receiverCount int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", receiverID).Count(&receiverCount).Error; err != nil {
		return nil, fmt.Errorf("message service: check receiver: %w", err)
	}
	if receiverCount == 0 {
		return nil, apperrors.NewValidation("receiver_id", "receiver does not exist")
	}

	conversation, err := s.conversations.GetOrCreate(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}

	message := models.Message{
		ConversationID: conversation.ID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Content:        content,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&message).Error; err != nil {
			return fmt.Errorf("message service: create message: %w", err)
		}
		if _, err := s.notifications.CreateForMessage(ctx, tx, &message, sender.Username); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	path := input.Path
	if path == "" {
		path = "api"
	}
	metrics.MessagesPersisted.WithLabelValues(path).Inc()

	return &message, nil
}

// ListForUser returns messages the user sent or received, newest first.
func (s *MessageService) ListForUser(ctx context.Context, userID string, limit, offset int) ([]models.Message, error) {
	ctx = ensureContext(ctx)

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("message service: user id is required")
	}

	if limit <= 0 || limit > 100 {
		limit = 25
	}
	if offset < 0 {
		offset = 0
	}

	var rows []models.Message
	if err := s.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("message service: list messages: %w", err)
	}

	return rows, nil
}

// ListReceived returns messages addressed to the user, newest first. When
// markRead is set, the returned unread rows are flipped in the same call.
func (s *MessageService) ListReceived(ctx context.Context, userID string, markRead bool) ([]models.Message, error) {
	ctx = ensureContext(ctx)

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("message service: user id is required")
	}

	var rows []models.Message
	if err := s.db.WithContext(ctx).
		Where("receiver_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("message service: list received: %w", err)
	}

	if markRead {
		if err := s.db.WithContext(ctx).
			Model(&models.Message{}).
			Where("receiver_id = ? AND is_read = ?", userID, false).
			Update("is_read", true).Error; err != nil {
			return nil, fmt.Errorf("message service: mark received read: %w", err)
		}
		for i := range rows {
			rows[i].IsRead = true
		}
	}

	return rows, nil
}

// MarkRead flips the read flag on a single message. Only the receiver may
// mark a message read.
func (s *MessageService) MarkRead(ctx context.Context, userID, messageID string) (*models.Message, error) {
	ctx = ensureContext(ctx)

	var message models.Message
	if err := s.db.WithContext(ctx).First(&message, "id = ?", messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("message service: load message: %w", err)
	}
	if message.ReceiverID != userID {
		return nil, apperrors.ErrForbidden
	}

	if !message.IsRead {
		if err := s.db.WithContext(ctx).Model(&message).Update("is_read", true).Error; err != nil {
			return nil, fmt.Errorf("message service: mark read: %w", err)
		}
		message.IsRead = true
	}

	return &message, nil
}

// MarkAllRead flips every unread message addressed to the user, optionally
// narrowed to a single sender, and returns the affected count.
func (s *MessageService) MarkAllRead(ctx context.Context, userID, senderID string) (int64, error) {
	ctx = ensureContext(ctx)

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, errors.New("message service: user id is required")
	}

	query := s.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", userID, false)
	if senderID = strings.TrimSpace(senderID); senderID != "" {
		query = query.Where("sender_id = ?", senderID)
	}

	result := query.Update("is_read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("message service: mark all read: %w", result.Error)
	}

	return result.RowsAffected, nil
}
