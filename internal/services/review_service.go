package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/hudumahub/hudumahub/internal/models"
	apperrors "github.com/hudumahub/hudumahub/pkg/errors"
)

// ReviewService manages client ratings, provider responses and moderation.
type ReviewService struct {
	db *gorm.DB
}

// NewReviewService constructs a ReviewService.
func NewReviewService(db *gorm.DB) (*ReviewService, error) {
	if db == nil {
		return nil, errors.New("review service: db is required")
	}
	return &ReviewService{db: db}, nil
}

// Create stores a review for a provider. Ratings are clamped to the closed
// range 1..5 by rejecting anything outside it; new reviews await moderation.
func (s *ReviewService) Create(ctx context.Context, clientID, providerID string, rating int, comment string) (*models.Review, error) {
	ctx = ensureContext(ctx)

	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidation("rating", "must be between 1 and 5")
	}

	var profile models.ProviderProfile
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", providerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("review service: load provider: %w", err)
	}
	if profile.UserID == clientID {
		return nil, apperrors.NewValidation("provider_id", "cannot review yourself")
	}

	review := models.Review{
		ProviderID: providerID,
		ClientID:   clientID,
		Rating:     rating,
		Comment:    strings.TrimSpace(comment),
	}
	if err := s.db.WithContext(ctx).Create(&review).Error; err != nil {
		return nil, fmt.Errorf("review service: create review: %w", err)
	}
	return &review, nil
}

// Update lets the author revise their rating or comment. Edited reviews go
// back through moderation.
func (s *ReviewService) Update(ctx context.Context, clientID, reviewID string, rating int, comment string) (*models.Review, error) {
	ctx = ensureContext(ctx)

	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidation("rating", "must be between 1 and 5")
	}

	var review models.Review
	if err := s.db.WithContext(ctx).First(&review, "id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("review service: load review: %w", err)
	}
	if review.ClientID != clientID {
		return nil, apperrors.ErrForbidden
	}

	updates := map[string]any{
		"rating":      rating,
		"comment":     strings.TrimSpace(comment),
		"is_approved": false,
	}
	if err := s.db.WithContext(ctx).Model(&review).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("review service: update review: %w", err)
	}
	review.Rating = rating
	review.Comment = updates["comment"].(string)
	review.IsApproved = false
	return &review, nil
}

// ListForProvider returns a provider's approved reviews, newest first.
// includeUnapproved is reserved for moderators.
func (s *ReviewService) ListForProvider(ctx context.Context, providerID string, includeUnapproved bool) ([]models.Review, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Where("provider_id = ?", providerID)
	if !includeUnapproved {
		query = query.Where("is_approved = ?", true)
	}

	var rows []models.Review
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("review service: list reviews: %w", err)
	}
	return rows, nil
}

// Respond records the provider's single public reply on a review of their
// own profile.
func (s *ReviewService) Respond(ctx context.Context, userID, reviewID, response string) (*models.Review, error) {
	ctx = ensureContext(ctx)

	response = strings.TrimSpace(response)
	if response == "" {
		return nil, apperrors.NewValidation("response", "response is required")
	}

	var review models.Review
	if err := s.db.WithContext(ctx).First(&review, "id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("review service: load review: %w", err)
	}

	var profile models.ProviderProfile
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", review.ProviderID).Error; err != nil {
		return nil, fmt.Errorf("review service: load provider: %w", err)
	}
	if profile.UserID != userID {
		return nil, apperrors.ErrForbidden
	}

	if err := s.db.WithContext(ctx).Model(&review).
		Update("provider_response", response).Error; err != nil {
		return nil, fmt.Errorf("review service: respond: %w", err)
	}
	review.ProviderResponse = response
	return &review, nil
}

// SetApproved moderates a review. Moderator surface.
func (s *ReviewService) SetApproved(ctx context.Context, reviewID string, approved bool) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Model(&models.Review{}).
		Where("id = ?", reviewID).
		Update("is_approved", approved)
	if result.Error != nil {
		return fmt.Errorf("review service: set approved: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Vote increments a review's upvote or downvote counter.
func (s *ReviewService) Vote(ctx context.Context, reviewID string, up bool) error {
	ctx = ensureContext(ctx)

	column := "upvotes"
	if !up {
		column = "downvotes"
	}

	result := s.db.WithContext(ctx).Model(&models.Review{}).
		Where("id = ?", reviewID).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return fmt.Errorf("review service: vote: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete removes a review. The author or a moderator may delete.
func (s *ReviewService) Delete(ctx context.Context, userID string, role models.Role, reviewID string) error {
	ctx = ensureContext(ctx)

	var review models.Review
	if err := s.db.WithContext(ctx).First(&review, "id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("review service: load review: %w", err)
	}

	if review.ClientID != userID && role != models.RoleAdmin && role != models.RoleSectorAdmin {
		return apperrors.ErrForbidden
	}

	if err := s.db.WithContext(ctx).Delete(&review).Error; err != nil {
		return fmt.Errorf("review service: delete review: %w", err)
	}
	return nil
}
