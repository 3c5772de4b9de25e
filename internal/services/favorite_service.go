package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hudumahub/hudumahub/internal/models"
	apperrors "github.com/hudumahub/hudumahub/pkg/errors"
)

// FavoriteService manages provider bookmarks.
type FavoriteService struct {
	db *gorm.DB
}

// NewFavoriteService constructs a FavoriteService.
func NewFavoriteService(db *gorm.DB) (*FavoriteService, error) {
	if db == nil {
		return nil, errors.New("favorite service: db is required")
	}
	return &FavoriteService{db: db}, nil
}

// Add bookmarks a provider for the user. The pair is unique; re-adding an
// existing bookmark reports a conflict.
func (s *FavoriteService) Add(ctx context.Context, userID, providerID string) (*models.Favorite, error) {
	ctx = ensureContext(ctx)

	var providerCount int64
	if err := s.db.WithContext(ctx).Model(&models.ProviderProfile{}).
		Where("id = ?", providerID).Count(&providerCount).Error; err != nil {
		return nil, fmt.Errorf("favorite service: check provider: %w", err)
	}
	if providerCount == 0 {
		return nil, apperrors.ErrNotFound
	}

	favorite := models.Favorite{UserID: userID, ProviderID: providerID}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&favorite)
	if result.Error != nil {
		return nil, fmt.Errorf("favorite service: create favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrConflict
	}
	return &favorite, nil
}

// List returns the user's bookmarked providers, newest first.
func (s *FavoriteService) List(ctx context.Context, userID string) ([]models.Favorite, error) {
	ctx = ensureContext(ctx)

	var rows []models.Favorite
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("favorite service: list favorites: %w", err)
	}
	return rows, nil
}

// Remove deletes the user's bookmark of a provider.
func (s *FavoriteService) Remove(ctx context.Context, userID, providerID string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND provider_id = ?", userID, providerID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return fmt.Errorf("favorite service: delete favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
