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

// ProviderService manages provider profiles and their portfolio media.
type ProviderService struct {
	db *gorm.DB
}

// NewProviderService constructs a ProviderService.
func NewProviderService(db *gorm.DB) (*ProviderService, error) {
	if db == nil {
		return nil, errors.New("provider service: db is required")
	}
	return &ProviderService{db: db}, nil
}

// ProfileInput carries profile fields for create and update. Nil pointers
// are left untouched on update.
type ProfileInput struct {
	BusinessName  *string
	Description   *string
	Website       *string
	Address       *string
	County        *string
	Subcounty     *string
	Town          *string
	Latitude      *float64
	Longitude     *float64
	SectorID      *string
	SubcategoryID *string
	Tags          *string
}

// CreateProfile creates the profile owned by userID. A user holds at most
// one profile.
func (s *ProviderService) CreateProfile(ctx context.Context, userID string, input ProfileInput) (*models.ProviderProfile, error) {
	ctx = ensureContext(ctx)

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("provider service: user id is required")
	}
	if err := validateCoordinate(input.Latitude, input.Longitude); err != nil {
		return nil, err
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.ProviderProfile{}).
		Where("user_id = ?", userID).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("provider service: check existing profile: %w", err)
	}
	if existing > 0 {
		return nil, apperrors.ErrConflict
	}

	if err := s.validateTaxonomy(ctx, input.SectorID, input.SubcategoryID); err != nil {
		return nil, err
	}

	profile := models.ProviderProfile{UserID: userID, MembershipTier: models.TierFree}
	applyProfileInput(&profile, input)

	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		return nil, fmt.Errorf("provider service: create profile: %w", err)
	}
	return &profile, nil
}

// GetProfile loads a profile by id with its portfolio media.
func (s *ProviderService) GetProfile(ctx context.Context, profileID string) (*models.ProviderProfile, error) {
	ctx = ensureContext(ctx)

	var profile models.ProviderProfile
	if err := s.db.WithContext(ctx).
		Preload("PortfolioMedia").
		First(&profile, "id = ?", profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("provider service: load profile: %w", err)
	}
	return &profile, nil
}

// GetProfileByUser loads the profile owned by the given user.
func (s *ProviderService) GetProfileByUser(ctx context.Context, userID string) (*models.ProviderProfile, error) {
	ctx = ensureContext(ctx)

	var profile models.ProviderProfile
	if err := s.db.WithContext(ctx).
		Preload("PortfolioMedia").
		First(&profile, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("provider service: load profile: %w", err)
	}
	return &profile, nil
}

// UpdateProfile applies edits to a profile. Only the owner may edit.
func (s *ProviderService) UpdateProfile(ctx context.Context, userID, profileID string, input ProfileInput) (*models.ProviderProfile, error) {
	ctx = ensureContext(ctx)

	profile, err := s.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	if err := validateCoordinate(input.Latitude, input.Longitude); err != nil {
		return nil, err
	}
	if err := s.validateTaxonomy(ctx, input.SectorID, input.SubcategoryID); err != nil {
		return nil, err
	}

	applyProfileInput(profile, input)
	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, fmt.Errorf("provider service: update profile: %w", err)
	}
	return profile, nil
}

// SetVerified marks a profile verified or not. Admin surface.
func (s *ProviderService) SetVerified(ctx context.Context, profileID string, verified bool) error {
	return s.setFlag(ctx, profileID, "is_verified", verified)
}

// SetFeatured marks a profile featured or not. Admin surface.
func (s *ProviderService) SetFeatured(ctx context.Context, profileID string, featured bool) error {
	return s.setFlag(ctx, profileID, "is_featured", featured)
}

// SetMembershipTier changes a profile's subscription level. Admin surface.
func (s *ProviderService) SetMembershipTier(ctx context.Context, profileID string, tier models.MembershipTier) error {
	ctx = ensureContext(ctx)

	if tier != models.TierFree && tier != models.TierPremium {
		return apperrors.NewValidation("membership_tier", "must be free or premium")
	}

	result := s.db.WithContext(ctx).Model(&models.ProviderProfile{}).
		Where("id = ?", profileID).
		Update("membership_tier", tier)
	if result.Error != nil {
		return fmt.Errorf("provider service: set tier: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AddMedia appends a portfolio item to the caller's own profile.
func (s *ProviderService) AddMedia(ctx context.Context, userID, profileID string, mediaType models.MediaType, url, caption string) (*models.PortfolioMedia, error) {
	ctx = ensureContext(ctx)

	if mediaType != models.MediaImage && mediaType != models.MediaVideo {
		return nil, apperrors.NewValidation("media_type", "must be image or video")
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, apperrors.NewValidation("url", "url is required")
	}

	profile, err := s.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile.UserID != userID {
		return nil, apperrors.ErrForbidden
	}

	media := models.PortfolioMedia{
		ProviderID: profile.ID,
		MediaType:  mediaType,
		URL:        url,
		Caption:    caption,
	}
	if err := s.db.WithContext(ctx).Create(&media).Error; err != nil {
		return nil, fmt.Errorf("provider service: add media: %w", err)
	}
	return &media, nil
}

// RemoveMedia deletes a portfolio item from the caller's own profile.
func (s *ProviderService) RemoveMedia(ctx context.Context, userID, mediaID string) error {
	ctx = ensureContext(ctx)

	var media models.PortfolioMedia
	if err := s.db.WithContext(ctx).First(&media, "id = ?", mediaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("provider service: load media: %w", err)
	}

	var profile models.ProviderProfile
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", media.ProviderID).Error; err != nil {
		return fmt.Errorf("provider service: load profile: %w", err)
	}
	if profile.UserID != userID {
		return apperrors.ErrForbidden
	}

	if err := s.db.WithContext(ctx).Delete(&media).Error; err != nil {
		return fmt.Errorf("provider service: delete media: %w", err)
	}
	return nil
}

func (s *ProviderService) setFlag(ctx context.Context, profileID, column string, value bool) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Model(&models.ProviderProfile{}).
		Where("id = ?", profileID).
		Update(column, value)
	if result.Error != nil {
		return fmt.Errorf("provider service: set %s: %w", column, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// validateTaxonomy checks referenced sector and subcategory rows exist and
// that the subcategory belongs to the sector when both are supplied.
func (s *ProviderService) validateTaxonomy(ctx context.Context, sectorID, subcategoryID *string) error {
	if sectorID != nil && *sectorID != "" {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Sector{}).
			Where("id = ?", *sectorID).Count(&count).Error; err != nil {
			return fmt.Errorf("provider service: check sector: %w", err)
		}
		if count == 0 {
			return apperrors.NewValidation("sector_id", "sector does not exist")
		}
	}
	if subcategoryID != nil && *subcategoryID != "" {
		var sub models.Subcategory
		if err := s.db.WithContext(ctx).First(&sub, "id = ?", *subcategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewValidation("subcategory_id", "subcategory does not exist")
			}
			return fmt.Errorf("provider service: check subcategory: %w", err)
		}
		if sectorID != nil && *sectorID != "" && sub.SectorID != *sectorID {
			return apperrors.NewValidation("subcategory_id", "subcategory does not belong to sector")
		}
	}
	return nil
}

func validateCoordinate(lat, lng *float64) error {
	if (lat == nil) != (lng == nil) {
		return apperrors.NewValidation("location", "latitude and longitude must be supplied together")
	}
	if lat == nil {
		return nil
	}
	if *lat < -90 || *lat > 90 {
		return apperrors.NewValidation("latitude", "must be between -90 and 90")
	}
	if *lng < -180 || *lng > 180 {
		return apperrors.NewValidation("longitude", "must be between -180 and 180")
	}
	return nil
}

func applyProfileInput(profile *models.ProviderProfile, input ProfileInput) {
	if input.BusinessName != nil {
		profile.BusinessName = strings.TrimSpace(*input.BusinessName)
	}
	if input.Description != nil {
		profile.Description = *input.Description
	}
	if input.Website != nil {
		profile.Website = strings.TrimSpace(*input.Website)
	}
	if input.Address != nil {
		profile.Address = *input.Address
	}
	if input.County != nil {
		profile.County = strings.TrimSpace(*input.County)
	}
	if input.Subcounty != nil {
		profile.Subcounty = strings.TrimSpace(*input.Subcounty)
	}
	if input.Town != nil {
		profile.Town = strings.TrimSpace(*input.Town)
	}
	if input.Latitude != nil {
		profile.Latitude = input.Latitude
		profile.Longitude = input.Longitude
	}
	if input.SectorID != nil {
		profile.SectorID = input.SectorID
	}
	if input.SubcategoryID != nil {
		profile.SubcategoryID = input.SubcategoryID
	}
	if input.Tags != nil {
		profile.Tags = strings.TrimSpace(*input.Tags)
	}
}
