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

// SectorService manages the sector and subcategory taxonomy.
type SectorService struct {
	db *gorm.DB
}

// NewSectorService constructs a SectorService.
func NewSectorService(db *gorm.DB) (*SectorService, error) {
	if db == nil {
		return nil, errors.New("sector service: db is required")
	}
	return &SectorService{db: db}, nil
}

// SectorInput carries fields for a sector create or update.
type SectorInput struct {
	Name        string
	Description string
	Thumbnail   string
}

// Create adds a sector. Names are unique platform-wide.
func (s *SectorService) Create(ctx context.Context, input SectorInput) (*models.Sector, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidation("name", "name is required")
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.Sector{}).
		Where("name = ?", name).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("sector service: check name: %w", err)
	}
	if existing > 0 {
		return nil, apperrors.ErrConflict
	}

	sector := models.Sector{
		Name:        name,
		Description: input.Description,
		Thumbnail:   input.Thumbnail,
	}
	if err := s.db.WithContext(ctx).Create(&sector).Error; err != nil {
		return nil, fmt.Errorf("sector service: create sector: %w", err)
	}
	return &sector, nil
}

// Get loads a sector with its subcategories.
func (s *SectorService) Get(ctx context.Context, sectorID string) (*models.Sector, error) {
	ctx = ensureContext(ctx)

	var sector models.Sector
	if err := s.db.WithContext(ctx).
		Preload("Subcategories").
		First(&sector, "id = ?", sectorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("sector service: load sector: %w", err)
	}
	return &sector, nil
}

// List returns all sectors with subcategories, alphabetically.
func (s *SectorService) List(ctx context.Context) ([]models.Sector, error) {
	ctx = ensureContext(ctx)

	var rows []models.Sector
	if err := s.db.WithContext(ctx).
		Preload("Subcategories").
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("sector service: list sectors: %w", err)
	}
	return rows, nil
}

// Update edits a sector's fields.
func (s *SectorService) Update(ctx context.Context, sectorID string, input SectorInput) (*models.Sector, error) {
	ctx = ensureContext(ctx)

	sector, err := s.Get(ctx, sectorID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		sector.Name = name
	}
	if input.Description != "" {
		sector.Description = input.Description
	}
	if input.Thumbnail != "" {
		sector.Thumbnail = input.Thumbnail
	}

	if err := s.db.WithContext(ctx).Save(sector).Error; err != nil {
		return nil, fmt.Errorf("sector service: update sector: %w", err)
	}
	return sector, nil
}

// Delete removes a sector and its subcategories. Profiles referencing the
// sector keep their dangling id; discovery filters simply stop matching.
func (s *SectorService) Delete(ctx context.Context, sectorID string) error {
	ctx = ensureContext(ctx)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sector_id = ?", sectorID).
			Delete(&models.Subcategory{}).Error; err != nil {
			return fmt.Errorf("sector service: delete subcategories: %w", err)
		}

		result := tx.Delete(&models.Sector{}, "id = ?", sectorID)
		if result.Error != nil {
			return fmt.Errorf("sector service: delete sector: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}

// AddSubcategory adds a subcategory under a sector. Names are unique within
// their sector.
func (s *SectorService) AddSubcategory(ctx context.Context, sectorID string, input SectorInput) (*models.Subcategory, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidation("name", "name is required")
	}

	if _, err := s.Get(ctx, sectorID); err != nil {
		return nil, err
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.Subcategory{}).
		Where("sector_id = ? AND name = ?", sectorID, name).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("sector service: check subcategory name: %w", err)
	}
	if existing > 0 {
		return nil, apperrors.ErrConflict
	}

	sub := models.Subcategory{
		SectorID:    sectorID,
		Name:        name,
		Description: input.Description,
		Thumbnail:   input.Thumbnail,
	}
	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		return nil, fmt.Errorf("sector service: create subcategory: %w", err)
	}
	return &sub, nil
}

// RemoveSubcategory deletes a subcategory.
func (s *SectorService) RemoveSubcategory(ctx context.Context, subcategoryID string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Delete(&models.Subcategory{}, "id = ?", subcategoryID)
	if result.Error != nil {
		return fmt.Errorf("sector service: delete subcategory: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SeedSector is one sector with its subcategory names, used by bulk seeding.
type SeedSector struct {
	Name          string
	Description   string
	Subcategories []string
}

// BulkCreate seeds several sectors and their subcategories in one
// transaction. Sectors that already exist are skipped, not duplicated.
func (s *SectorService) BulkCreate(ctx context.Context, seeds []SeedSector) (int, error) {
	ctx = ensureContext(ctx)

	created := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, seed := range seeds {
			name := strings.TrimSpace(seed.Name)
			if name == "" {
				continue
			}

			var existing int64
			if err := tx.Model(&models.Sector{}).
				Where("name = ?", name).Count(&existing).Error; err != nil {
				return fmt.Errorf("sector service: check seed: %w", err)
			}
			if existing > 0 {
				continue
			}

			sector := models.Sector{Name: name, Description: seed.Description}
			if err := tx.Create(&sector).Error; err != nil {
				return fmt.Errorf("sector service: seed sector: %w", err)
			}
			for _, subName := range seed.Subcategories {
				subName = strings.TrimSpace(subName)
				if subName == "" {
					continue
				}
				sub := models.Subcategory{SectorID: sector.ID, Name: subName}
				if err := tx.Create(&sub).Error; err != nil {
					return fmt.Errorf("sector service: seed subcategory: %w", err)
				}
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
