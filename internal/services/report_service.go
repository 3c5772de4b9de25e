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

// ReportService manages abuse reports against providers.
type ReportService struct {
	db *gorm.DB
}

// NewReportService constructs a ReportService.
func NewReportService(db *gorm.DB) (*ReportService, error) {
	if db == nil {
		return nil, errors.New("report service: db is required")
	}
	return &ReportService{db: db}, nil
}

// Create files a report against a provider.
func (s *ReportService) Create(ctx context.Context, reporterID, providerID, description string) (*models.Report, error) {
	ctx = ensureContext(ctx)

	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperrors.NewValidation("description", "description is required")
	}

	var providerCount int64
	if err := s.db.WithContext(ctx).Model(&models.ProviderProfile{}).
		Where("id = ?", providerID).Count(&providerCount).Error; err != nil {
		return nil, fmt.Errorf("report service: check provider: %w", err)
	}
	if providerCount == 0 {
		return nil, apperrors.ErrNotFound
	}

	report := models.Report{
		ReporterID:  reporterID,
		ProviderID:  providerID,
		Description: description,
	}
	if err := s.db.WithContext(ctx).Create(&report).Error; err != nil {
		return nil, fmt.Errorf("report service: create report: %w", err)
	}
	return &report, nil
}

// ListOpen returns unresolved reports, oldest first. Admin surface.
func (s *ReportService) ListOpen(ctx context.Context) ([]models.Report, error) {
	ctx = ensureContext(ctx)

	var rows []models.Report
	if err := s.db.WithContext(ctx).
		Where("is_resolved = ?", false).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("report service: list open reports: %w", err)
	}
	return rows, nil
}

// Resolve closes a report. Admin surface.
func (s *ReportService) Resolve(ctx context.Context, reportID string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ?", reportID).
		Update("is_resolved", true)
	if result.Error != nil {
		return fmt.Errorf("report service: resolve report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
