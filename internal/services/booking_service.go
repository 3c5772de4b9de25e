package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/hudumahub/hudumahub/internal/models"
	apperrors "github.com/hudumahub/hudumahub/pkg/errors"
)

// BookingService manages the client-provider appointment lifecycle.
type BookingService struct {
	db *gorm.DB
}

// NewBookingService constructs a BookingService.
func NewBookingService(db *gorm.DB) (*BookingService, error) {
	if db == nil {
		return nil, errors.New("booking service: db is required")
	}
	return &BookingService{db: db}, nil
}

// Create books a provider for a future service date. New bookings start
// pending.
func (s *BookingService) Create(ctx context.Context, clientID, providerID string, serviceDate time.Time) (*models.Booking, error) {
	ctx = ensureContext(ctx)

	if serviceDate.Before(time.Now()) {
		return nil, apperrors.NewValidation("service_date", "must be in the future")
	}

	var profile models.ProviderProfile
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", providerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("booking service: load provider: %w", err)
	}
	if profile.UserID == clientID {
		return nil, apperrors.NewValidation("provider_id", "cannot book yourself")
	}

	booking := models.Booking{
		ClientID:    clientID,
		ProviderID:  providerID,
		ServiceDate: serviceDate.UTC(),
		Status:      models.BookingPending,
	}
	if err := s.db.WithContext(ctx).Create(&booking).Error; err != nil {
		return nil, fmt.Errorf("booking service: create booking: %w", err)
	}
	return &booking, nil
}

// ListForClient returns the client's bookings, soonest service date first.
func (s *BookingService) ListForClient(ctx context.Context, clientID string) ([]models.Booking, error) {
	return s.list(ctx, "client_id", clientID)
}

// ListForProvider returns bookings against the provider's profile.
func (s *BookingService) ListForProvider(ctx context.Context, providerID string) ([]models.Booking, error) {
	return s.list(ctx, "provider_id", providerID)
}

func (s *BookingService) list(ctx context.Context, column, id string) ([]models.Booking, error) {
	ctx = ensureContext(ctx)

	var rows []models.Booking
	if err := s.db.WithContext(ctx).
		Where(column+" = ?", id).
		Order("service_date ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("booking service: list bookings: %w", err)
	}
	return rows, nil
}

// UpdateStatus moves a booking through its lifecycle. The provider owner
// confirms or cancels; the client may only cancel. Cancelled is terminal.
func (s *BookingService) UpdateStatus(ctx context.Context, userID, bookingID string, status models.BookingStatus) (*models.Booking, error) {
	ctx = ensureContext(ctx)

	if !status.Valid() {
		return nil, apperrors.NewValidation("status", "must be pending, confirmed or cancelled")
	}

	var booking models.Booking
	if err := s.db.WithContext(ctx).First(&booking, "id = ?", bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("booking service: load booking: %w", err)
	}

	if booking.Status == models.BookingCancelled {
		return nil, apperrors.NewBadRequest("booking is already cancelled")
	}

	var profile models.ProviderProfile
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", booking.ProviderID).Error; err != nil {
		return nil, fmt.Errorf("booking service: load provider: %w", err)
	}

	isProviderOwner := profile.UserID == userID
	isClient := booking.ClientID == userID
	switch {
	case isProviderOwner:
		// Provider may confirm or cancel.
	case isClient && status == models.BookingCancelled:
		// Client may only cancel.
	default:
		return nil, apperrors.ErrForbidden
	}

	if err := s.db.WithContext(ctx).Model(&booking).
		Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("booking service: update status: %w", err)
	}
	booking.Status = status
	return &booking, nil
}
