package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hudumahub/hudumahub/internal/models"
	"github.com/hudumahub/hudumahub/internal/services"
	"github.com/hudumahub/hudumahub/pkg/response"
)

// BookingHandler exposes the appointment lifecycle.
type BookingHandler struct {
	bookings  *services.BookingService
	providers *services.ProviderService
}

func NewBookingHandler(bookings *services.BookingService, providers *services.ProviderService) *BookingHandler {
	return &BookingHandler{bookings: bookings, providers: providers}
}

type createBookingRequest struct {
	ProviderID  string    `json:"provider_id" validate:"required,uuid4"`
	ServiceDate time.Time `json:"service_date" validate:"required"`
}

// POST /api/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if !bindAndValidate(c, &req) {
		return
	}

	booking, err := h.bookings.Create(requestContext(c), currentUserID(c), req.ProviderID, req.ServiceDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, booking)
}

// GET /api/bookings lists the caller's bookings as a client.
func (h *BookingHandler) Mine(c *gin.Context) {
	bookings, err := h.bookings.ListForClient(requestContext(c), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, bookings)
}

// GET /api/bookings/incoming lists bookings against the caller's provider profile.
func (h *BookingHandler) Incoming(c *gin.Context) {
	profile, err := h.providers.GetProfileByUser(requestContext(c), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	bookings, err := h.bookings.ListForProvider(requestContext(c), profile.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, bookings)
}

type updateBookingRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}

// PATCH /api/bookings/:id
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req updateBookingRequest
	if !bindAndValidate(c, &req) {
		return
	}

	booking, err := h.bookings.UpdateStatus(requestContext(c), currentUserID(c), c.Param("id"), models.BookingStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, booking)
}
