package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hudumahub/hudumahub/internal/services"
	"github.com/hudumahub/hudumahub/pkg/response"
)

// ReviewHandler exposes review creation, voting, responses and moderation.
type ReviewHandler struct {
	reviews *services.ReviewService
}

func NewReviewHandler(reviews *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

type createReviewRequest struct {
	ProviderID string `json:"provider_id" validate:"required,uuid4"`
	Rating     int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment    string `json:"comment" validate:"omitempty,max=5000"`
}

// POST /api/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	var req createReviewRequest
	if !bindAndValidate(c, &req) {
		return
	}

	review, err := h.reviews.Create(requestContext(c), currentUserID(c), req.ProviderID, req.Rating, req.Comment)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, review)
}

type updateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"omitempty,max=5000"`
}

// PATCH /api/reviews/:id
func (h *ReviewHandler) Update(c *gin.Context) {
	var req updateReviewRequest
	if !bindAndValidate(c, &req) {
		return
	}

	review, err := h.reviews.Update(requestContext(c), currentUserID(c), c.Param("id"), req.Rating, req.Comment)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, review)
}

// GET /api/providers/:id/reviews
func (h *ReviewHandler) ListForProvider(c *gin.Context) {
	reviews, err := h.reviews.ListForProvider(requestContext(c), c.Param("id"), false)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, reviews)
}

// GET /api/admin/providers/:id/reviews includes unapproved reviews.
func (h *ReviewHandler) ListForModeration(c *gin.Context) {
	reviews, err := h.reviews.ListForProvider(requestContext(c), c.Param("id"), true)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, reviews)
}

type respondRequest struct {
	Response string `json:"response" validate:"required,max=5000"`
}

// POST /api/reviews/:id/respond
func (h *ReviewHandler) Respond(c *gin.Context) {
	var req respondRequest
	if !bindAndValidate(c, &req) {
		return
	}

	review, err := h.reviews.Respond(requestContext(c), currentUserID(c), c.Param("id"), req.Response)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, review)
}

type voteRequest struct {
	Up *bool `json:"up" validate:"required"`
}

// POST /api/reviews/:id/vote
func (h *ReviewHandler) Vote(c *gin.Context) {
	var req voteRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.reviews.Vote(requestContext(c), c.Param("id"), *req.Up); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"voted": true})
}

type approveRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}

// PATCH /api/admin/reviews/:id/approved
func (h *ReviewHandler) SetApproved(c *gin.Context) {
	var req approveRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.reviews.SetApproved(requestContext(c), c.Param("id"), *req.Approved); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"is_approved": *req.Approved})
}

// DELETE /api/reviews/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	if err := h.reviews.Delete(requestContext(c), currentUserID(c), currentRole(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
