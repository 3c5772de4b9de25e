package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hudumahub/hudumahub/internal/services"
	"github.com/hudumahub/hudumahub/pkg/response"
)

// ReportHandler exposes abuse reporting plus its admin resolution queue.
type ReportHandler struct {
	reports *services.ReportService
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

type createReportRequest struct {
	ProviderID  string `json:"provider_id" validate:"required,uuid4"`
	Description string `json:"description" validate:"required,max=5000"`
}

// POST /api/reports
func (h *ReportHandler) Create(c *gin.Context) {
	var req createReportRequest
	if !bindAndValidate(c, &req) {
		return
	}

	report, err := h.reports.Create(requestContext(c), currentUserID(c), req.ProviderID, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, report)
}

// GET /api/admin/reports
func (h *ReportHandler) ListOpen(c *gin.Context) {
	reports, err := h.reports.ListOpen(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, reports)
}

// POST /api/admin/reports/:id/resolve
func (h *ReportHandler) Resolve(c *gin.Context) {
	if err := h.reports.Resolve(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"resolved": true})
}
