package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hudumahub/hudumahub/internal/services"
	"github.com/hudumahub/hudumahub/pkg/response"
)

// SectorHandler exposes the public taxonomy plus its admin management.
type SectorHandler struct {
	sectors *services.SectorService
}

func NewSectorHandler(sectors *services.SectorService) *SectorHandler {
	return &SectorHandler{sectors: sectors}
}

// GET /api/sectors
func (h *SectorHandler) List(c *gin.Context) {
	sectors, err := h.sectors.List(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, sectors)
}

// GET /api/sectors/:id
func (h *SectorHandler) Get(c *gin.Context) {
	sector, err := h.sectors.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, sector)
}

type sectorRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	Thumbnail   string `json:"thumbnail" validate:"omitempty,max=2048"`
}

// POST /api/admin/sectors
func (h *SectorHandler) Create(c *gin.Context) {
	var req sectorRequest
	if !bindAndValidate(c, &req) {
		return
	}

	sector, err := h.sectors.Create(requestContext(c), services.SectorInput{
		Name:        req.Name,
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, sector)
}

type updateSectorRequest struct {
	Name        string `json:"name" validate:"omitempty,max=100"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	Thumbnail   string `json:"thumbnail" validate:"omitempty,max=2048"`
}

// PATCH /api/admin/sectors/:id
func (h *SectorHandler) Update(c *gin.Context) {
	var req updateSectorRequest
	if !bindAndValidate(c, &req) {
		return
	}

	sector, err := h.sectors.Update(requestContext(c), c.Param("id"), services.SectorInput{
		Name:        req.Name,
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, sector)
}

// DELETE /api/admin/sectors/:id
func (h *SectorHandler) Delete(c *gin.Context) {
	if err := h.sectors.Delete(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// POST /api/admin/sectors/:id/subcategories
func (h *SectorHandler) AddSubcategory(c *gin.Context) {
	var req sectorRequest
	if !bindAndValidate(c, &req) {
		return
	}

	sub, err := h.sectors.AddSubcategory(requestContext(c), c.Param("id"), services.SectorInput{
		Name:        req.Name,
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, sub)
}

// DELETE /api/admin/subcategories/:id
func (h *SectorHandler) RemoveSubcategory(c *gin.Context) {
	if err := h.sectors.RemoveSubcategory(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

type seedSectorsRequest struct {
	Sectors []struct {
		Name          string   `json:"name" validate:"required,max=100"`
		Description   string   `json:"description" validate:"omitempty,max=5000"`
		Subcategories []string `json:"subcategories" validate:"omitempty,dive,max=100"`
	} `json:"sectors" validate:"required,min=1,dive"`
}

// POST /api/admin/sectors/seed
func (h *SectorHandler) Seed(c *gin.Context) {
	var req seedSectorsRequest
	if !bindAndValidate(c, &req) {
		return
	}

	seeds := make([]services.SeedSector, 0, len(req.Sectors))
	for _, s := range req.Sectors {
		seeds = append(seeds, services.SeedSector{
			Name:          s.Name,
			Description:   s.Description,
			Subcategories: s.Subcategories,
		})
	}

	created, err := h.sectors.BulkCreate(requestContext(c), seeds)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"created": created})
}
