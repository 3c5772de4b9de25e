package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hudumahub/hudumahub/internal/models"
	"github.com/hudumahub/hudumahub/internal/services"
	"github.com/hudumahub/hudumahub/pkg/errors"
	"github.com/hudumahub/hudumahub/pkg/response"
)

// ProviderHandler exposes provider profiles, portfolio media and the public
// discovery endpoints.
type ProviderHandler struct {
	providers *services.ProviderService
	discovery *services.DiscoveryService
}

func NewProviderHandler(providers *services.ProviderService, discovery *services.DiscoveryService) *ProviderHandler {
	return &ProviderHandler{providers: providers, discovery: discovery}
}

type profileRequest struct {
	BusinessName  *string  `json:"business_name" validate:"omitempty,max=255"`
	Description   *string  `json:"description"`
	Website       *string  `json:"website" validate:"omitempty,max=2048"`
	Address       *string  `json:"address" validate:"omitempty,max=255"`
	County        *string  `json:"county" validate:"omitempty,max=100"`
	Subcounty     *string  `json:"subcounty" validate:"omitempty,max=100"`
	Town          *string  `json:"town" validate:"omitempty,max=100"`
	Latitude      *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude     *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	SectorID      *string  `json:"sector_id" validate:"omitempty,uuid4"`
	SubcategoryID *string  `json:"subcategory_id" validate:"omitempty,uuid4"`
	Tags          *string  `json:"tags" validate:"omitempty,max=255"`
}

func (r profileRequest) toInput() services.ProfileInput {
	return services.ProfileInput{
		BusinessName:  r.BusinessName,
		Description:   r.Description,
		Website:       r.Website,
		Address:       r.Address,
		County:        r.County,
		Subcounty:     r.Subcounty,
		Town:          r.Town,
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
		SectorID:      r.SectorID,
		SubcategoryID: r.SubcategoryID,
		Tags:          r.Tags,
	}
}

// POST /api/providers
func (h *ProviderHandler) Create(c *gin.Context) {
	var req profileRequest
	if !bindAndValidate(c, &req) {
		return
	}

	profile, err := h.providers.CreateProfile(requestContext(c), currentUserID(c), req.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, profile)
}

// GET /api/providers/:id
func (h *ProviderHandler) Get(c *gin.Context) {
	profile, err := h.providers.GetProfile(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// GET /api/providers/me
func (h *ProviderHandler) Mine(c *gin.Context) {
	profile, err := h.providers.GetProfileByUser(requestContext(c), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// PATCH /api/providers/:id
func (h *ProviderHandler) Update(c *gin.Context) {
	var req profileRequest
	if !bindAndValidate(c, &req) {
		return
	}

	profile, err := h.providers.UpdateProfile(requestContext(c), currentUserID(c), c.Param("id"), req.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

type addMediaRequest struct {
	MediaType string `json:"media_type" validate:"required,oneof=image video"`
	URL       string `json:"url" validate:"required,max=2048"`
	Caption   string `json:"caption" validate:"omitempty,max=255"`
}

// POST /api/providers/:id/media
func (h *ProviderHandler) AddMedia(c *gin.Context) {
	var req addMediaRequest
	if !bindAndValidate(c, &req) {
		return
	}

	media, err := h.providers.AddMedia(requestContext(c), currentUserID(c), c.Param("id"),
		models.MediaType(req.MediaType), req.URL, req.Caption)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, media)
}

// DELETE /api/providers/media/:mediaID
func (h *ProviderHandler) RemoveMedia(c *gin.Context) {
	if err := h.providers.RemoveMedia(requestContext(c), currentUserID(c), c.Param("mediaID")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// GET /api/providers/search
func (h *ProviderHandler) Search(c *gin.Context) {
	lat, ok := parseFloatQuery(c, "latitude")
	if !ok {
		response.Error(c, errors.NewBadRequest("latitude must be a number"))
		return
	}
	lng, ok := parseFloatQuery(c, "longitude")
	if !ok {
		response.Error(c, errors.NewBadRequest("longitude must be a number"))
		return
	}
	radius, ok := parseFloatQuery(c, "radius_km")
	if !ok {
		response.Error(c, errors.NewBadRequest("radius_km must be a number"))
		return
	}
	minRating, ok := parseFloatQuery(c, "min_rating")
	if !ok {
		response.Error(c, errors.NewBadRequest("min_rating must be a number"))
		return
	}
	maxRating, ok := parseFloatQuery(c, "max_rating")
	if !ok {
		response.Error(c, errors.NewBadRequest("max_rating must be a number"))
		return
	}

	filters := services.SearchFilters{
		Query:         c.Query("q"),
		SectorID:      c.Query("sector_id"),
		SubcategoryID: c.Query("subcategory_id"),
		County:        c.Query("county"),
		Subcounty:     c.Query("subcounty"),
		Town:          c.Query("town"),
		VerifiedOnly:  parseBoolQuery(c, "verified"),
		Tier:          models.MembershipTier(strings.TrimSpace(c.Query("tier"))),
		SortBy:        strings.TrimSpace(c.Query("sort")),
		MinReviews:    int64(parseIntQuery(c, "min_reviews", 0)),
		Latitude:      lat,
		Longitude:     lng,
		Limit:         parseIntQuery(c, "limit", 25),
		Offset:        parseIntQuery(c, "offset", 0),
	}
	if radius != nil {
		filters.RadiusKm = *radius
	}
	if minRating != nil {
		filters.MinAvgRating = *minRating
	}
	if maxRating != nil {
		filters.MaxAvgRating = *maxRating
	}

	results, err := h.discovery.Search(requestContext(c), filters)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, results)
}

// GET /api/providers/featured
func (h *ProviderHandler) Featured(c *gin.Context) {
	lat, ok := parseFloatQuery(c, "latitude")
	if !ok {
		response.Error(c, errors.NewBadRequest("latitude must be a number"))
		return
	}
	lng, ok := parseFloatQuery(c, "longitude")
	if !ok {
		response.Error(c, errors.NewBadRequest("longitude must be a number"))
		return
	}
	radius, ok := parseFloatQuery(c, "radius_km")
	if !ok {
		response.Error(c, errors.NewBadRequest("radius_km must be a number"))
		return
	}
	minRating, ok := parseFloatQuery(c, "min_rating")
	if !ok {
		response.Error(c, errors.NewBadRequest("min_rating must be a number"))
		return
	}

	filters := services.SearchFilters{
		Latitude:  lat,
		Longitude: lng,
		Limit:     parseIntQuery(c, "limit", 10),
	}
	if radius != nil {
		filters.RadiusKm = *radius
	}
	if minRating != nil {
		filters.MinAvgRating = *minRating
	}

	results, err := h.discovery.Featured(requestContext(c), filters)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, results)
}

type moderationFlagRequest struct {
	Value *bool `json:"value" validate:"required"`
}

// PATCH /api/admin/providers/:id/verified
func (h *ProviderHandler) SetVerified(c *gin.Context) {
	var req moderationFlagRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.providers.SetVerified(requestContext(c), c.Param("id"), *req.Value); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"is_verified": *req.Value})
}

// PATCH /api/admin/providers/:id/featured
func (h *ProviderHandler) SetFeatured(c *gin.Context) {
	var req moderationFlagRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.providers.SetFeatured(requestContext(c), c.Param("id"), *req.Value); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"is_featured": *req.Value})
}

type membershipTierRequest struct {
	Tier string `json:"tier" validate:"required,oneof=free premium"`
}

// PATCH /api/admin/providers/:id/tier
func (h *ProviderHandler) SetTier(c *gin.Context) {
	var req membershipTierRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.providers.SetMembershipTier(requestContext(c), c.Param("id"), models.MembershipTier(req.Tier)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tier": req.Tier})
}
