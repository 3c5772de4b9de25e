package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hudumahub/hudumahub/internal/services"
	"github.com/hudumahub/hudumahub/pkg/response"
)

// FavoriteHandler exposes provider bookmarks.
type FavoriteHandler struct {
	favorites *services.FavoriteService
}

func NewFavoriteHandler(favorites *services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

type addFavoriteRequest struct {
	ProviderID string `json:"provider_id" validate:"required,uuid4"`
}

// POST /api/favorites
func (h *FavoriteHandler) Add(c *gin.Context) {
	var req addFavoriteRequest
	if !bindAndValidate(c, &req) {
		return
	}

	favorite, err := h.favorites.Add(requestContext(c), currentUserID(c), req.ProviderID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, favorite)
}

// GET /api/favorites
func (h *FavoriteHandler) List(c *gin.Context) {
	favorites, err := h.favorites.List(requestContext(c), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, favorites)
}

// DELETE /api/favorites/:providerID
func (h *FavoriteHandler) Remove(c *gin.Context) {
	if err := h.favorites.Remove(requestContext(c), currentUserID(c), c.Param("providerID")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
