package api

import (
	"github.com/gin-gonic/gin"

	"github.com/hudumahub/hudumahub/internal/handlers"
	"github.com/hudumahub/hudumahub/internal/middleware"
	"github.com/hudumahub/hudumahub/internal/permissions"
)

func registerMarketplaceRoutes(api *gin.RouterGroup, providers *handlers.ProviderHandler, reviews *handlers.ReviewHandler, bookings *handlers.BookingHandler, favorites *handlers.FavoriteHandler, reports *handlers.ReportHandler) {
	prov := api.Group("/providers")
	{
		prov.POST("", middleware.RequireCapability(permissions.CapProviderManage), providers.Create)
		prov.GET("/me", middleware.RequireCapability(permissions.CapProviderManage), providers.Mine)
		prov.PATCH("/:id", middleware.RequireCapability(permissions.CapProviderManage), providers.Update)
		prov.POST("/:id/media", middleware.RequireCapability(permissions.CapProviderManage), providers.AddMedia)
		prov.DELETE("/media/:mediaID", middleware.RequireCapability(permissions.CapProviderManage), providers.RemoveMedia)
	}

	rev := api.Group("/reviews")
	{
		rev.POST("", middleware.RequireCapability(permissions.CapReviewCreate), reviews.Create)
		rev.PATCH("/:id", middleware.RequireCapability(permissions.CapReviewCreate), reviews.Update)
		rev.POST("/:id/respond", middleware.RequireCapability(permissions.CapProviderManage), reviews.Respond)
		rev.POST("/:id/vote", reviews.Vote)
		rev.DELETE("/:id", reviews.Delete)
	}

	book := api.Group("/bookings")
	{
		book.POST("", middleware.RequireCapability(permissions.CapBookingCreate), bookings.Create)
		book.GET("", bookings.Mine)
		book.GET("/incoming", middleware.RequireCapability(permissions.CapProviderManage), bookings.Incoming)
		book.PATCH("/:id", bookings.UpdateStatus)
	}

	fav := api.Group("/favorites")
	{
		fav.POST("", favorites.Add)
		fav.GET("", favorites.List)
		fav.DELETE("/:providerID", favorites.Remove)
	}

	api.POST("/reports", reports.Create)
}
