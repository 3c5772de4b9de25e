package api

import (
	"github.com/gin-gonic/gin"

	"github.com/hudumahub/hudumahub/internal/handlers"
	"github.com/hudumahub/hudumahub/internal/middleware"
	"github.com/hudumahub/hudumahub/internal/permissions"
)

func registerAdminRoutes(api *gin.RouterGroup, users *handlers.UserHandler, sectors *handlers.SectorHandler, providers *handlers.ProviderHandler, reviews *handlers.ReviewHandler, reports *handlers.ReportHandler) {
	admin := api.Group("/admin")
	{
		admin.GET("/users", middleware.RequireCapability(permissions.CapUserList), users.List)
		admin.GET("/users/:id", middleware.RequireCapability(permissions.CapUserList), users.Get)
		admin.PATCH("/users/:id/active", middleware.RequireCapability(permissions.CapUserManage), users.SetActive)

		admin.POST("/sectors", middleware.RequireCapability(permissions.CapSectorManage), sectors.Create)
		admin.PATCH("/sectors/:id", middleware.RequireCapability(permissions.CapSectorManage), sectors.Update)
		admin.DELETE("/sectors/:id", middleware.RequireCapability(permissions.CapSectorManage), sectors.Delete)
		admin.POST("/sectors/:id/subcategories", middleware.RequireCapability(permissions.CapSectorManage), sectors.AddSubcategory)
		admin.DELETE("/subcategories/:id", middleware.RequireCapability(permissions.CapSectorManage), sectors.RemoveSubcategory)
		admin.POST("/sectors/seed", middleware.RequireCapability(permissions.CapSectorManage), sectors.Seed)

		admin.PATCH("/providers/:id/verified", middleware.RequireCapability(permissions.CapProviderModerate), providers.SetVerified)
		admin.PATCH("/providers/:id/featured", middleware.RequireCapability(permissions.CapProviderModerate), providers.SetFeatured)
		admin.PATCH("/providers/:id/tier", middleware.RequireCapability(permissions.CapProviderModerate), providers.SetTier)
		admin.GET("/providers/:id/reviews", middleware.RequireCapability(permissions.CapReviewModerate), reviews.ListForModeration)
		admin.PATCH("/reviews/:id/approved", middleware.RequireCapability(permissions.CapReviewModerate), reviews.SetApproved)

		admin.GET("/reports", middleware.RequireCapability(permissions.CapReportResolve), reports.ListOpen)
		admin.POST("/reports/:id/resolve", middleware.RequireCapability(permissions.CapReportResolve), reports.Resolve)
	}
}
