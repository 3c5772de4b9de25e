package api

import (
	"github.com/gin-gonic/gin"

	"github.com/hudumahub/hudumahub/internal/handlers"
)

func registerUserRoutes(api *gin.RouterGroup, handler *handlers.UserHandler) {
	group := api.Group("/users")
	{
		group.PATCH("/me", handler.UpdateMe)
		group.GET("/me/activity", handler.MyActivity)
	}
}
