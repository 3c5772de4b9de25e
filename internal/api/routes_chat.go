package api

import (
	"github.com/gin-gonic/gin"

	"github.com/hudumahub/hudumahub/internal/handlers"
)

func registerChatRoutes(api *gin.RouterGroup, conversations *handlers.ConversationHandler, messages *handlers.MessageHandler, notifications *handlers.NotificationHandler) {
	conv := api.Group("/conversations")
	{
		conv.GET("", conversations.List)
		conv.POST("", conversations.Open)
		conv.GET("/:id", conversations.Get)
		conv.GET("/:id/messages", conversations.Messages)
	}

	msg := api.Group("/messages")
	{
		msg.POST("", messages.Send)
		msg.GET("", messages.List)
		msg.GET("/received", messages.Received)
		msg.POST("/read-all", messages.MarkAllRead)
		msg.POST("/:id/read", messages.MarkRead)
	}

	notif := api.Group("/notifications")
	{
		notif.GET("", notifications.List)
		notif.POST("/read-all", notifications.MarkAllRead)
		notif.POST("/:id/read", notifications.MarkRead)
		notif.DELETE("/:id", notifications.Delete)
	}
}
