package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	iauth "github.com/hudumahub/hudumahub/internal/auth"
	"github.com/hudumahub/hudumahub/internal/chat"
	"github.com/hudumahub/hudumahub/internal/handlers"
	"github.com/hudumahub/hudumahub/internal/middleware"
	"github.com/hudumahub/hudumahub/internal/services"
)

// Services bundles the constructed service layer for route registration.
type Services struct {
	Users         *services.UserService
	Conversations *services.ConversationService
	Messages      *services.MessageService
	Notifications *services.NotificationService
	Providers     *services.ProviderService
	Discovery     *services.DiscoveryService
	Reviews       *services.ReviewService
	Sectors       *services.SectorService
	Bookings      *services.BookingService
	Favorites     *services.FavoriteService
	Reports       *services.ReportService
}

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, hub *chat.Hub, svc Services) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if hub == nil {
		return nil, fmt.Errorf("chat hub must be provided")
	}

	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	r.GET("/health", handlers.Health(db))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handlers.NewAuthHandler(svc.Users, jwt)
	userHandler := handlers.NewUserHandler(svc.Users)
	conversationHandler := handlers.NewConversationHandler(svc.Conversations)
	messageHandler := handlers.NewMessageHandler(svc.Messages)
	notificationHandler := handlers.NewNotificationHandler(svc.Notifications)
	providerHandler := handlers.NewProviderHandler(svc.Providers, svc.Discovery)
	reviewHandler := handlers.NewReviewHandler(svc.Reviews)
	sectorHandler := handlers.NewSectorHandler(svc.Sectors)
	bookingHandler := handlers.NewBookingHandler(svc.Bookings, svc.Providers)
	favoriteHandler := handlers.NewFavoriteHandler(svc.Favorites)
	reportHandler := handlers.NewReportHandler(svc.Reports)
	chatHandler := handlers.NewChatHandler(hub, jwt, svc.Users, svc.Conversations, svc.Messages)

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/auth/register", authHandler.Register)
		public.POST("/auth/login", authHandler.Login)

		public.GET("/sectors", sectorHandler.List)
		public.GET("/sectors/:id", sectorHandler.Get)
		public.GET("/providers/search", providerHandler.Search)
		public.GET("/providers/featured", providerHandler.Featured)
		public.GET("/providers/:id", providerHandler.Get)
		public.GET("/providers/:id/reviews", reviewHandler.ListForProvider)
	}

	// Websocket chat authenticates via token query parameter inside the handler.
	r.GET("/ws/chat/:receiverID", chatHandler.Serve)

	requireAuth := middleware.Auth(jwt)
	api := r.Group("/api")
	api.Use(requireAuth)

	api.GET("/auth/me", authHandler.Me)

	registerUserRoutes(api, userHandler)
	registerChatRoutes(api, conversationHandler, messageHandler, notificationHandler)
	registerMarketplaceRoutes(api, providerHandler, reviewHandler, bookingHandler, favoriteHandler, reportHandler)
	registerAdminRoutes(api, userHandler, sectorHandler, providerHandler, reviewHandler, reportHandler)

	return r, nil
}
