package api

import (
	"net/http"

	"notibox-backend/internal/auth/delivery"
	authUsecase "notibox-backend/internal/auth/usecase"
	notifDelivery "notibox-backend/internal/notification/delivery"
	notifUsecase "notibox-backend/internal/notification/usecase"
	"notibox-backend/pkg/sse"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUsecase authUsecase.AuthUsecase, notificationUsecase notifUsecase.NotificationUsecase, sseManager *sse.Manager) {
	authHandler := delivery.NewAuthHandler(authUsecase)
	notificationHandler := notifDelivery.NewNotificationHandler(notificationUsecase)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Live inbox stream
		api.GET("/events", delivery.AuthMiddleware(authUsecase), func(c *gin.Context) {
			userID := c.GetString("userID")
			sseManager.ServeHTTP(c, userID)
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", delivery.AuthMiddleware(authUsecase), authHandler.Me)
		}

		// Push token routes (protected)
		pushGroup := api.Group("/push")
		pushGroup.Use(delivery.AuthMiddleware(authUsecase))
		{
			pushGroup.POST("/register", authHandler.RegisterPushToken)
			pushGroup.DELETE("", authHandler.UnregisterPushToken)
		}

		// Inbox routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(delivery.AuthMiddleware(authUsecase))
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread", notificationHandler.Unread)
			notifications.POST("/viewed", notificationHandler.MarkViewed)
		}

		// Broadcast (protected + admin)
		api.POST("/broadcast", delivery.AuthMiddleware(authUsecase), delivery.AdminOnly(), notificationHandler.Broadcast)
	}
}
