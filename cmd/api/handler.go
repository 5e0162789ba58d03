package api

import (
	authUsecase "notibox-backend/internal/auth/usecase"
	notifUsecase "notibox-backend/internal/notification/usecase"
	"notibox-backend/pkg/sse"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase         authUsecase.AuthUsecase
	notificationUsecase notifUsecase.NotificationUsecase
	sseManager          *sse.Manager
}

func NewHandler(authUc authUsecase.AuthUsecase, notificationUc notifUsecase.NotificationUsecase, sseManager *sse.Manager) *Handler {
	return &Handler{
		authUsecase:         authUc,
		notificationUsecase: notificationUc,
		sseManager:          sseManager,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.notificationUsecase, h.sseManager)

	return r.Run(addr)
}
