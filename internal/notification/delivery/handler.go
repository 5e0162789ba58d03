package delivery

import (
	"errors"
	"fmt"
	"net/http"

	authdelivery "notibox-backend/internal/auth/delivery"
	"notibox-backend/internal/notification/dto"
	"notibox-backend/internal/notification/usecase"
	"notibox-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationUsecase usecase.NotificationUsecase
}

func NewNotificationHandler(notificationUsecase usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{notificationUsecase: notificationUsecase}
}

func (h *NotificationHandler) Broadcast(c *gin.Context) {
	var req dto.BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sender := authdelivery.CurrentUser(c)
	result, err := h.notificationUsecase.Broadcast(c.Request.Context(), sender, req.Title, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNotAdmin):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, usecase.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, usecase.ErrNoRecipients):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, usecase.ErrAllFailed):
			c.JSON(http.StatusBadGateway, dto.BroadcastResponse{
				Sent:    0,
				Failed:  result.Failed,
				Message: err.Error(),
			})
		default:
			logger.Errorf("broadcast failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message, please try again"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.BroadcastResponse{
		Sent:    result.Sent,
		Failed:  result.Failed,
		Message: fmt.Sprintf("message sent successfully to %d users", result.Sent),
	})
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID := c.GetString("userID")
	notifications, err := h.notificationUsecase.List(userID)
	if err != nil {
		logger.Errorf("inbox listing failed for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (h *NotificationHandler) Unread(c *gin.Context) {
	userID := c.GetString("userID")
	counter, err := h.notificationUsecase.Unread(userID)
	if err != nil {
		logger.Errorf("unread lookup failed for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load unread count"})
		return
	}

	c.JSON(http.StatusOK, dto.UnreadResponse{
		UnreadCount: counter.UnreadCount,
		LastUpdated: counter.LastUpdated,
	})
}

func (h *NotificationHandler) MarkViewed(c *gin.Context) {
	userID := c.GetString("userID")
	if err := h.notificationUsecase.MarkViewed(userID); err != nil {
		logger.Errorf("unread reset failed for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset unread count"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "notifications viewed"})
}
