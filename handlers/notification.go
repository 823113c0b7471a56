package handlers

import (
	"errors"
	"net/http"

	notificationRepo "nexusschedule/database/repository/notification"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListNotificationsHandler returns the caller's notifications, newest first.
func (hb *HandlerBundle) ListNotificationsHandler(c *gin.Context) {
	userID := c.GetString("userID")
	items, err := hb.Notifications.ListForUser(c.Request.Context(), userID)
	if err != nil {
		getLogger(c).Error("notification listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

// MarkNotificationReadHandler acknowledges one of the caller's notifications.
func (hb *HandlerBundle) MarkNotificationReadHandler(c *gin.Context) {
	userID := c.GetString("userID")
	err := hb.Notifications.MarkRead(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, notificationRepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		getLogger(c).Error("notification read ack failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "read"})
}
