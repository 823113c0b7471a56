package handlers

import (
	"errors"
	"net/http"
	"time"

	providerRepo "nexusschedule/database/repository/provider"
	"nexusschedule/models"
	"nexusschedule/services/realtime"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type availabilityRequest struct {
	Windows []models.AvailabilityWindow `json:"windows" binding:"required"`
}

// UpdateAvailabilityHandler replaces a provider's weekly availability windows
// and broadcasts the change to connected provider sessions.
func (hb *HandlerBundle) UpdateAvailabilityHandler(c *gin.Context) {
	providerID := c.Param("id")
	if c.GetString("userID") != providerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Providers may only edit their own availability"})
		return
	}

	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid availability payload: " + err.Error()})
		return
	}

	provider, err := hb.Providers.UpdateAvailability(c.Request.Context(), providerID, req.Windows)
	if err != nil {
		if errors.Is(err, providerRepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Provider not found"})
			return
		}
		getLogger(c).Error("availability update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if hb.Hub != nil {
		hb.Hub.Broadcast(realtime.TopicProviders, realtime.Event{
			Type:      models.EventAvailabilityUpdated,
			Topic:     realtime.TopicProviders,
			Timestamp: time.Now(),
			Data: models.AvailabilityUpdatedEvent{
				ProviderID: providerID,
				Windows:    provider.Availability,
			},
		})
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated", "availability": provider.Availability})
}

// GetOccupancyHandler returns the booked times of a provider's day.
func (hb *HandlerBundle) GetOccupancyHandler(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	occupants, err := hb.Index.FindOccupants(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		getLogger(c).Error("occupancy lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "occupied": occupants})
}
