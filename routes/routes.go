package routes

import (
	"net/http"
	"time"

	"nexusschedule/handlers"
	"nexusschedule/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAppointmentRoutes registers the appointment lifecycle endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/appointments")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("", hb.ListAppointmentsHandler)
		api.POST("", hb.CreateAppointmentHandler)
		api.GET("/:id", hb.GetAppointmentHandler)
		api.PUT("/:id/status", hb.UpdateAppointmentStatusHandler)
		api.PUT("/:id/reschedule", hb.RescheduleAppointmentHandler)
		api.DELETE("/:id", hb.CancelAppointmentHandler)
	}
}

// RegisterNotificationRoutes registers the per-user notification endpoints.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("", hb.ListNotificationsHandler)
		api.PUT("/:id/read", hb.MarkNotificationReadHandler)
	}
}

// RegisterProviderRoutes registers provider availability endpoints.
func RegisterProviderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/providers")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/:id/occupancy", hb.GetOccupancyHandler)
		api.PUT("/:id/availability", middleware.RequireRole("provider"), hb.UpdateAvailabilityHandler)
	}
}

// RegisterAssistRoutes registers the free-text assistant endpoint.
func RegisterAssistRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/assist")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.AssistHandler)
	}
}

// RegisterRealtimeRoute registers the websocket session endpoint. The token
// rides in the query string because browsers cannot set headers on upgrades.
func RegisterRealtimeRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/ws", hb.WSHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm NexusSchedule"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAppointmentRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
	RegisterProviderRoutes(r, hb)
	RegisterAssistRoutes(r, hb)
	RegisterRealtimeRoute(r, hb)
	RegisterHealthRoute(r)
}
