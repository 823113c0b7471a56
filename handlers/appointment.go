package handlers

import (
	"errors"
	"net/http"

	appointmentRepo "nexusschedule/database/repository/appointment"
	"nexusschedule/models"
	"nexusschedule/services/notification"
	"nexusschedule/services/scheduling"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// actorFor maps the authenticated role onto a negotiation log agent.
func actorFor(role string) models.Agent {
	if role == "provider" {
		return models.AgentProvider
	}
	return models.AgentUser
}

// respondEngineError translates engine error codes to HTTP statuses.
func respondEngineError(c *gin.Context, err error) {
	var engineErr *scheduling.Error
	if !errors.As(err, &engineErr) {
		getLogger(c).Error("unexpected engine failure", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, scheduling.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, scheduling.ErrSlotConflict), errors.Is(err, scheduling.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, scheduling.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, scheduling.ErrBusy):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": engineErr.Message, "code": engineErr.Code})
}

// loadOwnAppointment fetches the appointment and verifies the caller is a
// party to it.
func (hb *HandlerBundle) loadOwnAppointment(c *gin.Context) (*models.Appointment, bool) {
	userID := c.GetString("userID")
	appt, err := hb.Appointments.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		} else {
			getLogger(c).Error("appointment lookup failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return nil, false
	}
	if appt.ClientID != userID && appt.ProviderID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a party to this appointment"})
		return nil, false
	}
	return appt, true
}

// ListAppointmentsHandler returns the caller's appointments, filtered by the
// authenticated identity and optional status/date query parameters.
func (hb *HandlerBundle) ListAppointmentsHandler(c *gin.Context) {
	userID := c.GetString("userID")
	query := models.AppointmentQuery{
		Status: models.AppointmentStatus(c.Query("status")),
		Date:   c.Query("date"),
	}
	if c.GetString("role") == "provider" {
		query.ProviderID = userID
	} else {
		query.ClientID = userID
	}

	appts, err := hb.Appointments.Query(c.Request.Context(), query)
	if err != nil {
		getLogger(c).Error("appointment query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

// GetAppointmentHandler returns one appointment, parties only.
func (hb *HandlerBundle) GetAppointmentHandler(c *gin.Context) {
	appt, ok := hb.loadOwnAppointment(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, appt)
}

// CreateAppointmentHandler runs a booking attempt through the conflict
// resolver. A taken slot yields 409 with ranked alternatives.
func (hb *HandlerBundle) CreateAppointmentHandler(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking payload: " + err.Error()})
		return
	}
	req.ClientID = c.GetString("userID")

	outcome, err := hb.Resolver.RequestSlot(c.Request.Context(), req)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	switch outcome.Kind {
	case scheduling.OutcomeBooked:
		c.JSON(http.StatusCreated, outcome)
	case scheduling.OutcomeAlternatives:
		c.JSON(http.StatusConflict, outcome)
	default:
		c.JSON(http.StatusConflict, outcome)
	}
}

type statusUpdateRequest struct {
	Status models.AppointmentStatus `json:"status" binding:"required"`
	Reason string                   `json:"reason,omitempty"`
}

// UpdateAppointmentStatusHandler transitions an appointment through the
// status graph.
func (hb *HandlerBundle) UpdateAppointmentStatusHandler(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status payload: " + err.Error()})
		return
	}

	if _, ok := hb.loadOwnAppointment(c); !ok {
		return
	}

	updated, err := hb.Machine.UpdateStatus(
		c.Request.Context(), c.Param("id"), req.Status, actorFor(c.GetString("role")), req.Reason)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	hb.Fanout.Notify(c.Request.Context(), updated, fanoutActionFor(updated.Status))
	c.JSON(http.StatusOK, updated)
}

type rescheduleRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

// RescheduleAppointmentHandler moves an appointment to a new slot; the
// result is pending and needs re-confirmation.
func (hb *HandlerBundle) RescheduleAppointmentHandler(c *gin.Context) {
	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reschedule payload: " + err.Error()})
		return
	}

	if _, ok := hb.loadOwnAppointment(c); !ok {
		return
	}

	updated, err := hb.Machine.Reschedule(
		c.Request.Context(), c.Param("id"), req.Date, req.Time, actorFor(c.GetString("role")))
	if err != nil {
		respondEngineError(c, err)
		return
	}

	hb.Fanout.Notify(c.Request.Context(), updated, notification.ActionRescheduled)
	c.JSON(http.StatusOK, updated)
}

type cancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

// CancelAppointmentHandler cancels an appointment. Cancelling a confirmed
// appointment requires a reason.
func (hb *HandlerBundle) CancelAppointmentHandler(c *gin.Context) {
	var req cancelRequest
	// Body is optional for pending appointments.
	_ = c.ShouldBindJSON(&req)

	if _, ok := hb.loadOwnAppointment(c); !ok {
		return
	}

	updated, err := hb.Machine.UpdateStatus(
		c.Request.Context(), c.Param("id"), models.StatusCancelled, actorFor(c.GetString("role")), req.Reason)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	hb.Fanout.Notify(c.Request.Context(), updated, notification.ActionCancelled)
	c.JSON(http.StatusOK, updated)
}

func fanoutActionFor(status models.AppointmentStatus) string {
	switch status {
	case models.StatusConfirmed:
		return notification.ActionConfirmed
	case models.StatusCancelled:
		return notification.ActionCancelled
	case models.StatusCompleted:
		return notification.ActionCompleted
	default:
		return notification.ActionCreated
	}
}
