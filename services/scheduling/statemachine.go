package scheduling

import (
	"context"
	"errors"
	"time"

	appointmentRepo "nexusschedule/database/repository/appointment"
	"nexusschedule/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// allowedTransitions is the status graph. Terminal states map to nothing.
var allowedTransitions = map[models.AppointmentStatus][]models.AppointmentStatus{
	models.StatusPending:   {models.StatusConfirmed, models.StatusCancelled, models.StatusPending},
	models.StatusConfirmed: {models.StatusCancelled, models.StatusCompleted, models.StatusPending},
}

// CanTransition reports whether the status graph allows from -> to. The
// pending -> pending and confirmed -> pending edges exist only for
// reschedules, which force re-confirmation.
func CanTransition(from, to models.AppointmentStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// StateMachine owns one appointment's lifecycle: it validates transitions,
// appends the negotiation log, and delegates the atomic slot check to the
// repository. Authorization is the caller's responsibility; every transition
// records which actor requested it.
type StateMachine struct {
	Repo   appointmentRepo.AppointmentRepository
	Logger *zap.Logger
}

// Create books a new appointment in pending (or confirmed, when the
// auto-accept policy applies). negotiated marks bookings placed by the
// engine rather than the requested slot. Returns ErrSlotConflict when the
// slot is already held by an active appointment.
func (sm *StateMachine) Create(ctx context.Context, req models.BookingRequest, confirmed, negotiated bool, actor models.Agent) (*models.Appointment, error) {
	now := time.Now()
	status := models.StatusPending
	if confirmed {
		status = models.StatusConfirmed
	}

	duration := req.DurationMinutes
	if duration <= 0 {
		duration = defaultDurationMinutes
	}

	appt := &models.Appointment{
		ID:              uuid.New().String(),
		ClientID:        req.ClientID,
		ProviderID:      req.ProviderID,
		Service:         req.Service,
		Date:            req.Date,
		Time:            req.Time,
		DurationMinutes: duration,
		Status:          status,
		Priority:        models.PriorityFor(req.Urgency),
		AINegotiated:    negotiated,
		Notes:           req.Notes,
		NegotiationLog: []models.NegotiationLogEntry{
			{
				Agent:     actor,
				Action:    "booking_request",
				Timestamp: now,
				Details: map[string]any{
					"service": req.Service,
					"date":    req.Date,
					"time":    req.Time,
					"urgency": string(req.Urgency),
				},
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if confirmed {
		appt.NegotiationLog = append(appt.NegotiationLog, models.NegotiationLogEntry{
			Agent:     models.AgentScheduler,
			Action:    "auto_confirm",
			Timestamp: now,
			Details:   map[string]any{"urgency": string(req.Urgency)},
		})
	}

	if err := sm.Repo.Create(ctx, appt); err != nil {
		if errors.Is(err, appointmentRepo.ErrSlotTaken) {
			return nil, slotConflict("slot %s %s is already booked for provider %s", req.Date, req.Time, req.ProviderID)
		}
		return nil, err
	}
	return appt, nil
}

// UpdateStatus transitions an appointment to a new status. Terminal states
// reject all further transitions with ErrInvalidTransition; a cancellation of
// a confirmed appointment requires a reason.
func (sm *StateMachine) UpdateStatus(ctx context.Context, id string, to models.AppointmentStatus, actor models.Agent, reason string) (*models.Appointment, error) {
	// Two attempts: a lost status race reloads once before giving up.
	for attempt := 0; attempt < 2; attempt++ {
		current, err := sm.Repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrNotFound) {
				return nil, notFound("appointment %s not found", id)
			}
			return nil, err
		}

		if current.Status.Terminal() {
			return nil, invalidTransition("appointment %s is %s and accepts no further transitions", id, current.Status)
		}
		if !CanTransition(current.Status, to) {
			return nil, invalidTransition("cannot move appointment %s from %s to %s", id, current.Status, to)
		}
		if to == models.StatusPending {
			// Only a reschedule may force an appointment back to pending.
			return nil, invalidTransition("appointment %s can only return to pending through a reschedule", id)
		}
		if to == models.StatusCancelled && current.Status == models.StatusConfirmed && reason == "" {
			return nil, invalidTransition("cancelling a confirmed appointment requires a reason")
		}

		entry := models.NegotiationLogEntry{
			Agent:     actor,
			Action:    actionFor(to),
			Timestamp: time.Now(),
			Details: map[string]any{
				"from": string(current.Status),
				"to":   string(to),
			},
		}
		if reason != "" {
			entry.Details["reason"] = reason
		}

		updated, err := sm.Repo.UpdateStatus(ctx, id, current.Status, to, reason, entry)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, appointmentRepo.ErrStaleStatus) {
			continue
		}
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			return nil, notFound("appointment %s not found", id)
		}
		return nil, err
	}
	return nil, ErrBusy
}

// Reschedule moves an appointment to a new slot. The status is forced back
// to pending to require re-confirmation, aiNegotiated is set, and the log
// records the old and new date/time. The slot uniqueness check runs in the
// repository's atomic scope; on conflict the appointment is left unchanged.
func (sm *StateMachine) Reschedule(ctx context.Context, id, newDate, newTime string, actor models.Agent) (*models.Appointment, error) {
	current, err := sm.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			return nil, notFound("appointment %s not found", id)
		}
		return nil, err
	}
	if current.Status.Terminal() {
		return nil, invalidTransition("appointment %s is %s and cannot be rescheduled", id, current.Status)
	}

	entry := models.NegotiationLogEntry{
		Agent:     actor,
		Action:    "reschedule_request",
		Timestamp: time.Now(),
		Details: map[string]any{
			"oldDate": current.Date,
			"oldTime": current.Time,
			"newDate": newDate,
			"newTime": newTime,
		},
	}

	updated, err := sm.Repo.Reschedule(ctx, id, newDate, newTime, entry)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrSlotTaken) {
			return nil, slotConflict("slot %s %s is already booked for provider %s", newDate, newTime, current.ProviderID)
		}
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			return nil, notFound("appointment %s not found", id)
		}
		return nil, err
	}
	return updated, nil
}

func actionFor(to models.AppointmentStatus) string {
	switch to {
	case models.StatusConfirmed:
		return "confirm"
	case models.StatusCancelled:
		return "cancel_request"
	case models.StatusCompleted:
		return "complete"
	default:
		return "status_update"
	}
}
