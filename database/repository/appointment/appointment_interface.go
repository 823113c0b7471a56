package appointmentRepo

import (
	"context"
	"errors"

	"nexusschedule/models"
)

// Sentinel errors surfaced by the repository. The scheduling service maps
// these onto its own taxonomy.
var (
	// ErrSlotTaken means another active appointment already holds the
	// (providerId, date, time) triple.
	ErrSlotTaken = errors.New("slot already taken")
	// ErrNotFound means the appointment does not exist.
	ErrNotFound = errors.New("appointment not found")
	// ErrStaleStatus means the compare-and-commit precondition failed: the
	// appointment's status changed under the caller.
	ErrStaleStatus = errors.New("appointment status changed concurrently")
)

// AppointmentRepository is the persistence interface the negotiation engine
// consumes. Create and Reschedule enforce the slot uniqueness invariant
// atomically; status updates are compare-and-commit on the current status.
type AppointmentRepository interface {
	// Create inserts a new appointment. Returns ErrSlotTaken when an active
	// appointment already occupies the requested slot.
	Create(ctx context.Context, appt *models.Appointment) error

	// GetByID fetches one appointment. Returns ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (*models.Appointment, error)

	// Query lists appointments matching the filter, ordered by date then time.
	Query(ctx context.Context, q models.AppointmentQuery) ([]models.Appointment, error)

	// UpdateStatus transitions id from status `from` to `to`, appending the
	// log entry in the same write. Returns ErrStaleStatus when the current
	// status no longer matches `from`.
	UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus, reason string, entry models.NegotiationLogEntry) (*models.Appointment, error)

	// Reschedule moves id to (newDate, newTime), forcing status back to
	// pending, setting aiNegotiated and appending the log entry. The slot
	// uniqueness check runs in the same atomic scope; returns ErrSlotTaken
	// on conflict and leaves the appointment unchanged.
	Reschedule(ctx context.Context, id, newDate, newTime string, entry models.NegotiationLogEntry) (*models.Appointment, error)

	// AppendLog appends one negotiation log entry without any other change.
	AppendLog(ctx context.Context, id string, entry models.NegotiationLogEntry) error

	// IsOccupied reports whether an active appointment holds the triple.
	IsOccupied(ctx context.Context, providerID, date, timeLabel string) (bool, error)

	// QueryOccupied returns the booked times of a provider's day, ordered by
	// time label.
	QueryOccupied(ctx context.Context, providerID, date string) ([]models.Occupant, error)

	// FindConfirmedOnDate returns all confirmed appointments for a calendar
	// date; used by the reminder sweep.
	FindConfirmedOnDate(ctx context.Context, date string) ([]models.Appointment, error)
}
