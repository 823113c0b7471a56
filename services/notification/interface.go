// Package notification persists notification records and fans appointment
// events out to live sessions, email, SMS and push.
package notification

import (
	"context"

	"nexusschedule/models"
)

// Appointment lifecycle actions the fanout knows how to announce.
const (
	ActionCreated     = "created"
	ActionConfirmed   = "confirmed"
	ActionCancelled   = "cancelled"
	ActionCompleted   = "completed"
	ActionRescheduled = "rescheduled"
	ActionReminder    = "reminder"
)

// FanoutService delivers an appointment event to both parties over every
// configured channel. Delivery failures on one channel never block another.
type FanoutService interface {
	Notify(ctx context.Context, appt *models.Appointment, action string)
}
