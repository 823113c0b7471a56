package models

import "time"

// AppointmentStatus enumerates the lifecycle states of an appointment.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// Terminal reports whether no further transitions are accepted from s.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Active reports whether s occupies its slot for conflict purposes.
func (s AppointmentStatus) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Appointment is the full appointment record. At most one appointment with an
// active status may hold a given (providerId, date, time) triple.
type Appointment struct {
	ID                 string                `bson:"id" json:"id"`
	ClientID           string                `bson:"clientId" json:"clientId"`
	ProviderID         string                `bson:"providerId" json:"providerId"`
	Service            string                `bson:"service" json:"service"`
	Date               string                `bson:"date" json:"date"` // "2006-01-02"
	Time               string                `bson:"time" json:"time"` // slot label, e.g. "10:00"
	DurationMinutes    int                   `bson:"durationMinutes" json:"durationMinutes"`
	Status             AppointmentStatus     `bson:"status" json:"status"`
	Priority           string                `bson:"priority" json:"priority"` // "low", "medium", "high"
	AINegotiated       bool                  `bson:"aiNegotiated" json:"aiNegotiated"`
	NegotiationLog     []NegotiationLogEntry `bson:"negotiationLog" json:"negotiationLog"`
	Notes              string                `bson:"notes,omitempty" json:"notes,omitempty"`
	CancellationReason string                `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`
	CreatedAt          time.Time             `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time             `bson:"updatedAt" json:"updatedAt"`
}

// AppointmentQuery filters appointment listings.
type AppointmentQuery struct {
	ClientID   string
	ProviderID string
	Status     AppointmentStatus
	Date       string
}
