package models

import "time"

// Live event type names, stable across transports.
const (
	EventBookingConfirmed         = "booking_confirmed"
	EventAppointmentStatusUpdated = "appointment_status_updated"
	EventAvailabilityUpdated      = "availability_updated"
	EventNewNotification          = "new_notification"
)

type BookingConfirmedEvent struct {
	AppointmentID string `json:"appointmentId"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}

type AppointmentStatusUpdatedEvent struct {
	AppointmentID string            `json:"appointmentId"`
	Status        AppointmentStatus `json:"status"`
	Timestamp     time.Time         `json:"timestamp"`
}

type AvailabilityUpdatedEvent struct {
	ProviderID string               `json:"providerId"`
	Windows    []AvailabilityWindow `json:"windows"`
}

type NewNotificationEvent struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Message  string `json:"message"`
	Priority string `json:"priority"`
}
