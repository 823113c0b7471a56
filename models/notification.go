package models

import "time"

// Notification is a per-user record created by the notification fanout and
// mutated only by a read acknowledgement.
type Notification struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"userId" json:"userId"`
	Type      string    `bson:"type" json:"type"`
	Title     string    `bson:"title" json:"title"`
	Message   string    `bson:"message" json:"message"`
	Priority  string    `bson:"priority" json:"priority"`
	Read      bool      `bson:"read" json:"read"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// ReminderPayload is the queued payload for a scheduled reminder delivery.
type ReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}
