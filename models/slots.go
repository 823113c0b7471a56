package models

// Urgency is a caller-supplied priority signal. It influences planner ranking
// and the auto-accept policy; it is distinct from the stored Priority field.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// TimePreference is a coarse time-of-day bucket. Empty means no preference.
type TimePreference string

const (
	PreferMorning   TimePreference = "morning"
	PreferAfternoon TimePreference = "afternoon"
	PreferEvening   TimePreference = "evening"
)

// Slot is a provider/date/time/duration combination that can host at most one
// active appointment.
type Slot struct {
	ProviderID      string `json:"providerId"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	DurationMinutes int    `json:"durationMinutes"`
}

// Occupant is one booked time on a provider's day.
type Occupant struct {
	Time          string `json:"time"`
	AppointmentID string `json:"appointmentId"`
}

// SlotRequest carries the parameters the negotiation planner ranks against.
// Missing fields mean "no preference".
type SlotRequest struct {
	Service         string         `json:"service"`
	ProviderID      string         `json:"providerId"`
	Date            string         `json:"date,omitempty"`
	Time            string         `json:"time,omitempty"`
	TimePreference  TimePreference `json:"timePreference,omitempty"`
	Urgency         Urgency        `json:"urgency,omitempty"`
	DurationMinutes int            `json:"durationMinutes,omitempty"`
}

// BookingRequest is an inbound booking attempt entering the conflict resolver.
type BookingRequest struct {
	ClientID        string         `json:"clientId"`
	ProviderID      string         `json:"providerId" binding:"required"`
	Service         string         `json:"service" binding:"required"`
	Date            string         `json:"date" binding:"required"`
	Time            string         `json:"time" binding:"required"`
	DurationMinutes int            `json:"durationMinutes,omitempty"`
	Notes           string         `json:"notes,omitempty"`
	TimePreference  TimePreference `json:"timePreference,omitempty"`
	Urgency         Urgency        `json:"urgency,omitempty"`
}

// PriorityFor maps an urgency signal onto the stored priority field.
func PriorityFor(u Urgency) string {
	switch u {
	case UrgencyHigh:
		return "high"
	case UrgencyLow:
		return "low"
	default:
		return "medium"
	}
}
