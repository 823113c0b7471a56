package models

// Intent names recognised by the extraction layer.
const (
	IntentBook       = "book_appointment"
	IntentReschedule = "reschedule_appointment"
	IntentCancel     = "cancel_appointment"
	IntentFind       = "find_provider"
	IntentUnknown    = "unknown"
)

// BookingIntent is the structured result of free-text extraction. Any field
// other than Intent may be empty; the engine treats missing fields as "no
// preference".
type BookingIntent struct {
	Intent         string         `json:"intent"`
	Service        string         `json:"service,omitempty"`
	ProviderID     string         `json:"providerId,omitempty"`
	Date           string         `json:"date,omitempty"`
	Time           string         `json:"time,omitempty"`
	TimePreference TimePreference `json:"timePreference,omitempty"`
	Urgency        Urgency        `json:"urgency,omitempty"`
	Confidence     float64        `json:"confidence"`
	OriginalText   string         `json:"originalText"`
}
