package intent

import (
	"context"
	"strings"
	"time"

	"nexusschedule/models"
	"nexusschedule/utils"
)

// KeywordExtractor is the local fallback: cheap keyword matching with fixed
// confidence. It runs when no model is configured or the model call fails.
type KeywordExtractor struct {
	// Now is a test seam; defaults to time.Now.
	Now func() time.Time
}

func (k *KeywordExtractor) Extract(_ context.Context, text string) (models.BookingIntent, error) {
	lower := strings.ToLower(text)
	result := models.BookingIntent{
		Intent:       models.IntentUnknown,
		Confidence:   0.8,
		OriginalText: text,
	}

	// Reschedule and cancel are checked first: "reschedule" contains
	// "schedule" and those requests usually mention an appointment too.
	switch {
	case containsAny(lower, "reschedule", "change"):
		result.Intent = models.IntentReschedule
	case strings.Contains(lower, "cancel"):
		result.Intent = models.IntentCancel
	case containsAny(lower, "book", "schedule", "appointment"):
		result.Intent = models.IntentBook
	case containsAny(lower, "find", "search"):
		result.Intent = models.IntentFind
	}

	switch {
	case containsAny(lower, "dental", "dentist"):
		result.Service = "dental_checkup"
	case strings.Contains(lower, "massage"):
		result.Service = "massage_therapy"
	case strings.Contains(lower, "consultation"):
		result.Service = "consultation"
	}

	switch {
	case strings.Contains(lower, "morning"):
		result.TimePreference = models.PreferMorning
	case strings.Contains(lower, "afternoon"):
		result.TimePreference = models.PreferAfternoon
	case strings.Contains(lower, "evening"):
		result.TimePreference = models.PreferEvening
	}

	now := time.Now()
	if k.Now != nil {
		now = k.Now()
	}
	switch {
	case strings.Contains(lower, "today"):
		result.Date = now.Format(utils.DateLayout)
	case strings.Contains(lower, "tomorrow"):
		result.Date = now.AddDate(0, 0, 1).Format(utils.DateLayout)
	}

	switch {
	case containsAny(lower, "urgent", "emergency"):
		result.Urgency = models.UrgencyHigh
	case containsAny(lower, "soon", "asap"):
		result.Urgency = models.UrgencyMedium
	default:
		result.Urgency = models.UrgencyLow
	}

	return result, nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
