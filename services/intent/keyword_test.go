package intent

import (
	"context"
	"testing"
	"time"

	"nexusschedule/models"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
}

func extract(t *testing.T, text string) models.BookingIntent {
	t.Helper()
	k := &KeywordExtractor{Now: fixedNow}
	result, err := k.Extract(context.Background(), text)
	if err != nil {
		t.Fatalf("Extract(%q): %v", text, err)
	}
	return result
}

func TestExtractIntents(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"I want to book a dental checkup", models.IntentBook},
		{"please schedule something for me", models.IntentBook},
		{"can I change my appointment", models.IntentReschedule},
		{"I need to reschedule", models.IntentReschedule},
		{"I'd like to reschedule my appointment", models.IntentReschedule},
		{"cancel my appointment", models.IntentCancel},
		{"cancel my visit", models.IntentCancel},
		{"find me a massage therapist", models.IntentFind},
		{"hello there", models.IntentUnknown},
	}
	for _, tc := range cases {
		if got := extract(t, tc.text).Intent; got != tc.want {
			t.Errorf("Extract(%q).Intent = %s, want %s", tc.text, got, tc.want)
		}
	}
}

func TestExtractEntities(t *testing.T) {
	result := extract(t, "Book an urgent dental appointment tomorrow morning")

	if result.Service != "dental_checkup" {
		t.Errorf("Service = %s", result.Service)
	}
	if result.TimePreference != models.PreferMorning {
		t.Errorf("TimePreference = %s", result.TimePreference)
	}
	if result.Urgency != models.UrgencyHigh {
		t.Errorf("Urgency = %s", result.Urgency)
	}
	if result.Date != "2026-03-03" {
		t.Errorf("Date = %s, want tomorrow 2026-03-03", result.Date)
	}
}

func TestExtractDefaultsAndOriginalText(t *testing.T) {
	result := extract(t, "book a consultation today")

	if result.Date != "2026-03-02" {
		t.Errorf("Date = %s, want 2026-03-02", result.Date)
	}
	if result.Urgency != models.UrgencyLow {
		t.Errorf("Urgency = %s, want low default", result.Urgency)
	}
	if result.Confidence != 0.8 {
		t.Errorf("Confidence = %v", result.Confidence)
	}
	if result.OriginalText != "book a consultation today" {
		t.Errorf("OriginalText = %q", result.OriginalText)
	}
}

func TestExtractUrgencyLevels(t *testing.T) {
	if got := extract(t, "book asap").Urgency; got != models.UrgencyMedium {
		t.Errorf("asap urgency = %s, want medium", got)
	}
	if got := extract(t, "emergency, book now").Urgency; got != models.UrgencyHigh {
		t.Errorf("emergency urgency = %s, want high", got)
	}
}
