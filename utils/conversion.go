package utils

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used across the engine.
const DateLayout = "2006-01-02"

// slot labels are stored in 24h form; inbound payloads may use 12h form.
var slotLayouts = []string{"15:04", "3:04 PM", "3:04PM"}

// ParseSlotLabel converts a slot label ("10:00" or "10:00 AM") to minutes
// from midnight.
func ParseSlotLabel(label string) (int, error) {
	for _, layout := range slotLayouts {
		if t, err := time.Parse(layout, label); err == nil {
			return t.Hour()*60 + t.Minute(), nil
		}
	}
	return 0, fmt.Errorf("invalid slot label %q", label)
}

// FormatSlotLabel converts minutes from midnight to the canonical 24h label.
func FormatSlotLabel(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// SlotTime combines a calendar date and a slot label into an absolute time.
func SlotTime(date, label string) (time.Time, error) {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	minutes, err := ParseSlotLabel(label)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(minutes) * time.Minute), nil
}

// FormatFriendlyDateTime renders a date and slot label for human-facing
// notification copy, e.g. "17 January, 10:00 AM".
func FormatFriendlyDateTime(date, label string) string {
	t, err := SlotTime(date, label)
	if err != nil {
		return fmt.Sprintf("%s at %s", date, label)
	}
	return t.Format("2 January, 3:04 PM")
}
