package models

import "time"

// AvailabilityWindow is one per-weekday working window. Day uses lowercase
// English weekday names ("monday".."sunday").
type AvailabilityWindow struct {
	Day       string `bson:"day" json:"day"`
	StartTime string `bson:"startTime" json:"startTime"` // "09:00"
	EndTime   string `bson:"endTime" json:"endTime"`     // "17:00"
	Enabled   bool   `bson:"enabled" json:"enabled"`
}

// ServiceOffering describes one bookable service of a provider.
type ServiceOffering struct {
	Name            string  `bson:"name" json:"name"`
	DurationMinutes int     `bson:"durationMinutes" json:"durationMinutes"`
	Price           float64 `bson:"price" json:"price"`
	Description     string  `bson:"description,omitempty" json:"description,omitempty"`
}

// ProviderSettings holds the provider's automation policy.
type ProviderSettings struct {
	AutoAcceptBookings bool `bson:"autoAcceptBookings" json:"autoAcceptBookings"`
	AllowRescheduling  bool `bson:"allowRescheduling" json:"allowRescheduling"`
	MaxDailyBookings   int  `bson:"maxDailyBookings" json:"maxDailyBookings"`
}

// Rating is an aggregate external signal; Count == 0 means no signal.
type Rating struct {
	Average float64 `bson:"average" json:"average"`
	Count   int     `bson:"count" json:"count"`
}

// Provider is a bookable service provider with weekly availability windows.
type Provider struct {
	ID           string               `bson:"id" json:"id"`
	UserID       string               `bson:"userId" json:"userId"`
	BusinessName string               `bson:"businessName" json:"businessName"`
	Email        string               `bson:"email" json:"email"`
	Phone        string               `bson:"phone,omitempty" json:"phone,omitempty"`
	FCMToken     string               `bson:"fcmToken,omitempty" json:"-"`
	Services     []ServiceOffering    `bson:"services" json:"services"`
	Availability []AvailabilityWindow `bson:"availability" json:"availability"`
	Settings     ProviderSettings     `bson:"settings" json:"settings"`
	Rating       Rating               `bson:"rating" json:"rating"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// WindowFor returns the enabled availability window for the given weekday,
// or false when the provider does not work that day.
func (p *Provider) WindowFor(day string) (AvailabilityWindow, bool) {
	for _, w := range p.Availability {
		if w.Day == day && w.Enabled {
			return w, true
		}
	}
	return AvailabilityWindow{}, false
}
