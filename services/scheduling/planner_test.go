package scheduling

import (
	"context"
	"testing"
	"time"

	"nexusschedule/models"

	"go.uber.org/zap"
)

// 2026-03-02 is a Monday.
const (
	anchorDate = "2026-03-02"
)

func newTestPlanner(repo *memAppointmentRepo, provider *models.Provider) *Planner {
	return &Planner{
		Index:         &SlotIndex{Repo: repo},
		Providers:     &memProviderRepo{providers: map[string]*models.Provider{provider.ID: provider}},
		MaxCandidates: 3,
		HorizonDays:   7,
		Logger:        zap.NewNop(),
		Now: func() time.Time {
			return time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
		},
	}
}

func occupy(t *testing.T, repo *memAppointmentRepo, providerID, date, timeLabel string) {
	t.Helper()
	err := repo.Create(context.Background(), &models.Appointment{
		ID: "appt-" + date + "-" + timeLabel, ClientID: "c", ProviderID: providerID,
		Date: date, Time: timeLabel, Status: models.StatusConfirmed,
	})
	if err != nil {
		t.Fatalf("occupy %s %s: %v", date, timeLabel, err)
	}
}

func TestProposeSkipsContestedAndOccupiedSlots(t *testing.T) {
	repo := newMemAppointmentRepo()
	provider := weekdayProvider("prov-1", false)
	p := newTestPlanner(repo, provider)

	occupy(t, repo, "prov-1", anchorDate, "10:00")
	occupy(t, repo, "prov-1", anchorDate, "09:00")

	slots := p.Propose(context.Background(), models.SlotRequest{
		Service: "consultation", ProviderID: "prov-1",
		Date: anchorDate, Time: "10:00",
	})
	if len(slots) != 3 {
		t.Fatalf("got %d slots, want 3", len(slots))
	}
	for _, s := range slots {
		if s.Date == anchorDate && (s.Time == "10:00" || s.Time == "09:00") {
			t.Errorf("occupied or contested slot proposed: %s %s", s.Date, s.Time)
		}
	}
	if slots[0].Date != anchorDate || slots[0].Time != "11:00" {
		t.Errorf("top slot = %s %s, want %s 11:00", slots[0].Date, slots[0].Time, anchorDate)
	}
}

func TestProposeHighUrgencyTakesEarliestAbsolute(t *testing.T) {
	repo := newMemAppointmentRepo()
	provider := weekdayProvider("prov-1", false)
	p := newTestPlanner(repo, provider)

	occupy(t, repo, "prov-1", anchorDate, "09:00")

	slots := p.Propose(context.Background(), models.SlotRequest{
		Service: "consultation", ProviderID: "prov-1",
		Date: anchorDate, Time: "09:00",
		Urgency:        models.UrgencyHigh,
		TimePreference: models.PreferEvening,
	})
	if len(slots) == 0 {
		t.Fatal("no slots proposed")
	}
	// Preference is ignored under high urgency; earliest free slot wins.
	if slots[0].Date != anchorDate || slots[0].Time != "10:00" {
		t.Errorf("top slot = %s %s, want %s 10:00", slots[0].Date, slots[0].Time, anchorDate)
	}
}

func TestProposeBucketPreferenceBeatsEarlier(t *testing.T) {
	repo := newMemAppointmentRepo()
	provider := weekdayProvider("prov-1", false)
	p := newTestPlanner(repo, provider)

	occupy(t, repo, "prov-1", anchorDate, "13:00")

	slots := p.Propose(context.Background(), models.SlotRequest{
		Service: "consultation", ProviderID: "prov-1",
		Date: anchorDate, Time: "13:00",
		TimePreference: models.PreferAfternoon,
	})
	if len(slots) == 0 {
		t.Fatal("no slots proposed")
	}
	// Same-day afternoon slots outrank the earlier morning ones.
	if slots[0].Date != anchorDate || slots[0].Time != "12:00" {
		t.Errorf("top slot = %s %s, want %s 12:00", slots[0].Date, slots[0].Time, anchorDate)
	}
}

func TestProposeExcludesPastSlots(t *testing.T) {
	repo := newMemAppointmentRepo()
	provider := weekdayProvider("prov-1", false)
	p := newTestPlanner(repo, provider)
	p.Now = func() time.Time {
		return time.Date(2026, 3, 2, 11, 30, 0, 0, time.UTC)
	}

	slots := p.Propose(context.Background(), models.SlotRequest{
		Service: "consultation", ProviderID: "prov-1",
		Date: anchorDate, Time: "10:00",
	})
	for _, s := range slots {
		if s.Date == anchorDate && s.Time < "12:00" {
			t.Errorf("past slot proposed: %s %s", s.Date, s.Time)
		}
	}
}

func TestProposeRespectsCandidateCap(t *testing.T) {
	repo := newMemAppointmentRepo()
	provider := weekdayProvider("prov-1", false)
	p := newTestPlanner(repo, provider)
	p.MaxCandidates = 2

	slots := p.Propose(context.Background(), models.SlotRequest{
		Service: "consultation", ProviderID: "prov-1",
		Date: anchorDate, Time: "10:00",
	})
	if len(slots) != 2 {
		t.Fatalf("got %d slots, want 2", len(slots))
	}
}

func TestProposeNoWindowsMeansNoAvailability(t *testing.T) {
	repo := newMemAppointmentRepo()
	provider := weekdayProvider("prov-1", false)
	for i := range provider.Availability {
		provider.Availability[i].Enabled = false
	}
	p := newTestPlanner(repo, provider)

	slots := p.Propose(context.Background(), models.SlotRequest{
		Service: "consultation", ProviderID: "prov-1",
		Date: anchorDate, Time: "10:00",
	})
	if len(slots) != 0 {
		t.Fatalf("got %d slots, want 0", len(slots))
	}
}

func TestProposeUnknownProviderDegradesToNil(t *testing.T) {
	repo := newMemAppointmentRepo()
	p := newTestPlanner(repo, weekdayProvider("prov-1", false))

	slots := p.Propose(context.Background(), models.SlotRequest{
		Service: "consultation", ProviderID: "ghost",
		Date: anchorDate, Time: "10:00",
	})
	if slots != nil {
		t.Fatalf("got %v, want nil", slots)
	}
}

func TestProposeDegradesWhenContextExpires(t *testing.T) {
	repo := newMemAppointmentRepo()
	p := newTestPlanner(repo, weekdayProvider("prov-1", false))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	slots := p.Propose(ctx, models.SlotRequest{
		Service: "consultation", ProviderID: "prov-1",
		Date: anchorDate, Time: "10:00",
	})
	if slots != nil {
		t.Fatalf("got %v, want nil when the search runs out of time", slots)
	}
}

func TestProposeUsesServiceDuration(t *testing.T) {
	repo := newMemAppointmentRepo()
	provider := weekdayProvider("prov-1", false)
	provider.Services = []models.ServiceOffering{{Name: "long-form", DurationMinutes: 120}}
	p := newTestPlanner(repo, provider)

	slots := p.Propose(context.Background(), models.SlotRequest{
		Service: "long-form", ProviderID: "prov-1",
		Date: anchorDate, Time: "10:00",
	})
	if len(slots) == 0 {
		t.Fatal("no slots proposed")
	}
	for _, s := range slots {
		if s.DurationMinutes != 120 {
			t.Errorf("slot duration = %d, want 120", s.DurationMinutes)
		}
	}
	// 120-minute stepping from 09:00 lands on odd hours only.
	if slots[0].Time != "09:00" {
		t.Errorf("top slot time = %s, want 09:00", slots[0].Time)
	}
}
