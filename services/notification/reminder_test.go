package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	appointmentRepo "nexusschedule/database/repository/appointment"
	"nexusschedule/models"

	"go.uber.org/zap"
)

// confirmedByDate is a minimal AppointmentRepository stub for the sweeper,
// which only reads confirmed appointments by date.
type confirmedByDate struct {
	appointmentRepo.AppointmentRepository
	byDate map[string][]models.Appointment
}

func (r *confirmedByDate) FindConfirmedOnDate(_ context.Context, date string) ([]models.Appointment, error) {
	return r.byDate[date], nil
}

type mapMarker struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (m *mapMarker) Mark(_ context.Context, appointmentID, date string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen == nil {
		m.seen = make(map[string]bool)
	}
	key := appointmentID + ":" + date
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}

func confirmedAppt(id, date, timeLabel string) models.Appointment {
	return models.Appointment{
		ID: id, ClientID: "c", ProviderID: "p",
		Service: "consultation", Date: date, Time: timeLabel,
		Status: models.StatusConfirmed,
	}
}

func newTestSweeper(byDate map[string][]models.Appointment) (*Sweeper, *[]models.ReminderPayload) {
	var dispatched []models.ReminderPayload
	var mu sync.Mutex
	s := &Sweeper{
		Appointments: &confirmedByDate{byDate: byDate},
		Marker:       &mapMarker{},
		Dispatch: func(_ context.Context, payload models.ReminderPayload) error {
			mu.Lock()
			defer mu.Unlock()
			dispatched = append(dispatched, payload)
			return nil
		},
		WindowHours: 24,
		Logger:      zap.NewNop(),
		Now: func() time.Time {
			return time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
		},
	}
	return s, &dispatched
}

func TestSweepDispatchesWithinWindow(t *testing.T) {
	s, dispatched := newTestSweeper(map[string][]models.Appointment{
		"2026-03-02": {confirmedAppt("a1", "2026-03-02", "10:00")},
		"2026-03-03": {
			confirmedAppt("a2", "2026-03-03", "07:00"), // inside 24h
			confirmedAppt("a3", "2026-03-03", "09:00"), // outside
		},
	})

	if err := s.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	got := map[string]bool{}
	for _, p := range *dispatched {
		got[p.AppointmentID] = true
	}
	if len(got) != 2 || !got["a1"] || !got["a2"] {
		t.Fatalf("dispatched = %v, want a1 and a2", got)
	}
}

func TestSweepSkipsPastSlots(t *testing.T) {
	s, dispatched := newTestSweeper(map[string][]models.Appointment{
		"2026-03-02": {
			confirmedAppt("past", "2026-03-02", "07:00"),
			confirmedAppt("soon", "2026-03-02", "09:00"),
		},
	})

	if err := s.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(*dispatched) != 1 || (*dispatched)[0].AppointmentID != "soon" {
		t.Fatalf("dispatched = %v, want only soon", *dispatched)
	}
}

func TestSweepWindowIgnoresHostZone(t *testing.T) {
	// 03:00 on the 3rd at UTC+14 is still 13:00 on the 2nd in UTC; the
	// sweep must scan the 2nd, not start at the host-local date.
	s, dispatched := newTestSweeper(map[string][]models.Appointment{
		"2026-03-02": {confirmedAppt("a1", "2026-03-02", "15:00")},
	})
	s.Now = func() time.Time {
		return time.Date(2026, 3, 3, 3, 0, 0, 0, time.FixedZone("UTC+14", 14*3600))
	}

	if err := s.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(*dispatched) != 1 || (*dispatched)[0].AppointmentID != "a1" {
		t.Fatalf("dispatched = %v, want a1", *dispatched)
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	s, dispatched := newTestSweeper(map[string][]models.Appointment{
		"2026-03-02": {confirmedAppt("a1", "2026-03-02", "10:00")},
	})
	ctx := context.Background()

	if err := s.Sweep(ctx); err != nil {
		t.Fatalf("first Sweep: %v", err)
	}
	if err := s.Sweep(ctx); err != nil {
		t.Fatalf("second Sweep: %v", err)
	}
	if len(*dispatched) != 1 {
		t.Fatalf("dispatched %d reminders across two sweeps, want 1", len(*dispatched))
	}
}
