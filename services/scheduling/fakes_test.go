package scheduling

import (
	"context"
	"sort"
	"sync"

	appointmentRepo "nexusschedule/database/repository/appointment"
	providerRepo "nexusschedule/database/repository/provider"
	"nexusschedule/models"
)

// memAppointmentRepo is an in-memory AppointmentRepository enforcing the
// active-slot uniqueness invariant under a mutex, matching the semantics of
// the Mongo implementation.
type memAppointmentRepo struct {
	mu    sync.Mutex
	appts map[string]*models.Appointment
}

func newMemAppointmentRepo() *memAppointmentRepo {
	return &memAppointmentRepo{appts: make(map[string]*models.Appointment)}
}

func (r *memAppointmentRepo) slotTakenLocked(providerID, date, timeLabel, excludeID string) bool {
	for _, a := range r.appts {
		if a.ID == excludeID {
			continue
		}
		if a.ProviderID == providerID && a.Date == date && a.Time == timeLabel && a.Status.Active() {
			return true
		}
	}
	return false
}

func (r *memAppointmentRepo) Create(_ context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.slotTakenLocked(appt.ProviderID, appt.Date, appt.Time, "") {
		return appointmentRepo.ErrSlotTaken
	}
	cp := *appt
	r.appts[appt.ID] = &cp
	return nil
}

func (r *memAppointmentRepo) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memAppointmentRepo) Query(_ context.Context, q models.AppointmentQuery) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.appts {
		if q.ClientID != "" && a.ClientID != q.ClientID {
			continue
		}
		if q.ProviderID != "" && a.ProviderID != q.ProviderID {
			continue
		}
		if q.Status != "" && a.Status != q.Status {
			continue
		}
		if q.Date != "" && a.Date != q.Date {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (r *memAppointmentRepo) UpdateStatus(_ context.Context, id string, from, to models.AppointmentStatus, reason string, entry models.NegotiationLogEntry) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	if a.Status != from {
		return nil, appointmentRepo.ErrStaleStatus
	}
	a.Status = to
	if reason != "" {
		a.CancellationReason = reason
	}
	a.NegotiationLog = append(a.NegotiationLog, entry)
	a.UpdatedAt = entry.Timestamp
	cp := *a
	return &cp, nil
}

func (r *memAppointmentRepo) Reschedule(_ context.Context, id, newDate, newTime string, entry models.NegotiationLogEntry) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	if r.slotTakenLocked(a.ProviderID, newDate, newTime, id) {
		return nil, appointmentRepo.ErrSlotTaken
	}
	a.Date = newDate
	a.Time = newTime
	a.Status = models.StatusPending
	a.AINegotiated = true
	a.NegotiationLog = append(a.NegotiationLog, entry)
	a.UpdatedAt = entry.Timestamp
	cp := *a
	return &cp, nil
}

func (r *memAppointmentRepo) AppendLog(_ context.Context, id string, entry models.NegotiationLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok {
		return appointmentRepo.ErrNotFound
	}
	a.NegotiationLog = append(a.NegotiationLog, entry)
	return nil
}

func (r *memAppointmentRepo) IsOccupied(_ context.Context, providerID, date, timeLabel string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slotTakenLocked(providerID, date, timeLabel, ""), nil
}

func (r *memAppointmentRepo) QueryOccupied(_ context.Context, providerID, date string) ([]models.Occupant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Occupant
	for _, a := range r.appts {
		if a.ProviderID == providerID && a.Date == date && a.Status.Active() {
			out = append(out, models.Occupant{Time: a.Time, AppointmentID: a.ID})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}

func (r *memAppointmentRepo) FindConfirmedOnDate(_ context.Context, date string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.appts {
		if a.Date == date && a.Status == models.StatusConfirmed {
			out = append(out, *a)
		}
	}
	return out, nil
}

// memProviderRepo serves a fixed set of providers.
type memProviderRepo struct {
	providers map[string]*models.Provider
}

func (r *memProviderRepo) GetByID(_ context.Context, id string) (*models.Provider, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, providerRepo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProviderRepo) UpdateAvailability(_ context.Context, id string, windows []models.AvailabilityWindow) (*models.Provider, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, providerRepo.ErrNotFound
	}
	p.Availability = windows
	cp := *p
	return &cp, nil
}

var _ appointmentRepo.AppointmentRepository = (*memAppointmentRepo)(nil)
var _ providerRepo.ProviderRepository = (*memProviderRepo)(nil)

func weekdayProvider(id string, autoAccept bool) *models.Provider {
	windows := make([]models.AvailabilityWindow, 0, 7)
	for _, day := range []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"} {
		windows = append(windows, models.AvailabilityWindow{
			Day: day, StartTime: "09:00", EndTime: "17:00", Enabled: true,
		})
	}
	return &models.Provider{
		ID:           id,
		BusinessName: "Test Provider",
		Services: []models.ServiceOffering{
			{Name: "consultation", DurationMinutes: 60},
		},
		Availability: windows,
		Settings:     models.ProviderSettings{AutoAcceptBookings: autoAccept},
		Rating:       models.Rating{Average: 4.5, Count: 12},
	}
}
