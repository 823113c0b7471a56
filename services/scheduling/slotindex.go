package scheduling

import (
	"context"

	appointmentRepo "nexusschedule/database/repository/appointment"
	"nexusschedule/models"
)

// SlotIndex is a read-only view over booked (provider, date, time) tuples.
// It reflects the latest committed state; the create/reschedule paths run
// their occupancy checks inside the repository's atomic scope, so the index
// itself never needs write locking.
type SlotIndex struct {
	Repo appointmentRepo.AppointmentRepository
}

// IsOccupied reports whether an active appointment holds the triple.
func (ix *SlotIndex) IsOccupied(ctx context.Context, providerID, date, timeLabel string) (bool, error) {
	return ix.Repo.IsOccupied(ctx, providerID, date, timeLabel)
}

// FindOccupants returns the booked times of a provider's day, ordered by time.
func (ix *SlotIndex) FindOccupants(ctx context.Context, providerID, date string) ([]models.Occupant, error) {
	return ix.Repo.QueryOccupied(ctx, providerID, date)
}

// OccupiedSet returns the booked time labels of a provider's day as a set.
func (ix *SlotIndex) OccupiedSet(ctx context.Context, providerID, date string) (map[string]struct{}, error) {
	occupants, err := ix.Repo.QueryOccupied(ctx, providerID, date)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(occupants))
	for _, o := range occupants {
		set[o.Time] = struct{}{}
	}
	return set, nil
}
