package providerRepo

import (
	"context"
	"errors"

	"nexusschedule/models"
)

// ErrNotFound means the provider does not exist.
var ErrNotFound = errors.New("provider not found")

// ProviderRepository exposes the provider data the engine consumes:
// availability windows for the planner, contact details for the fanout and
// the automation policy for the conflict resolver.
type ProviderRepository interface {
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	UpdateAvailability(ctx context.Context, id string, windows []models.AvailabilityWindow) (*models.Provider, error)
}
