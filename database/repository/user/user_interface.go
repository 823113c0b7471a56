package userRepo

import (
	"context"
	"errors"

	"nexusschedule/models"
)

// ErrNotFound means the user does not exist.
var ErrNotFound = errors.New("user not found")

// UserRepository resolves a user id to delivery coordinates. Account
// management lives in the surrounding application, not in the engine.
type UserRepository interface {
	GetContact(ctx context.Context, id string) (*models.Contact, error)
}
