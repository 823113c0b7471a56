package notificationRepo

import (
	"context"
	"errors"

	"nexusschedule/models"
)

// ErrNotFound means the notification does not exist or belongs to another user.
var ErrNotFound = errors.New("notification not found")

// NotificationRepository stores per-user notification records. Records are
// created by the fanout and mutated only by a read acknowledgement.
type NotificationRepository interface {
	Insert(ctx context.Context, n *models.Notification) error
	ListForUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
}
