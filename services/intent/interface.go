// Package intent turns free text into a structured booking intent. The
// extraction quality is deliberately pluggable; the engine only depends on
// the structured result.
package intent

import (
	"context"

	"nexusschedule/models"
)

// Service extracts a structured intent from free text. Implementations must
// never fail a request because extraction fell short; at worst they return
// an unknown intent.
type Service interface {
	Extract(ctx context.Context, text string) (models.BookingIntent, error)
}
