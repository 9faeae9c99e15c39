package role

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for role grants and grant intents.
type Repository interface {
	Grant(ctx context.Context, userID uuid.UUID, role Role) error
	Has(ctx context.Context, userID uuid.UUID, role Role) (bool, error)
	SaveIntent(ctx context.Context, userID uuid.UUID, role Role) error
	PendingIntents(ctx context.Context, userID uuid.UUID) ([]*Intent, error)
	MarkFulfilled(ctx context.Context, userID uuid.UUID, role Role) error
}
