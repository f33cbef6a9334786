package news

import (
	"context"
)

// InteractionRepository defines the interface for interaction persistence.
// Interactions are append-only; there are no update or delete operations.
type InteractionRepository interface {
	// Save appends an interaction record
	Save(ctx context.Context, interaction *Interaction) error

	// FindByUserID returns all interactions tagged with the given user identifier
	FindByUserID(ctx context.Context, userID string) ([]Interaction, error)
}
