package actor

import (
	"context"

	"github.com/mediadex/mediadex/internal/domain"
)

// Store provides the canonical records an actor search document is
// projected from.
type Store interface {
	Actors(ctx context.Context) ([]domain.Actor, error)
	Actor(ctx context.Context, id string) (domain.Actor, error)
	LabelsFor(ctx context.Context, ownerID string) ([]domain.Label, error)
	SceneCountFor(ctx context.Context, actorID string) (int, error)
	ViewCountFor(ctx context.Context, actorID string) (int, error)
}
