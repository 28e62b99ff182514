package scene

import (
	"context"

	"github.com/mediadex/mediadex/internal/domain"
)

// Store provides the canonical records a scene search document is
// projected from.
type Store interface {
	Scenes(ctx context.Context) ([]domain.Scene, error)
	Scene(ctx context.Context, id string) (domain.Scene, error)
	ActorsFor(ctx context.Context, ownerID string) ([]domain.Actor, error)
	LabelsFor(ctx context.Context, ownerID string) ([]domain.Label, error)
	Studio(ctx context.Context, id string) (domain.Studio, error)
	ViewCount(ctx context.Context, sceneID string) (int, error)
}
