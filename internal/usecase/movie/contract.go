package movie

import (
	"context"

	"github.com/mediadex/mediadex/internal/domain"
)

// Store provides the canonical records a movie search document is
// projected from. Label, actor, rating, and duration data aggregate from
// the movie's member scenes.
type Store interface {
	Movies(ctx context.Context) ([]domain.Movie, error)
	Movie(ctx context.Context, id string) (domain.Movie, error)
	Scene(ctx context.Context, id string) (domain.Scene, error)
	ActorsFor(ctx context.Context, ownerID string) ([]domain.Actor, error)
	LabelsFor(ctx context.Context, ownerID string) ([]domain.Label, error)
	Studio(ctx context.Context, id string) (domain.Studio, error)
}
