package image

import (
	"context"

	"github.com/mediadex/mediadex/internal/domain"
)

// Store provides the canonical records an image search document is
// projected from.
type Store interface {
	Images(ctx context.Context) ([]domain.Image, error)
	Image(ctx context.Context, id string) (domain.Image, error)
	ActorsFor(ctx context.Context, ownerID string) ([]domain.Actor, error)
	LabelsFor(ctx context.Context, ownerID string) ([]domain.Label, error)
	Scene(ctx context.Context, id string) (domain.Scene, error)
	Studio(ctx context.Context, id string) (domain.Studio, error)
}
