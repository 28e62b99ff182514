package studio

import (
	"context"

	"github.com/mediadex/mediadex/internal/domain"
)

// Store provides the canonical records a studio search document is
// projected from.
type Store interface {
	Studios(ctx context.Context) ([]domain.Studio, error)
	Studio(ctx context.Context, id string) (domain.Studio, error)
	LabelsFor(ctx context.Context, ownerID string) ([]domain.Label, error)
	SceneCountFor(ctx context.Context, studioID string) (int, error)
}
