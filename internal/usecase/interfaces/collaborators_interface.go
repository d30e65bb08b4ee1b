package interfaces

import (
	"context"

	"agency_estimate/internal/domain/entities"
)

// IEstimateEventPublisher announces saved estimates to downstream consumers
// (sales notifications).
type IEstimateEventPublisher interface {
	PublishEstimateSaved(ctx context.Context, e entities.Estimate) error
}

// ITextGenerator is a hosted generative text model.
type ITextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
