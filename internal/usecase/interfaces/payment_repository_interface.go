package interfaces

import (
	"context"

	"agency_estimate/internal/domain/entities"
)

// IPaymentRepository abstracts DynamoDB persistence for EstimatePayment.
//
// GetByID returns a zero payment when the id is unknown.
type IPaymentRepository interface {
	Create(ctx context.Context, p entities.EstimatePayment) (entities.EstimatePayment, error)
	GetByID(ctx context.Context, id string) (entities.EstimatePayment, error)
	ListByEstimateID(ctx context.Context, estimateID string) ([]entities.EstimatePayment, error)
}
