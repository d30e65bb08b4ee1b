package interfaces

import (
	"context"
	"errors"
	"time"

	"agency_estimate/internal/domain/entities"
)

// ErrEstimateNotPending is returned by estimate updates when the stored
// estimate has already left the pending status.
var ErrEstimateNotPending = errors.New("estimate is not pending")

// IEstimateRepository abstracts DynamoDB persistence for saved estimates.
//
// Lookups and updates on an unknown id return a zero Estimate and no error.
// UpdateStatusByID and UpdateGroupsByID only apply to a pending estimate and
// report ErrEstimateNotPending otherwise.
type IEstimateRepository interface {
	Create(ctx context.Context, e entities.Estimate) (entities.Estimate, error)
	GetByID(ctx context.Context, id string) (entities.Estimate, error)
	ListByUserID(ctx context.Context, userID string) ([]entities.Estimate, error)
	UpdateStatusByID(ctx context.Context, id string, status entities.EstimateStatus) (entities.Estimate, error)
	UpdateGroupsByID(ctx context.Context, id string, groups []entities.InvoiceGroup) (entities.Estimate, error)
	ListPendingCreatedBefore(ctx context.Context, before time.Time) ([]entities.Estimate, error)
}
