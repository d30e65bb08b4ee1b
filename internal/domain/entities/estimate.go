package entities

import "time"

// EstimateStatus represents the lifecycle of a saved estimate.
//
// Domain notes:
//   - Only pending estimates can be edited or decided.
//   - approved, rejected, cancelled and expired are terminal.
type EstimateStatus string

const (
	EstimateStatusPending   EstimateStatus = "pending"
	EstimateStatusApproved  EstimateStatus = "approved"
	EstimateStatusRejected  EstimateStatus = "rejected"
	EstimateStatusCancelled EstimateStatus = "cancelled"
	EstimateStatusExpired   EstimateStatus = "expired"
)

// Estimate is a persisted "my estimate" result.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI (user_id-index): user_id
//
// There is no stored total: callers derive it from Groups.
type Estimate struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	Selections Selections     `json:"selections"`
	Groups     []InvoiceGroup `json:"groups"`
	Customer   Customer       `json:"customer"`
	Status     EstimateStatus `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
