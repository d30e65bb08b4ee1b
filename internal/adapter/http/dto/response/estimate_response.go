package response

import (
	"time"

	"agency_estimate/internal/domain/entities"
)

type EstimateResponse struct {
	EstimateID string              `json:"estimate_id"`
	ID         string              `json:"id"`
	UserID     string              `json:"user_id"`
	Selections map[string][]string `json:"selections"`
	Status     string              `json:"status"`
	Invoice    InvoiceResponse     `json:"invoice"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

func FromEstimate(e entities.Estimate) EstimateResponse {
	selections := map[string][]string(e.Selections)
	if selections == nil {
		selections = map[string][]string{}
	}
	return EstimateResponse{
		EstimateID: e.ID,
		ID:         e.ID,
		UserID:     e.UserID,
		Selections: selections,
		Status:     string(e.Status),
		Invoice:    FromInvoice(e.Groups, e.Customer),
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func FromEstimates(list []entities.Estimate) []EstimateResponse {
	out := make([]EstimateResponse, 0, len(list))
	for _, e := range list {
		out = append(out, FromEstimate(e))
	}
	return out
}
