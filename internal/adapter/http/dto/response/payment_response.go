package response

import (
	"time"

	"agency_estimate/internal/domain/entities"
	"agency_estimate/internal/domain/pricing"
)

type PaymentResponse struct {
	PaymentID   string    `json:"payment_id"`
	ID          string    `json:"id"`
	EstimateID  string    `json:"estimate_id"`
	Amount      int64     `json:"amount"`
	Display     string    `json:"display"`
	PaymentDate time.Time `json:"payment_date"`
	Status      string    `json:"status"`

	ProviderPayloadRaw string                 `json:"provider_payload_raw,omitempty"`
	ProviderPayload    map[string]interface{} `json:"provider_payload,omitempty"`
}

func FromPayment(p entities.EstimatePayment) PaymentResponse {
	return PaymentResponse{
		PaymentID:          p.ID,
		ID:                 p.ID,
		EstimateID:         p.EstimateID,
		Amount:             p.Amount,
		Display:            pricing.FormatAmount(p.Amount),
		PaymentDate:        p.Date,
		Status:             string(p.Status),
		ProviderPayloadRaw: string(p.ProviderPayloadRaw),
		ProviderPayload:    p.ProviderPayload,
	}
}
