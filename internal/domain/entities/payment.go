package entities

import (
	"encoding/json"
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusDenied   PaymentStatus = "denied"
)

// PaymentStatusFromProvider maps a gateway status string onto PaymentStatus.
func PaymentStatusFromProvider(providerStatus string) PaymentStatus {
	switch providerStatus {
	case "approved", "authorized":
		return PaymentStatusApproved
	case "rejected", "cancelled", "refunded", "charged_back":
		return PaymentStatusDenied
	default:
		return PaymentStatusPending
	}
}

// EstimatePayment is the deposit charged for an approved estimate.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI (estimate_id-index): estimate_id
//
// ProviderPayloadRaw keeps the gateway response verbatim for audit;
// ProviderPayload is its parsed form when it was a JSON object.
type EstimatePayment struct {
	ID         string        `json:"id"`
	EstimateID string        `json:"estimate_id"`
	Amount     int64         `json:"amount"`
	Date       time.Time     `json:"date"`
	Status     PaymentStatus `json:"status"`

	ProviderPayloadRaw json.RawMessage        `json:"provider_payload_raw,omitempty"`
	ProviderPayload    map[string]interface{} `json:"provider_payload,omitempty"`
}
