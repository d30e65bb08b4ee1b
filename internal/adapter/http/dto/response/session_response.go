package response

import (
	"time"

	"agency_estimate/internal/domain/entities"
)

type SessionResponse struct {
	SessionID   string              `json:"session_id"`
	CurrentStep int                 `json:"current_step"`
	Selections  map[string][]string `json:"selections"`
	Invoice     InvoiceResponse     `json:"invoice"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func FromSession(s entities.Session) SessionResponse {
	selections := map[string][]string(s.Flow.Selections)
	if selections == nil {
		selections = map[string][]string{}
	}
	return SessionResponse{
		SessionID:   s.ID,
		CurrentStep: s.Flow.CurrentStep,
		Selections:  selections,
		Invoice:     FromInvoice(s.Groups, s.Customer),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
