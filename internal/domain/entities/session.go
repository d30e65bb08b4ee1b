package entities

import "time"

// Session is the per-visitor working state of the estimate wizard: the flow
// progress and the line items produced from it. Each session is independent;
// nothing is shared between visitors.
type Session struct {
	ID        string         `json:"id"`
	Flow      FlowState      `json:"flow"`
	Groups    []InvoiceGroup `json:"groups"`
	Customer  Customer       `json:"customer"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Reset starts a new estimate within the same session.
func (s *Session) Reset() {
	s.Flow.Reset()
	s.Groups = nil
	s.Customer = Customer{}
}
