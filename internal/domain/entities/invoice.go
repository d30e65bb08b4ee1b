package entities

// InvoiceTotal is derived from line items and is never edited directly.
//
// Duration and Pages are nil when no item in the collection carries the field.
// MalformedItemIDs lists active items with an amount, duration or pages value
// that could not be read; that field contributed zero. It flags the same items
// the line item view marks as malformed.
type InvoiceTotal struct {
	Amount           int64    `json:"amount"`
	Duration         *int64   `json:"duration,omitempty"`
	Pages            *int64   `json:"pages,omitempty"`
	Display          string   `json:"display"`
	MalformedItemIDs []string `json:"malformed_item_ids,omitempty"`
}

type GroupTotal struct {
	Category string       `json:"category"`
	Total    InvoiceTotal `json:"total"`
}

// Customer holds the display fields printed on an estimate.
type Customer struct {
	Name    string `json:"name,omitempty"`
	Company string `json:"company,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// InvoiceDetails is what the display layer renders.
type InvoiceDetails struct {
	Groups      []InvoiceGroup `json:"groups"`
	GroupTotals []GroupTotal   `json:"group_totals"`
	Total       InvoiceTotal   `json:"total"`
	Customer    Customer       `json:"customer"`
}
