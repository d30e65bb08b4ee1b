package entities

// ItemStatus is the soft-delete state of a line item.
type ItemStatus string

const (
	ItemStatusActive  ItemStatus = "active"
	ItemStatusRemoved ItemStatus = "removed"
)

// LineItem is one estimated feature or deliverable.
//
// Removed items stay in their group so they can be restored; they are only
// excluded from totals.
type LineItem struct {
	ID       string     `json:"id"`
	Category string     `json:"category"`
	Name     string     `json:"name,omitempty"`
	Amount   FlexNumber `json:"amount"`
	Duration FlexNumber `json:"duration"`
	Pages    FlexNumber `json:"pages"`
	Status   ItemStatus `json:"status"`
}

func (i LineItem) IsDeleted() bool {
	return i.Status == ItemStatusRemoved
}

// StatusFromDeleted maps the wire-level isDeleted flag onto ItemStatus.
func StatusFromDeleted(deleted bool) ItemStatus {
	if deleted {
		return ItemStatusRemoved
	}
	return ItemStatusActive
}

// InvoiceGroup is a display grouping of line items under one category label.
type InvoiceGroup struct {
	Category string     `json:"category"`
	Items    []LineItem `json:"items"`
}
