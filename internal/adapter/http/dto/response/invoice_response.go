package response

import (
	"agency_estimate/internal/domain/entities"
	"agency_estimate/internal/domain/invoice"
)

// LineItemResponse emits status and the legacy isDeleted flag side by side.
type LineItemResponse struct {
	ID        string `json:"id"`
	Category  string `json:"category"`
	Name      string `json:"name,omitempty"`
	Amount    int64  `json:"amount"`
	Duration  *int64 `json:"duration,omitempty"`
	Pages     *int64 `json:"pages,omitempty"`
	Status    string `json:"status"`
	IsDeleted bool   `json:"isDeleted"`
	Malformed bool   `json:"malformed,omitempty"`
}

type InvoiceGroupResponse struct {
	Category string             `json:"category"`
	Items    []LineItemResponse `json:"items"`
}

type InvoiceResponse struct {
	Groups      []InvoiceGroupResponse `json:"groups"`
	GroupTotals []entities.GroupTotal  `json:"group_totals"`
	Total       entities.InvoiceTotal  `json:"total"`
	Customer    entities.Customer      `json:"customer"`
}

func optional(n entities.FlexNumber) *int64 {
	if !n.Present {
		return nil
	}
	v := n.Value
	return &v
}

func FromLineItem(it entities.LineItem) LineItemResponse {
	return LineItemResponse{
		ID:        it.ID,
		Category:  it.Category,
		Name:      it.Name,
		Amount:    it.Amount.Value,
		Duration:  optional(it.Duration),
		Pages:     optional(it.Pages),
		Status:    string(it.Status),
		IsDeleted: it.IsDeleted(),
		Malformed: it.Amount.Malformed || it.Duration.Malformed || it.Pages.Malformed,
	}
}

// FromInvoice recomputes every total from groups.
func FromInvoice(groups []entities.InvoiceGroup, customer entities.Customer) InvoiceResponse {
	d := invoice.Details(groups, customer)
	out := InvoiceResponse{
		Groups:      make([]InvoiceGroupResponse, 0, len(d.Groups)),
		GroupTotals: d.GroupTotals,
		Total:       d.Total,
		Customer:    d.Customer,
	}
	for _, g := range d.Groups {
		items := make([]LineItemResponse, 0, len(g.Items))
		for _, it := range g.Items {
			items = append(items, FromLineItem(it))
		}
		out.Groups = append(out.Groups, InvoiceGroupResponse{Category: g.Category, Items: items})
	}
	return out
}
