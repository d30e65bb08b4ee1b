// Package invoice derives totals from estimate line items.
//
// Every function here is pure: inputs are never mutated and the same input
// always yields the same totals regardless of item order.
package invoice

import (
	"agency_estimate/internal/domain/entities"
	"agency_estimate/internal/domain/pricing"
)

// Aggregate sums amount, duration and pages over the items that are not removed.
func Aggregate(items []entities.LineItem) entities.InvoiceTotal {
	var (
		amount, duration, pages int64
		hasDuration, hasPages   bool
		malformed               []string
	)

	for _, it := range items {
		hasDuration = hasDuration || it.Duration.Present
		hasPages = hasPages || it.Pages.Present
		if it.IsDeleted() {
			continue
		}
		if it.Amount.Malformed || it.Duration.Malformed || it.Pages.Malformed {
			malformed = append(malformed, it.ID)
		}
		amount += it.Amount.Value
		duration += it.Duration.Value
		pages += it.Pages.Value
	}

	total := entities.InvoiceTotal{
		Amount:           amount,
		Display:          pricing.FormatAmount(amount),
		MalformedItemIDs: malformed,
	}
	if hasDuration {
		total.Duration = &duration
	}
	if hasPages {
		total.Pages = &pages
	}
	return total
}

// AggregateGroups totals every item of every group.
func AggregateGroups(groups []entities.InvoiceGroup) entities.InvoiceTotal {
	return Aggregate(Flatten(groups))
}

// GroupTotals returns one total per group, in group order.
func GroupTotals(groups []entities.InvoiceGroup) []entities.GroupTotal {
	out := make([]entities.GroupTotal, 0, len(groups))
	for _, g := range groups {
		out = append(out, entities.GroupTotal{Category: g.Category, Total: Aggregate(g.Items)})
	}
	return out
}

// Details assembles the view consumed by the display layer.
func Details(groups []entities.InvoiceGroup, customer entities.Customer) entities.InvoiceDetails {
	if groups == nil {
		groups = []entities.InvoiceGroup{}
	}
	return entities.InvoiceDetails{
		Groups:      groups,
		GroupTotals: GroupTotals(groups),
		Total:       AggregateGroups(groups),
		Customer:    customer,
	}
}

func Flatten(groups []entities.InvoiceGroup) []entities.LineItem {
	n := 0
	for _, g := range groups {
		n += len(g.Items)
	}
	items := make([]entities.LineItem, 0, n)
	for _, g := range groups {
		items = append(items, g.Items...)
	}
	return items
}
