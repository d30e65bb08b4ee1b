package invoice

import (
	"sort"

	"agency_estimate/internal/domain/entities"
)

// SetItemStatus returns a copy of groups with itemID set to status.
// The second result is false when no item has that id.
func SetItemStatus(groups []entities.InvoiceGroup, itemID string, status entities.ItemStatus) ([]entities.InvoiceGroup, bool) {
	out := Clone(groups)
	for gi := range out {
		for ii := range out[gi].Items {
			if out[gi].Items[ii].ID == itemID {
				out[gi].Items[ii].Status = status
				return out, true
			}
		}
	}
	return out, false
}

// ToggleItem flips itemID between active and removed.
func ToggleItem(groups []entities.InvoiceGroup, itemID string) ([]entities.InvoiceGroup, bool) {
	item, ok := FindItem(groups, itemID)
	if !ok {
		return Clone(groups), false
	}
	next := entities.ItemStatusRemoved
	if item.IsDeleted() {
		next = entities.ItemStatusActive
	}
	return SetItemStatus(groups, itemID, next)
}

func FindItem(groups []entities.InvoiceGroup, itemID string) (entities.LineItem, bool) {
	for _, g := range groups {
		for _, it := range g.Items {
			if it.ID == itemID {
				return it, true
			}
		}
	}
	return entities.LineItem{}, false
}

// Normalize fills an empty item status with active.
func Normalize(groups []entities.InvoiceGroup) []entities.InvoiceGroup {
	out := Clone(groups)
	for gi := range out {
		for ii := range out[gi].Items {
			if out[gi].Items[ii].Status == "" {
				out[gi].Items[ii].Status = entities.ItemStatusActive
			}
		}
	}
	return out
}

// DuplicateItemIDs lists ids used by more than one item, sorted.
func DuplicateItemIDs(groups []entities.InvoiceGroup) []string {
	seen := make(map[string]int)
	for _, g := range groups {
		for _, it := range g.Items {
			seen[it.ID]++
		}
	}
	var dups []string
	for id, n := range seen {
		if n > 1 {
			dups = append(dups, id)
		}
	}
	sort.Strings(dups)
	return dups
}

// Clone deep-copies the group and item slices.
func Clone(groups []entities.InvoiceGroup) []entities.InvoiceGroup {
	if groups == nil {
		return nil
	}
	out := make([]entities.InvoiceGroup, len(groups))
	for i, g := range groups {
		out[i] = entities.InvoiceGroup{
			Category: g.Category,
			Items:    append([]entities.LineItem(nil), g.Items...),
		}
	}
	return out
}
