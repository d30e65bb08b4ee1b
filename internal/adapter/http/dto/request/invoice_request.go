package request

import (
	"errors"
	"strings"

	"agency_estimate/internal/domain/entities"
)

var ErrInvalidItemStatus = errors.New("invalid item status")

// LineItemRequest accepts both the legacy isDeleted flag and the explicit
// status. When both are sent, status wins.
type LineItemRequest struct {
	ID        string              `json:"id"`
	Category  string              `json:"category"`
	Name      string              `json:"name"`
	Amount    entities.FlexNumber `json:"amount"`
	Duration  entities.FlexNumber `json:"duration"`
	Pages     entities.FlexNumber `json:"pages"`
	IsDeleted *bool               `json:"isDeleted"`
	Status    string              `json:"status"`
}

type InvoiceGroupRequest struct {
	Category string            `json:"category"`
	Items    []LineItemRequest `json:"items"`
}

type CustomerRequest struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

func (r CustomerRequest) ToEntity() entities.Customer {
	return entities.Customer{
		Name:    strings.TrimSpace(r.Name),
		Company: strings.TrimSpace(r.Company),
		Email:   strings.TrimSpace(r.Email),
		Phone:   strings.TrimSpace(r.Phone),
	}
}

func (r LineItemRequest) resolveStatus() (entities.ItemStatus, error) {
	switch strings.ToLower(strings.TrimSpace(r.Status)) {
	case string(entities.ItemStatusActive):
		return entities.ItemStatusActive, nil
	case string(entities.ItemStatusRemoved):
		return entities.ItemStatusRemoved, nil
	case "":
		if r.IsDeleted != nil {
			return entities.StatusFromDeleted(*r.IsDeleted), nil
		}
		return entities.ItemStatusActive, nil
	default:
		return "", ErrInvalidItemStatus
	}
}

// ToGroups converts the wire groups. An item without its own category takes
// the group's.
func ToGroups(groups []InvoiceGroupRequest) ([]entities.InvoiceGroup, error) {
	if groups == nil {
		return nil, nil
	}
	out := make([]entities.InvoiceGroup, 0, len(groups))
	for _, g := range groups {
		group := entities.InvoiceGroup{Category: g.Category, Items: make([]entities.LineItem, 0, len(g.Items))}
		for _, it := range g.Items {
			status, err := it.resolveStatus()
			if err != nil {
				return nil, err
			}
			category := it.Category
			if category == "" {
				category = g.Category
			}
			group.Items = append(group.Items, entities.LineItem{
				ID:       strings.TrimSpace(it.ID),
				Category: category,
				Name:     it.Name,
				Amount:   it.Amount,
				Duration: it.Duration,
				Pages:    it.Pages,
				Status:   status,
			})
		}
		out = append(out, group)
	}
	return out, nil
}
