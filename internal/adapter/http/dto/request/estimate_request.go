package request

import (
	"errors"
	"strings"

	"agency_estimate/internal/domain/entities"
)

// SaveEstimateRequest is the "save my estimate" payload sent by the site.
type SaveEstimateRequest struct {
	UserID      string                `json:"userId"`
	UserIDSnake string                `json:"user_id"`
	Selections  map[string][]string   `json:"selections"`
	Groups      []InvoiceGroupRequest `json:"groups"`
	Customer    CustomerRequest       `json:"customer"`
}

// ErrUserIDMismatch means the body names a different user than the token.
var ErrUserIDMismatch = errors.New("userId does not match the authenticated user")

// ResolveUserID returns verifiedUID when a token was verified; a body id may
// only repeat it. Without a verified token it prefers the body's userId, then
// user_id, then fallbackUID.
func (r SaveEstimateRequest) ResolveUserID(verifiedUID, fallbackUID string) (string, error) {
	body := strings.TrimSpace(r.UserID)
	if body == "" {
		body = strings.TrimSpace(r.UserIDSnake)
	}
	if verified := strings.TrimSpace(verifiedUID); verified != "" {
		if body != "" && body != verified {
			return "", ErrUserIDMismatch
		}
		return verified, nil
	}
	if body != "" {
		return body, nil
	}
	return strings.TrimSpace(fallbackUID), nil
}

func (r SaveEstimateRequest) ResolveSelections() entities.Selections {
	return entities.Selections(r.Selections).Clone()
}
