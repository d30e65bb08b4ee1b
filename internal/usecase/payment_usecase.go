package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"agency_estimate/internal/domain/entities"
	"agency_estimate/internal/domain/invoice"
	"agency_estimate/internal/usecase/interfaces"
)

var (
	ErrPaymentNotFound                = errors.New("payment not found")
	ErrInvalidPaymentID               = errors.New("invalid payment id")
	ErrInvalidPaymentEstimateID       = errors.New("invalid estimate_id")
	ErrInvalidPaymentPayload          = errors.New("invalid payment payload")
	ErrEstimateNotApproved            = errors.New("estimate not approved")
	ErrEstimateAlreadyPaid            = errors.New("estimate already paid")
	ErrNothingToCharge                = errors.New("estimate total is zero")
	ErrPaymentGatewayNotConfigured    = errors.New("payment gateway not configured")
	ErrPaymentGatewayBadRequest       = errors.New("payment gateway bad request")
	ErrPaymentGatewayUnauthorized     = errors.New("payment gateway unauthorized")
	ErrPaymentGatewayInvalidUsers     = errors.New("payment gateway invalid users involved")
	ErrPaymentGatewayCustomerNotFound = errors.New("payment gateway customer not found")
)

// PaymentOptions carries the gateway settings the use case needs.
type PaymentOptions struct {
	// MockMode skips the gateway and records an approved payment.
	MockMode bool
	// SandboxPayerEmail is filled in when the payload carries no payer.
	SandboxPayerEmail string
}

// IPaymentUseCase charges the deposit for an approved estimate.
//
// The charged amount is always the estimate's recomputed total; the caller's
// transaction_amount is overwritten. CreateForEstimate and LatestByEstimateID
// only see estimates owned by userID.
type IPaymentUseCase interface {
	CreateForEstimate(ctx context.Context, userID, estimateID string, payload json.RawMessage) (entities.EstimatePayment, error)
	GetByID(ctx context.Context, id string) (entities.EstimatePayment, error)
	ListByEstimateID(ctx context.Context, estimateID string) ([]entities.EstimatePayment, error)
	LatestByEstimateID(ctx context.Context, userID, estimateID string) (entities.EstimatePayment, error)
}

type PaymentUseCase struct {
	repo         interfaces.IPaymentRepository
	estimateRepo interfaces.IEstimateRepository
	gateway      interfaces.IPaymentGateway
	opts         PaymentOptions
	now          func() time.Time
}

var _ IPaymentUseCase = (*PaymentUseCase)(nil)

func NewPaymentUseCase(repo interfaces.IPaymentRepository, estimateRepo interfaces.IEstimateRepository, gateway interfaces.IPaymentGateway, opts PaymentOptions) *PaymentUseCase {
	return &PaymentUseCase{
		repo:         repo,
		estimateRepo: estimateRepo,
		gateway:      gateway,
		opts:         opts,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (u *PaymentUseCase) CreateForEstimate(ctx context.Context, userID, estimateID string, payload json.RawMessage) (entities.EstimatePayment, error) {
	log := slog.With("component", "payment", "estimate_id", strings.TrimSpace(estimateID))
	log.InfoContext(ctx, "create payment start", "payload_len", len(payload), "mock", u.opts.MockMode)

	estimateID = strings.TrimSpace(estimateID)
	if estimateID == "" {
		return entities.EstimatePayment{}, ErrInvalidPaymentEstimateID
	}
	if len(payload) == 0 || !json.Valid(payload) {
		if !u.opts.MockMode {
			return entities.EstimatePayment{}, ErrInvalidPaymentPayload
		}
		payload = json.RawMessage("{}")
	}
	if u.gateway == nil && !u.opts.MockMode {
		return entities.EstimatePayment{}, ErrPaymentGatewayNotConfigured
	}

	est, err := loadOwnedEstimate(ctx, u.estimateRepo, userID, estimateID)
	if err != nil {
		log.InfoContext(ctx, "estimate load failed", "err", err)
		return entities.EstimatePayment{}, err
	}
	if est.Status != entities.EstimateStatusApproved {
		log.InfoContext(ctx, "estimate not approved", "status", est.Status)
		return entities.EstimatePayment{}, ErrEstimateNotApproved
	}

	amount := invoice.AggregateGroups(est.Groups).Amount
	if amount <= 0 {
		return entities.EstimatePayment{}, ErrNothingToCharge
	}

	var req map[string]any
	if err := json.Unmarshal(payload, &req); err != nil || req == nil {
		if !u.opts.MockMode {
			return entities.EstimatePayment{}, ErrInvalidPaymentPayload
		}
		req = map[string]any{}
	}
	if !u.opts.MockMode {
		if !hasNonEmptyString(req, "payment_method_id") {
			log.InfoContext(ctx, "missing payment_method_id")
			return entities.EstimatePayment{}, ErrInvalidPaymentPayload
		}
		ensurePayerDefaults(req, u.opts.SandboxPayerEmail)
		if !hasPayer(req) {
			log.InfoContext(ctx, "missing or invalid payer")
			return entities.EstimatePayment{}, ErrInvalidPaymentPayload
		}
	}
	if _, ok := req["external_reference"]; !ok {
		req["external_reference"] = estimateID
	}
	if _, ok := req["description"]; !ok {
		req["description"] = fmt.Sprintf("Estimate %s", estimateID)
	}
	req["transaction_amount"] = amount

	if err := u.ensureNotPaid(ctx, estimateID); err != nil {
		log.InfoContext(ctx, "payment refused", "err", err)
		return entities.EstimatePayment{}, err
	}

	enriched, err := json.Marshal(req)
	if err != nil {
		return entities.EstimatePayment{}, err
	}

	var (
		providerPaymentID string
		providerStatus    string
		providerResp      json.RawMessage
	)
	if u.opts.MockMode {
		providerPaymentID, providerStatus, providerResp, err = u.mockCharge(req)
		if err != nil {
			return entities.EstimatePayment{}, err
		}
	} else {
		providerPaymentID, providerStatus, providerResp, err = u.gateway.CreatePayment(ctx, enriched)
		if err != nil {
			log.ErrorContext(ctx, "payment gateway failed", "err", err)
			return entities.EstimatePayment{}, classifyGatewayError(err)
		}
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(providerResp, &parsed); err != nil {
		log.WarnContext(ctx, "provider response is not a json object", "err", err)
	}

	p := entities.EstimatePayment{
		ID:                 providerPaymentID,
		EstimateID:         estimateID,
		Amount:             amount,
		Date:               u.now(),
		Status:             entities.PaymentStatusFromProvider(providerStatus),
		ProviderPayloadRaw: providerResp,
		ProviderPayload:    parsed,
	}

	created, err := u.repo.Create(ctx, p)
	if err != nil {
		log.ErrorContext(ctx, "payment create failed", "payment_id", p.ID, "err", err)
		return entities.EstimatePayment{}, err
	}
	log.InfoContext(ctx, "create payment done", "payment_id", created.ID, "status", created.Status, "provider_status", providerStatus)
	return created, nil
}

// ensureNotPaid refuses a second charge once an approved payment exists.
// Pending and denied attempts may be retried.
func (u *PaymentUseCase) ensureNotPaid(ctx context.Context, estimateID string) error {
	existing, err := u.repo.ListByEstimateID(ctx, estimateID)
	if err != nil {
		return err
	}
	for _, p := range existing {
		if p.Status == entities.PaymentStatusApproved {
			return ErrEstimateAlreadyPaid
		}
	}
	return nil
}

func (u *PaymentUseCase) mockCharge(req map[string]any) (string, string, json.RawMessage, error) {
	id := strconv.FormatInt(u.now().UnixNano(), 10)
	now := u.now().Format(time.RFC3339Nano)
	resp := make(map[string]any, len(req)+5)
	for k, v := range req {
		resp[k] = v
	}
	resp["id"] = id
	resp["status"] = "approved"
	resp["status_detail"] = "accredited"
	resp["date_created"] = now
	resp["date_approved"] = now
	b, err := json.Marshal(resp)
	if err != nil {
		return "", "", nil, err
	}
	return id, "approved", b, nil
}

func (u *PaymentUseCase) GetByID(ctx context.Context, id string) (entities.EstimatePayment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.EstimatePayment{}, ErrInvalidPaymentID
	}

	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.EstimatePayment{}, err
	}
	if p.ID == "" {
		return entities.EstimatePayment{}, ErrPaymentNotFound
	}
	return p, nil
}

func (u *PaymentUseCase) ListByEstimateID(ctx context.Context, estimateID string) ([]entities.EstimatePayment, error) {
	estimateID = strings.TrimSpace(estimateID)
	if estimateID == "" {
		return nil, ErrInvalidPaymentEstimateID
	}
	return u.repo.ListByEstimateID(ctx, estimateID)
}

// LatestByEstimateID returns the most recent payment attempt.
func (u *PaymentUseCase) LatestByEstimateID(ctx context.Context, userID, estimateID string) (entities.EstimatePayment, error) {
	if strings.TrimSpace(estimateID) == "" {
		return entities.EstimatePayment{}, ErrInvalidPaymentEstimateID
	}
	est, err := loadOwnedEstimate(ctx, u.estimateRepo, userID, estimateID)
	if err != nil {
		return entities.EstimatePayment{}, err
	}
	list, err := u.ListByEstimateID(ctx, est.ID)
	if err != nil {
		return entities.EstimatePayment{}, err
	}
	if len(list) == 0 {
		return entities.EstimatePayment{}, ErrPaymentNotFound
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return list[0], nil
}

func hasNonEmptyString(m map[string]any, key string) bool {
	s, ok := m[key].(string)
	return ok && strings.TrimSpace(s) != ""
}

func hasPayer(m map[string]any) bool {
	payer, ok := m["payer"].(map[string]any)
	if !ok {
		return false
	}
	return hasNonEmptyString(payer, "email") || hasPayerID(payer)
}

func hasPayerID(payer map[string]any) bool {
	v, ok := payer["id"]
	if !ok || v == nil {
		return false
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	return s != "" && s != "<nil>"
}

func ensurePayerDefaults(m map[string]any, sandboxEmail string) {
	v, ok := m["payer"]
	if !ok || v == nil {
		v = map[string]any{}
		m["payer"] = v
	}
	payer, ok := v.(map[string]any)
	if !ok {
		return
	}
	if _, ok := payer["type"]; !ok {
		payer["type"] = "customer"
	}
	// Either payer.id or payer.email is accepted.
	if !hasPayerID(payer) && !hasNonEmptyString(payer, "email") && strings.TrimSpace(sandboxEmail) != "" {
		payer["email"] = strings.TrimSpace(sandboxEmail)
	}
}

func classifyGatewayError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "customer not found") || strings.Contains(msg, "\"code\":2002"):
		return ErrPaymentGatewayCustomerNotFound
	case strings.Contains(msg, "invalid users involved") || strings.Contains(msg, "\"code\":2034"):
		return ErrPaymentGatewayInvalidUsers
	case strings.Contains(msg, "\"error\":\"unauthorized\"") || strings.Contains(msg, "\"status\":401"):
		return ErrPaymentGatewayUnauthorized
	case strings.Contains(msg, "\"error\":\"bad_request\"") || strings.Contains(msg, "\"status\":400"):
		return ErrPaymentGatewayBadRequest
	default:
		return err
	}
}
