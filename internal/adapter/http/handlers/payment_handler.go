package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	response "agency_estimate/internal/adapter/http/dto/response"
	"agency_estimate/internal/usecase"
	"agency_estimate/pkg"

	"github.com/gin-gonic/gin"
)

// PaymentHandler charges the deposit of an approved estimate.
type PaymentHandler struct {
	usecase usecase.IPaymentUseCase
}

func NewPaymentHandler(uc usecase.IPaymentUseCase) *PaymentHandler {
	return &PaymentHandler{usecase: uc}
}

// CreatePaymentByEstimateID godoc
// @Summary   Charge an approved estimate
// @Tags      payments
// @Accept    json
// @Produce   json
// @Param     estimate_id path string true "Estimate ID"
// @Param     body body request.PaymentCreateRequest false "Mercado Pago payload, bare or wrapped in mp_payload"
// @Success   200 {object} response.PaymentResponse
// @Failure   409 {object} pkg.HTTPError
// @Security  Bearer
// @Router    /payments/{estimate_id} [post]
func (h *PaymentHandler) CreatePaymentByEstimateID(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	estimateID := c.Param("estimate_id")
	payload, err := readMPPayload(c)
	if err != nil {
		// The use case decides whether an unreadable payload is acceptable (mock mode).
		slog.InfoContext(c.Request.Context(), "payment payload unreadable", "estimate_id", estimateID, "err", err)
		payload = nil
	}

	created, err := h.usecase.CreateForEstimate(c.Request.Context(), userID, estimateID, payload)
	if err != nil {
		writeError(c, mapPaymentError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromPayment(created))
}

// GetPaymentByEstimateID godoc
// @Summary   Latest payment of an estimate
// @Tags      payments
// @Produce   json
// @Param     estimate_id path string true "Estimate ID"
// @Success   200 {object} response.PaymentResponse
// @Failure   404 {object} pkg.HTTPError
// @Security  Bearer
// @Router    /payments/{estimate_id} [get]
func (h *PaymentHandler) GetPaymentByEstimateID(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	latest, err := h.usecase.LatestByEstimateID(c.Request.Context(), userID, c.Param("estimate_id"))
	if err != nil {
		writeError(c, mapPaymentError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromPayment(latest))
}

func readMPPayload(c *gin.Context) (json.RawMessage, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(raw) {
		return nil, errors.New("request body is not valid json")
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if wrapped, ok := envelope["mp_payload"]; ok {
			if w := strings.TrimSpace(string(wrapped)); w == "" || w == "null" {
				return nil, errors.New("mp_payload cannot be empty")
			}
			return wrapped, nil
		}
	}
	return json.RawMessage(raw), nil
}

func mapPaymentError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidPaymentEstimateID), errors.Is(err, usecase.ErrInvalidEstimateID), errors.Is(err, usecase.ErrInvalidPaymentPayload), errors.Is(err, usecase.ErrPaymentGatewayBadRequest):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayCustomerNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_CUSTOMER_NOT_FOUND", "Payer not found for this Mercado Pago test context", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayInvalidUsers):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_INVALID_USERS", "Invalid users involved between seller token and payer test user", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidUserID):
		return errUnauthenticated
	case errors.Is(err, usecase.ErrPaymentGatewayUnauthorized):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_UNAUTHORIZED", "Payment provider unauthorized", http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrPaymentGatewayNotConfigured):
		return pkg.NewDomainErrorSimple("PAYMENT_UNAVAILABLE", "Payment gateway not configured", http.StatusServiceUnavailable)
	case errors.Is(err, usecase.ErrEstimateNotFound):
		return pkg.NewDomainErrorSimple("ESTIMATE_NOT_FOUND", "Estimate not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrEstimateAlreadyPaid):
		return pkg.NewDomainErrorSimple("ESTIMATE_ALREADY_PAID", "Estimate already has an approved payment", http.StatusConflict)
	case errors.Is(err, usecase.ErrEstimateNotApproved):
		return pkg.NewDomainErrorSimple("ESTIMATE_NOT_APPROVED", "Estimate not approved", http.StatusConflict)
	case errors.Is(err, usecase.ErrNothingToCharge):
		return pkg.NewDomainErrorSimple("NOTHING_TO_CHARGE", "Estimate total is zero", http.StatusConflict)
	case errors.Is(err, usecase.ErrPaymentNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment not found", http.StatusNotFound)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
