package handlers

import (
	"context"
	"errors"
	"net/http"

	request "agency_estimate/internal/adapter/http/dto/request"
	response "agency_estimate/internal/adapter/http/dto/response"
	"agency_estimate/internal/adapter/http/middleware"
	"agency_estimate/internal/domain/entities"
	"agency_estimate/internal/usecase"
	"agency_estimate/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidEstimatePayload = pkg.NewDomainErrorSimple("INVALID_ESTIMATE_INPUT", "Invalid estimate payload", http.StatusBadRequest)
	errUnauthenticated        = pkg.NewDomainErrorSimple("UNAUTHORIZED", "Authentication required", http.StatusUnauthorized)
	errUserIDMismatch         = pkg.NewDomainErrorSimple("FORBIDDEN", "userId does not match the authenticated user", http.StatusForbidden)
)

// EstimateHandler is the persistence boundary for "my estimate" results.
type EstimateHandler struct {
	usecase usecase.IEstimateUseCase
}

func NewEstimateHandler(uc usecase.IEstimateUseCase) *EstimateHandler {
	return &EstimateHandler{usecase: uc}
}

// SaveEstimate godoc
// @Summary   Save an estimate
// @Tags      estimates
// @Accept    json
// @Produce   json
// @Param     body body request.SaveEstimateRequest true "Estimate"
// @Success   201 {object} response.EstimateResponse
// @Failure   400 {object} pkg.HTTPError
// @Security  Bearer
// @Router    /estimates [post]
func (h *EstimateHandler) SaveEstimate(c *gin.Context) {
	var payload request.SaveEstimateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidEstimatePayload)
		return
	}
	groups, err := request.ToGroups(payload.Groups)
	if err != nil {
		writeError(c, errInvalidItemStatus)
		return
	}
	userID, err := payload.ResolveUserID(middleware.VerifiedUserID(c), middleware.UserID(c))
	if err != nil {
		writeError(c, errUserIDMismatch)
		return
	}

	estimate, err := h.usecase.SaveEstimate(c.Request.Context(), usecase.SaveEstimateCommand{
		UserID:     userID,
		Selections: payload.ResolveSelections(),
		Groups:     groups,
		Customer:   payload.Customer.ToEntity(),
	})
	if err != nil {
		writeError(c, mapEstimateError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromEstimate(estimate))
}

// GetEstimate godoc
// @Summary   Get an estimate with recomputed totals
// @Tags      estimates
// @Produce   json
// @Param     estimate_id path string true "Estimate ID"
// @Success   200 {object} response.EstimateResponse
// @Failure   404 {object} pkg.HTTPError
// @Security  Bearer
// @Router    /estimates/{estimate_id} [get]
func (h *EstimateHandler) GetEstimate(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	estimate, err := h.usecase.GetByID(c.Request.Context(), userID, c.Param("estimate_id"))
	if err != nil {
		writeError(c, mapEstimateError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromEstimate(estimate))
}

// ListMyEstimates godoc
// @Summary   List the caller's estimates, newest first
// @Tags      estimates
// @Produce   json
// @Success   200 {array} response.EstimateResponse
// @Security  Bearer
// @Router    /estimates [get]
func (h *EstimateHandler) ListMyEstimates(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	list, err := h.usecase.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		writeError(c, mapEstimateError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromEstimates(list))
}

// ToggleItem godoc
// @Summary   Remove or restore a line item of a pending estimate
// @Tags      estimates
// @Produce   json
// @Param     estimate_id path string true "Estimate ID"
// @Param     item_id path string true "Item ID"
// @Success   200 {object} response.EstimateResponse
// @Failure   409 {object} pkg.HTTPError
// @Security  Bearer
// @Router    /estimates/{estimate_id}/items/{item_id}/toggle [patch]
func (h *EstimateHandler) ToggleItem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	estimate, err := h.usecase.ToggleItem(c.Request.Context(), userID, c.Param("estimate_id"), c.Param("item_id"))
	if err != nil {
		writeError(c, mapEstimateError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromEstimate(estimate))
}

// ApproveEstimate godoc
// @Summary   Approve a pending estimate
// @Tags      estimates
// @Produce   json
// @Param     estimate_id path string true "Estimate ID"
// @Success   200 {object} response.EstimateResponse
// @Failure   409 {object} pkg.HTTPError
// @Security  Bearer
// @Router    /estimates/{estimate_id}/approve [patch]
func (h *EstimateHandler) ApproveEstimate(c *gin.Context) {
	h.patchEstimateStatus(c, h.usecase.Approve)
}

// RejectEstimate godoc
// @Summary   Reject a pending estimate
// @Tags      estimates
// @Param     estimate_id path string true "Estimate ID"
// @Success   200 {object} response.EstimateResponse
// @Security  Bearer
// @Router    /estimates/{estimate_id}/reject [patch]
func (h *EstimateHandler) RejectEstimate(c *gin.Context) {
	h.patchEstimateStatus(c, h.usecase.Reject)
}

// CancelEstimate godoc
// @Summary   Cancel a pending estimate
// @Tags      estimates
// @Param     estimate_id path string true "Estimate ID"
// @Success   200 {object} response.EstimateResponse
// @Security  Bearer
// @Router    /estimates/{estimate_id}/cancel [patch]
func (h *EstimateHandler) CancelEstimate(c *gin.Context) {
	h.patchEstimateStatus(c, h.usecase.Cancel)
}

func (h *EstimateHandler) patchEstimateStatus(
	c *gin.Context,
	updater func(ctx context.Context, userID, estimateID string) (entities.Estimate, error),
) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	estimate, err := updater(c.Request.Context(), userID, c.Param("estimate_id"))
	if err != nil {
		writeError(c, mapEstimateError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromEstimate(estimate))
}

// requireUser writes a 401 when the request carries no user.
func requireUser(c *gin.Context) (string, bool) {
	userID := middleware.UserID(c)
	if userID == "" {
		writeError(c, errUnauthenticated)
		return "", false
	}
	return userID, true
}

func mapEstimateError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidEstimateID), errors.Is(err, usecase.ErrInvalidItemID):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidUserID):
		return pkg.NewDomainErrorSimple("INVALID_USER_ID", "userId is required", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidSelections):
		return pkg.NewDomainErrorSimple("INVALID_SELECTIONS", "Nothing was selected", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrDuplicateItemID):
		return pkg.NewDomainErrorSimple("DUPLICATE_ITEM_ID", "Line item ids must be unique", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrEstimateNotFound):
		return pkg.NewDomainErrorSimple("ESTIMATE_NOT_FOUND", "Estimate not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrItemNotFound):
		return pkg.NewDomainErrorSimple("ITEM_NOT_FOUND", "Item not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrEstimateLocked):
		return pkg.NewDomainErrorSimple("ESTIMATE_LOCKED", "Only pending estimates can be edited", http.StatusConflict)
	case errors.Is(err, usecase.ErrInvalidStatusTransition):
		return pkg.NewDomainErrorSimple("INVALID_STATUS_TRANSITION", "Only pending estimates can be decided", http.StatusConflict)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
