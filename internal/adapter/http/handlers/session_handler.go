package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	request "agency_estimate/internal/adapter/http/dto/request"
	response "agency_estimate/internal/adapter/http/dto/response"
	"agency_estimate/internal/domain/entities"
	"agency_estimate/internal/usecase"
	"agency_estimate/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidRequest     = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	errInvalidItemStatus  = pkg.NewDomainErrorSimple("INVALID_ITEM_STATUS", "Item status must be active or removed", http.StatusBadRequest)
	errInvalidStepPayload = pkg.NewDomainErrorSimple("INVALID_STEP", "step must be an integer", http.StatusBadRequest)
)

// SessionHandler exposes the estimate wizard state of one visitor.
type SessionHandler struct {
	usecase usecase.ISessionUseCase
}

func NewSessionHandler(uc usecase.ISessionUseCase) *SessionHandler {
	return &SessionHandler{usecase: uc}
}

// StartSession godoc
// @Summary  Start a wizard session
// @Tags     sessions
// @Produce  json
// @Success  201 {object} response.SessionResponse
// @Router   /sessions [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	s, err := h.usecase.Start(c.Request.Context())
	if err != nil {
		writeError(c, mapSessionError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromSession(s))
}

// GetSession godoc
// @Summary  Get flow state and invoice details
// @Tags     sessions
// @Produce  json
// @Param    session_id path string true "Session ID"
// @Success  200 {object} response.SessionResponse
// @Failure  404 {object} pkg.HTTPError
// @Router   /sessions/{session_id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	s, err := h.usecase.Get(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		writeError(c, mapSessionError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromSession(s))
}

// SetCurrentStep godoc
// @Summary  Move the wizard to a step
// @Tags     sessions
// @Accept   json
// @Produce  json
// @Param    session_id path string true "Session ID"
// @Param    body body request.SetStepRequest true "Step"
// @Success  200 {object} response.SessionResponse
// @Router   /sessions/{session_id}/step [put]
func (h *SessionHandler) SetCurrentStep(c *gin.Context) {
	var payload request.SetStepRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidStepPayload)
		return
	}
	h.respond(c, func(ctx context.Context, id string) (entities.Session, error) {
		return h.usecase.SetCurrentStep(ctx, id, *payload.Step)
	})
}

// UpdateSelection godoc
// @Summary  Replace the options chosen at a step
// @Tags     sessions
// @Accept   json
// @Produce  json
// @Param    session_id path string true "Session ID"
// @Param    step_id path string true "Step ID"
// @Param    body body request.UpdateSelectionRequest true "Selected option ids"
// @Success  200 {object} response.SessionResponse
// @Router   /sessions/{session_id}/selections/{step_id} [put]
func (h *SessionHandler) UpdateSelection(c *gin.Context) {
	var payload request.UpdateSelectionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidRequest)
		return
	}
	stepID := c.Param("step_id")
	h.respond(c, func(ctx context.Context, id string) (entities.Session, error) {
		return h.usecase.UpdateSelection(ctx, id, stepID, payload.ResolveSelectedIDs())
	})
}

// ResetFlow godoc
// @Summary  Reset the wizard to its first step
// @Tags     sessions
// @Produce  json
// @Param    session_id path string true "Session ID"
// @Success  200 {object} response.SessionResponse
// @Router   /sessions/{session_id}/reset [post]
func (h *SessionHandler) ResetFlow(c *gin.Context) {
	h.respond(c, h.usecase.ResetFlow)
}

// LoadInvoice godoc
// @Summary  Load translated line items into the session
// @Tags     sessions
// @Accept   json
// @Produce  json
// @Param    session_id path string true "Session ID"
// @Param    body body request.LoadInvoiceRequest true "Groups and customer"
// @Success  200 {object} response.SessionResponse
// @Failure  400 {object} pkg.HTTPError
// @Router   /sessions/{session_id}/invoice [put]
func (h *SessionHandler) LoadInvoice(c *gin.Context) {
	var payload request.LoadInvoiceRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidRequest)
		return
	}
	groups, err := request.ToGroups(payload.Groups)
	if err != nil {
		writeError(c, errInvalidItemStatus)
		return
	}
	h.respond(c, func(ctx context.Context, id string) (entities.Session, error) {
		return h.usecase.LoadInvoice(ctx, id, groups, payload.Customer.ToEntity())
	})
}

// ToggleItem godoc
// @Summary  Remove or restore a line item
// @Tags     sessions
// @Produce  json
// @Param    session_id path string true "Session ID"
// @Param    item_id path string true "Item ID"
// @Success  200 {object} response.SessionResponse
// @Failure  404 {object} pkg.HTTPError
// @Router   /sessions/{session_id}/items/{item_id}/toggle [patch]
func (h *SessionHandler) ToggleItem(c *gin.Context) {
	itemID := c.Param("item_id")
	h.respond(c, func(ctx context.Context, id string) (entities.Session, error) {
		return h.usecase.ToggleItem(ctx, id, itemID)
	})
}

// EndSession godoc
// @Summary  Discard a session
// @Tags     sessions
// @Param    session_id path string true "Session ID"
// @Success  204
// @Router   /sessions/{session_id} [delete]
func (h *SessionHandler) EndSession(c *gin.Context) {
	if err := h.usecase.End(c.Request.Context(), c.Param("session_id")); err != nil {
		writeError(c, mapSessionError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) respond(c *gin.Context, op func(ctx context.Context, sessionID string) (entities.Session, error)) {
	s, err := op(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		writeError(c, mapSessionError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromSession(s))
}

// writeError logs the wrapped cause of server errors; clients only ever see
// the code and message.
func writeError(c *gin.Context, appErr *pkg.AppError) {
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"code", appErr.Code,
			"status", appErr.HTTPStatus,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"err", appErr.Err,
		)
	}
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func mapSessionError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidSessionID), errors.Is(err, usecase.ErrInvalidStepID), errors.Is(err, usecase.ErrInvalidItemID):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrDuplicateItemID):
		return pkg.NewDomainErrorSimple("DUPLICATE_ITEM_ID", "Line item ids must be unique", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrSessionNotFound):
		return pkg.NewDomainErrorSimple("SESSION_NOT_FOUND", "Session not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrItemNotFound):
		return pkg.NewDomainErrorSimple("ITEM_NOT_FOUND", "Item not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrSessionBusy):
		return pkg.NewDomainErrorSimple("SESSION_BUSY", "Session is being updated, retry", http.StatusConflict)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
