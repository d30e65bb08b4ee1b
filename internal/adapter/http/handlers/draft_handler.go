package handlers

import (
	"errors"
	"net/http"

	request "agency_estimate/internal/adapter/http/dto/request"
	response "agency_estimate/internal/adapter/http/dto/response"
	"agency_estimate/internal/usecase"
	"agency_estimate/pkg"

	"github.com/gin-gonic/gin"
)

type DraftHandler struct {
	usecase usecase.IDraftUseCase
}

func NewDraftHandler(uc usecase.IDraftUseCase) *DraftHandler {
	return &DraftHandler{usecase: uc}
}

// CreateDraft godoc
// @Summary  Generate a proposal draft from the current selections
// @Tags     drafts
// @Accept   json
// @Produce  json
// @Param    body body request.DraftRequest true "Selections, items and notes"
// @Success  200 {object} response.DraftResponse
// @Failure  503 {object} pkg.HTTPError
// @Router   /drafts [post]
func (h *DraftHandler) CreateDraft(c *gin.Context) {
	var payload request.DraftRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidRequest)
		return
	}
	groups, err := request.ToGroups(payload.Groups)
	if err != nil {
		writeError(c, errInvalidItemStatus)
		return
	}

	text, err := h.usecase.Generate(c.Request.Context(), usecase.DraftInput{
		Selections: payload.Selections,
		Groups:     groups,
		Notes:      payload.Notes,
	})
	if err != nil {
		writeError(c, mapDraftError(err))
		return
	}
	c.JSON(http.StatusOK, response.DraftResponse{Text: text})
}

func mapDraftError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidDraftInput):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Nothing to draft from", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrTextGeneratorNotConfigured):
		return pkg.NewDomainErrorSimple("DRAFT_UNAVAILABLE", "Draft generation is not configured", http.StatusServiceUnavailable)
	case errors.Is(err, usecase.ErrEmptyDraft):
		return pkg.NewDomainError("DRAFT_UNAVAILABLE", "Draft generation returned no text", err, http.StatusBadGateway)
	default:
		return pkg.NewDomainError("DRAFT_FAILED", "Draft generation failed", err, http.StatusBadGateway)
	}
}
