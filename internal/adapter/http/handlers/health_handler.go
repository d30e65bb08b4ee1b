package handlers

import (
	"net/http"

	response "agency_estimate/internal/adapter/http/dto/response"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	version string
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

// Ping godoc
// @Summary  Liveness check
// @Tags     health
// @Produce  json
// @Success  200 {object} response.PingResponse
// @Router   /ping [get]
func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, response.PingResponse{Message: "pong", Version: h.version})
}
