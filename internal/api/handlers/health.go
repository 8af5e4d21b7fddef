package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"qna_web/internal/errs"
	"qna_web/internal/service"
)

type HealthHandler struct {
	health *service.HealthService
}

func NewHealthHandler(health *service.HealthService) *HealthHandler {
	return &HealthHandler{health: health}
}

func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.health.Check(c.Request.Context()); err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("database ping failed")
		respondError(c, errs.NewServiceUnavailableError("database unavailable"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
