package handler

import (
	"net/http"

	"github.com/ErlanBelekov/focusboard/internal/health"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	checker *health.Checker
}

func NewHealthHandler(checker *health.Checker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// GET /api/health
func (h *HealthHandler) Get(ctx *gin.Context) {
	res := h.checker.Readiness(ctx.Request.Context())
	status := http.StatusOK
	if res.Status != health.StatusUp {
		status = http.StatusServiceUnavailable
	}
	ctx.JSON(status, res)
}
