package handler

import (
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/usecase"
	"github.com/gin-gonic/gin"
)

type FocusHandler struct {
	focusUsecase *usecase.FocusUsecase
	logger       *slog.Logger
}

func NewFocusHandler(focusUsecase *usecase.FocusUsecase, logger *slog.Logger) *FocusHandler {
	return &FocusHandler{focusUsecase: focusUsecase, logger: logger.With("component", "focus_handler")}
}

func (h *FocusHandler) List(ctx *gin.Context) {
	sessions, err := h.focusUsecase.List(ctx.Request.Context(), ctx.GetString("userID"))
	if err != nil {
		writeError(ctx, h.logger, "list focus sessions", err)
		return
	}
	ctx.JSON(http.StatusOK, sessions)
}

func (h *FocusHandler) Start(ctx *gin.Context) {
	var req domain.StartFocusInput
	if !bind(ctx, &req) {
		return
	}
	s, err := h.focusUsecase.Start(ctx.Request.Context(), ctx.GetString("userID"), req)
	if err != nil {
		writeError(ctx, h.logger, "start focus session", err)
		return
	}
	ctx.JSON(http.StatusCreated, s)
}

func (h *FocusHandler) End(ctx *gin.Context) {
	var req domain.EndFocusInput
	if !bind(ctx, &req) {
		return
	}
	s, err := h.focusUsecase.End(ctx.Request.Context(), ctx.GetString("userID"), ctx.Param("id"), req)
	if err != nil {
		writeError(ctx, h.logger, "end focus session", err)
		return
	}
	ctx.JSON(http.StatusOK, s)
}

func (h *FocusHandler) Delete(ctx *gin.Context) {
	if err := h.focusUsecase.Delete(ctx.Request.Context(), ctx.GetString("userID"), ctx.Param("id")); err != nil {
		writeError(ctx, h.logger, "delete focus session", err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
