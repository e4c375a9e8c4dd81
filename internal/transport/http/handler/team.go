package handler

import (
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/usecase"
	"github.com/gin-gonic/gin"
)

// TeamHandler serves teams, invitations and notifications.
type TeamHandler struct {
	teamUsecase *usecase.TeamUsecase
	logger      *slog.Logger
}

func NewTeamHandler(teamUsecase *usecase.TeamUsecase, logger *slog.Logger) *TeamHandler {
	return &TeamHandler{teamUsecase: teamUsecase, logger: logger.With("component", "team_handler")}
}

func (h *TeamHandler) List(ctx *gin.Context) {
	teams, err := h.teamUsecase.List(ctx.Request.Context(), ctx.GetString("userID"))
	if err != nil {
		writeError(ctx, h.logger, "list teams", err)
		return
	}
	ctx.JSON(http.StatusOK, teams)
}

func (h *TeamHandler) Create(ctx *gin.Context) {
	var req domain.CreateTeamInput
	if !bind(ctx, &req) {
		return
	}
	team, err := h.teamUsecase.Create(ctx.Request.Context(), ctx.GetString("userID"), req)
	if err != nil {
		writeError(ctx, h.logger, "create team", err)
		return
	}
	ctx.JSON(http.StatusCreated, team)
}

func (h *TeamHandler) Delete(ctx *gin.Context) {
	if err := h.teamUsecase.Delete(ctx.Request.Context(), ctx.GetString("userID"), ctx.Param("id")); err != nil {
		writeError(ctx, h.logger, "delete team", err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (h *TeamHandler) Invite(ctx *gin.Context) {
	var req domain.InviteInput
	if !bind(ctx, &req) {
		return
	}
	inv, err := h.teamUsecase.Invite(ctx.Request.Context(), ctx.GetString("userID"), ctx.Param("id"), req)
	if err != nil {
		writeError(ctx, h.logger, "invite", err)
		return
	}
	ctx.JSON(http.StatusCreated, inv)
}

func (h *TeamHandler) Accept(ctx *gin.Context) { h.answer(ctx, true) }

func (h *TeamHandler) Decline(ctx *gin.Context) { h.answer(ctx, false) }

func (h *TeamHandler) answer(ctx *gin.Context, accept bool) {
	msg, err := h.teamUsecase.Answer(ctx.Request.Context(), ctx.GetString("userID"), ctx.Param("id"), accept)
	if err != nil {
		writeError(ctx, h.logger, "answer invitation", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": msg})
}

func (h *TeamHandler) Notifications(ctx *gin.Context) {
	items, err := h.teamUsecase.Notifications(ctx.Request.Context(), ctx.GetString("userID"))
	if err != nil {
		writeError(ctx, h.logger, "list notifications", err)
		return
	}
	ctx.JSON(http.StatusOK, items)
}

func (h *TeamHandler) MarkRead(ctx *gin.Context) {
	n, err := h.teamUsecase.MarkRead(ctx.Request.Context(), ctx.GetString("userID"), ctx.Param("id"))
	if err != nil {
		writeError(ctx, h.logger, "mark notification read", err)
		return
	}
	ctx.JSON(http.StatusOK, n)
}
